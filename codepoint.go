package xmlpull

// Codepoint is a Unicode scalar value in U+0000..U+10FFFF. It is never
// materialized outside that range.
type Codepoint = rune

// IsChar reports whether cp is a legal XML 1.0 character (production
// [2] Char). Invalid characters never appear in a successfully decoded
// ReadResult and never appear in Node values.
func IsChar(cp Codepoint) bool {
	switch {
	case cp == 0x9 || cp == 0xA || cp == 0xD:
		return true
	case cp >= 0x20 && cp <= 0xD7FF:
		return true
	case cp >= 0xE000 && cp <= 0xFFFD:
		return true
	case cp >= 0x10000 && cp <= 0x10FFFF:
		return true
	default:
		return false
	}
}

// IsWhiteSpace reports whether cp is XML whitespace (production [3] S):
// space, tab, carriage return, or line feed.
func IsWhiteSpace(cp Codepoint) bool {
	return cp == 0x20 || cp == 0x9 || cp == 0xD || cp == 0xA
}

// IsNameStartChar reports whether cp may begin a Name (production [4]
// NameStartChar).
func IsNameStartChar(cp Codepoint) bool {
	switch {
	case cp == ':' || cp == '_':
		return true
	case cp >= 'A' && cp <= 'Z':
		return true
	case cp >= 'a' && cp <= 'z':
		return true
	case cp >= 0xC0 && cp <= 0xD6:
		return true
	case cp >= 0xD8 && cp <= 0xF6:
		return true
	case cp >= 0xF8 && cp <= 0x2FF:
		return true
	case cp >= 0x370 && cp <= 0x37D:
		return true
	case cp >= 0x37F && cp <= 0x1FFF:
		return true
	case cp >= 0x200C && cp <= 0x200D:
		return true
	case cp >= 0x2070 && cp <= 0x218F:
		return true
	case cp >= 0x2C00 && cp <= 0x2FEF:
		return true
	case cp >= 0x3001 && cp <= 0xD7FF:
		return true
	case cp >= 0xF900 && cp <= 0xFDCF:
		return true
	case cp >= 0xFDF0 && cp <= 0xFFFD:
		return true
	case cp >= 0x10000 && cp <= 0xEFFFF:
		return true
	default:
		return false
	}
}

// IsNameChar reports whether cp may occur anywhere in a Name after the
// first character (production [4a] NameChar), a superset of
// IsNameStartChar.
func IsNameChar(cp Codepoint) bool {
	if IsNameStartChar(cp) {
		return true
	}
	switch {
	case cp == '-' || cp == '.':
		return true
	case cp >= '0' && cp <= '9':
		return true
	case cp == 0xB7:
		return true
	case cp >= 0x300 && cp <= 0x36F:
		return true
	case cp >= 0x203F && cp <= 0x2040:
		return true
	default:
		return false
	}
}

// IsEncNameStartChar reports whether cp may begin an encoding name
// (production [81] EncName), ASCII letters only.
func IsEncNameStartChar(cp Codepoint) bool {
	return (cp >= 'A' && cp <= 'Z') || (cp >= 'a' && cp <= 'z')
}

// IsEncNameChar reports whether cp may occur anywhere in an encoding name
// after the first character.
func IsEncNameChar(cp Codepoint) bool {
	switch {
	case IsEncNameStartChar(cp):
		return true
	case cp >= '0' && cp <= '9':
		return true
	case cp == '.' || cp == '_' || cp == '-':
		return true
	default:
		return false
	}
}

// HexDigitValue returns the numeric value of cp as a hexadecimal digit
// (0..15), or -1 if cp is not a hex digit.
func HexDigitValue(cp Codepoint) int {
	switch {
	case cp >= '0' && cp <= '9':
		return int(cp - '0')
	case cp >= 'A' && cp <= 'F':
		return int(cp-'A') + 10
	case cp >= 'a' && cp <= 'f':
		return int(cp-'a') + 10
	default:
		return -1
	}
}
