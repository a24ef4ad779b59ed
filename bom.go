package xmlpull

// DetectBOM classifies a byte-order-mark at the front of peek (up to the
// first four bytes of a source) and reports how many bytes belong to it.
// If no signature matches, Encoding is UTF8 and Consumed is 0 (absent a
// byte-order mark, UTF-8 is assumed). The UTF-32 little endian test is
// checked before the UTF-16 little endian test, since the UTF-16LE
// signature "FF FE" is a prefix of the UTF-32LE signature "FF FE 00 00".
func DetectBOM(peek []byte) (enc Encoding, consumed int) {
	has := func(sig ...byte) bool {
		if len(peek) < len(sig) {
			return false
		}
		for i, b := range sig {
			if peek[i] != b {
				return false
			}
		}
		return true
	}

	switch {
	case has(0x00, 0x00, 0xFE, 0xFF):
		return UTF32BE, 4
	case has(0xFF, 0xFE, 0x00, 0x00):
		return UTF32LE, 4
	case has(0xFE, 0xFF):
		return UTF16BE, 2
	case has(0xFF, 0xFE):
		return UTF16LE, 2
	case has(0xEF, 0xBB, 0xBF):
		return UTF8, 3
	default:
		return UTF8, 0
	}
}

// bomSignature returns the canonical byte-order-mark bytes for enc, or
// nil if enc has no BOM signature (there is exactly one per supported
// encoding here).
func bomSignature(enc Encoding) []byte {
	switch enc {
	case UTF32BE:
		return []byte{0x00, 0x00, 0xFE, 0xFF}
	case UTF32LE:
		return []byte{0xFF, 0xFE, 0x00, 0x00}
	case UTF16BE:
		return []byte{0xFE, 0xFF}
	case UTF16LE:
		return []byte{0xFF, 0xFE}
	case UTF8:
		return []byte{0xEF, 0xBB, 0xBF}
	default:
		return nil
	}
}

// peekUpTo reads up to n bytes from src without a native "peek"
// operation, returning the bytes actually read (fewer than n at end of
// source) so the caller can both classify and reconstruct a source that
// replays them.
func peekUpTo(src byteSource, n int) []byte {
	buf := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := src.nextByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	return buf
}
