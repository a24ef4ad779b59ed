package xmlpull

import "strings"

// parseCharData scans a run of character data up to (but not consuming)
// the next '<', resolving entity references inline, and classifies the
// run as Whitespace or Text as a whole: a run is Whitespace only if
// every character in it, after entity resolution, is XML whitespace; a
// single non-space character anywhere in the run makes the whole run
// Text.
func (p *Reader) parseCharData(startRow, startCol, depth int) bool {
	var b strings.Builder
	allWhiteSpace := true
	for {
		res := p.read()
		if res.Status != StatusOK {
			p.unread(res) // end of input or an error: let the caller's next step() handle it
			break
		}
		cp := res.Codepoint
		if cp == '<' {
			p.unread(res)
			break
		}
		if cp == ']' {
			if p.peekCDataSectionClose() {
				row, col := p.position()
				return p.fail(ErrInvalidSyntax, row, col, "']]>' is not allowed in character data")
			}
		}
		if cp == '&' {
			resolved, ok := p.resolveEntity()
			if !ok {
				return false
			}
			for _, rc := range resolved {
				if !IsWhiteSpace(rc) {
					allWhiteSpace = false
				}
				b.WriteRune(rc)
			}
			continue
		}
		if !IsWhiteSpace(cp) {
			allWhiteSpace = false
		}
		b.WriteRune(cp)
	}

	p.node.reset()
	if allWhiteSpace {
		p.node.Kind = KindWhitespace
	} else {
		p.node.Kind = KindText
	}
	p.node.Value = b.String()
	p.node.Row, p.node.Column, p.node.Depth = startRow, startCol, depth
	return true
}

// peekCDataSectionClose reports whether the two codepoints following an
// already-consumed ']' spell out "]>" (completing the forbidden literal
// "]]>" in character data), restoring them to the pushback either way.
func (p *Reader) peekCDataSectionClose() bool {
	first := p.read()
	if first.Status != StatusOK || first.Codepoint != ']' {
		if first.Status == StatusOK {
			p.unread(first)
		}
		return false
	}
	second := p.read()
	if second.Status != StatusOK || second.Codepoint != '>' {
		if second.Status == StatusOK {
			p.unread(second)
		}
		p.unread(first)
		return false
	}
	p.unread(second)
	p.unread(first)
	return true
}

// resolveEntity resolves one entity reference, having already consumed
// the leading '&'. It is shared by parseCharData and
// parseAttributeValue: both need the same predefined-entity and
// numeric-character-reference handling (escape.go).
func (p *Reader) resolveEntity() (string, bool) {
	res := p.read()
	if res.Status != StatusOK {
		row, col := p.position()
		p.fail(ErrUnclosedToken, row, col, "unterminated entity reference")
		return "", false
	}

	if res.Codepoint == '#' {
		hex := false
		res = p.read()
		if res.Status == StatusOK && (res.Codepoint == 'x' || res.Codepoint == 'X') {
			hex = true
			res = p.read()
		}
		var digits strings.Builder
		for res.Status == StatusOK && res.Codepoint != ';' {
			digits.WriteRune(res.Codepoint)
			res = p.read()
		}
		if res.Status != StatusOK || res.Codepoint != ';' {
			row, col := p.position()
			p.fail(ErrUnclosedToken, row, col, "unterminated character reference")
			return "", false
		}
		cp, ok := numericCharRef(digits.String(), hex)
		if !ok || !IsChar(cp) {
			row, col := p.position()
			p.fail(ErrInvalidSyntax, row, col, "invalid character reference &#%s;", digits.String())
			return "", false
		}
		return string(cp), true
	}

	var name strings.Builder
	for res.Status == StatusOK && res.Codepoint != ';' {
		name.WriteRune(res.Codepoint)
		res = p.read()
	}
	if res.Status != StatusOK || res.Codepoint != ';' {
		row, col := p.position()
		p.fail(ErrUnclosedToken, row, col, "unterminated entity reference &%s", name.String())
		return "", false
	}
	cp, ok := predefinedEntity(name.String())
	if !ok {
		row, col := p.position()
		if !entityNameLooksLikeRef(name.String()) {
			p.fail(ErrInvalidSyntax, row, col, "malformed entity reference &%s;", name.String())
		} else {
			p.fail(ErrInvalidSyntax, row, col, "undeclared entity &%s;", name.String())
		}
		return "", false
	}
	return string(cp), true
}
