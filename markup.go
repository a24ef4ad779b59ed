package xmlpull

import "strings"

// parseMarkup dispatches on what follows '<' — '/', '?', '!', or a name
// start character — having already captured the position of '<' itself.
func (p *Reader) parseMarkup(ltRow, ltCol int) bool {
	res := p.read()
	if res.Status != StatusOK {
		row, col := p.position()
		return p.fail(ErrUnclosedToken, row, col, "unexpected end of input after '<'")
	}
	switch {
	case res.Codepoint == '/':
		return p.parseEndTag(ltRow, ltCol)
	case res.Codepoint == '?':
		return p.parsePI(ltRow, ltCol)
	case res.Codepoint == '!':
		return p.parseBang(ltRow, ltCol)
	case IsNameStartChar(res.Codepoint):
		p.unread(res)
		return p.parseStartTag(ltRow, ltCol)
	default:
		row, col := p.position()
		return p.fail(ErrInvalidSyntax, row, col, "expected an element, comment, or processing instruction after '<'")
	}
}

// parseEndTag parses "</" Name S? ">" , having already consumed "</".
func (p *Reader) parseEndTag(ltRow, ltCol int) bool {
	name, nameRow, nameCol, ok := p.readName()
	if !ok {
		return p.fail(ErrInvalidTagName, nameRow, nameCol, "expected an element name after '</'")
	}
	res := p.skipWhiteSpace()
	if res.Status != StatusOK || res.Codepoint != '>' {
		row, col := p.position()
		return p.fail(ErrInvalidSyntax, row, col, "expected '>' after end tag name %q", name)
	}

	if len(p.elements) == 0 {
		return p.fail(ErrUnexpectedEndTag, ltRow, ltCol, "end tag %q has no matching start tag", name)
	}
	top := p.elements[len(p.elements)-1]
	if top.qualifiedName != name {
		return p.fail(ErrUnclosedTag, top.row, top.col, "element <%s> was never closed", top.qualifiedName)
	}

	nsURI, _ := p.ns.resolveElementName(top.prefix)
	depth := len(p.elements) - 1

	p.elements = p.elements[:len(p.elements)-1]
	p.ns.pop()

	resolvedName := p.internName(top.prefix, top.localName, top.qualifiedName, nsURI)

	p.node.reset()
	p.node.Kind = KindEndElement
	p.node.Name = resolvedName.QualifiedName
	p.node.Prefix = resolvedName.Prefix
	p.node.LocalName = resolvedName.LocalName
	p.node.NamespaceURI = resolvedName.NamespaceURI
	p.node.Row, p.node.Column, p.node.Depth = ltRow, ltCol, depth
	return true
}

// parseBang handles the three "<!" forms: comments, CDATA sections, and
// DOCTYPE declarations.
func (p *Reader) parseBang(ltRow, ltCol int) bool {
	res := p.read()
	if res.Status != StatusOK {
		row, col := p.position()
		return p.fail(ErrUnclosedToken, row, col, "unexpected end of input after '<!'")
	}
	switch res.Codepoint {
	case '-':
		if !p.expectLiteral('-') {
			return false
		}
		return p.parseComment(ltRow, ltCol)
	case '[':
		if !p.expectLiteral('C', 'D', 'A', 'T', 'A', '[') {
			return false
		}
		return p.parseCData(ltRow, ltCol)
	case 'D':
		if !p.expectLiteral('O', 'C', 'T', 'Y', 'P', 'E') {
			return false
		}
		return p.parseDoctype(ltRow, ltCol)
	default:
		row, col := p.position()
		return p.fail(ErrInvalidSyntax, row, col, "expected '<!--', '<![CDATA[', or '<!DOCTYPE'")
	}
}

// expectLiteral consumes exactly the given codepoints in order, failing
// with ErrInvalidSyntax (or ErrUnclosedToken at end of input) otherwise.
func (p *Reader) expectLiteral(cps ...Codepoint) bool {
	for _, want := range cps {
		res := p.read()
		if res.Status != StatusOK {
			row, col := p.position()
			p.fail(ErrUnclosedToken, row, col, "unexpected end of input")
			return false
		}
		if res.Codepoint != want {
			row, col := p.position()
			p.fail(ErrInvalidSyntax, row, col, "malformed markup declaration")
			return false
		}
	}
	return true
}

// parseComment reads comment content up to "-->", rejecting "--" that is
// not immediately followed by '>' (XML 1.0 forbids "--" inside a
// comment).
func (p *Reader) parseComment(ltRow, ltCol int) bool {
	var b strings.Builder
	hyphens := 0
	for {
		res := p.read()
		if res.Status != StatusOK {
			row, col := p.position()
			return p.fail(ErrUnclosedToken, row, col, "unterminated comment")
		}
		cp := res.Codepoint
		if cp == '-' {
			hyphens++
			if hyphens >= 2 {
				// Peek for the closing '>'.
				next := p.read()
				if next.Status == StatusOK && next.Codepoint == '>' {
					value := b.String()
					value = value[:len(value)-1] // drop the first '-' of "-->" we already wrote
					p.node.reset()
					p.node.Kind = KindComment
					p.node.Value = value
					p.node.Row, p.node.Column, p.node.Depth = ltRow, ltCol, len(p.elements)
					return true
				}
				row, col := p.position()
				return p.fail(ErrInvalidSyntax, row, col, "'--' is not allowed inside a comment")
			}
			b.WriteRune(cp)
			continue
		}
		hyphens = 0
		b.WriteRune(cp)
	}
}

// parseCData reads a CDATA section's content up to "]]>" verbatim: no
// entity resolution, no further validation beyond the character
// validity the reader already guarantees.
func (p *Reader) parseCData(ltRow, ltCol int) bool {
	var b strings.Builder
	closing := 0 // count of consecutive ']' seen
	for {
		res := p.read()
		if res.Status != StatusOK {
			row, col := p.position()
			return p.fail(ErrUnclosedToken, row, col, "unterminated CDATA section")
		}
		cp := res.Codepoint
		if cp == ']' {
			closing++
			b.WriteRune(cp)
			continue
		}
		if cp == '>' && closing >= 2 {
			value := b.String()
			value = value[:len(value)-2] // drop the trailing "]]" we already wrote
			p.node.reset()
			p.node.Kind = KindCData
			p.node.Value = value
			p.node.Row, p.node.Column, p.node.Depth = ltRow, ltCol, len(p.elements)
			return true
		}
		closing = 0
		b.WriteRune(cp)
	}
}

// parsePI reads a processing instruction target and its data, or — if
// the target is "xml" and this is the first token of the document —
// parses it as an XmlDeclaration instead.
func (p *Reader) parsePI(ltRow, ltCol int) bool {
	target, targetRow, targetCol, ok := p.readName()
	if !ok {
		return p.fail(ErrInvalidSyntax, targetRow, targetCol, "expected a processing instruction target after '<?'")
	}
	isXMLTarget := strings.EqualFold(target, "xml")
	atDocStart := p.nodesEmitted == 0 && ltRow == 1 && ltCol == 1

	if isXMLTarget {
		if !atDocStart {
			return p.fail(ErrInvalidSyntax, targetRow, targetCol, "an 'xml' processing instruction target is reserved for the XML declaration")
		}
		return p.parseXMLDeclaration(ltRow, ltCol)
	}
	if target == "" {
		return p.fail(ErrInvalidSyntax, targetRow, targetCol, "expected a processing instruction target")
	}

	// Optional single whitespace run, then raw data up to "?>".
	res := p.read()
	var b strings.Builder
	if res.Status == StatusOK && IsWhiteSpace(res.Codepoint) {
		res = p.skipWhiteSpace()
	}
	for {
		if res.Status != StatusOK {
			row, col := p.position()
			return p.fail(ErrUnclosedToken, row, col, "unterminated processing instruction")
		}
		if res.Codepoint == '?' {
			next := p.read()
			if next.Status == StatusOK && next.Codepoint == '>' {
				break
			}
			b.WriteRune('?')
			if next.Status == StatusOK {
				p.unread(next)
			}
			res = p.read()
			continue
		}
		b.WriteRune(res.Codepoint)
		res = p.read()
	}

	p.node.reset()
	p.node.Kind = KindProcessingInstruction
	p.node.Name = target
	p.node.LocalName = target
	p.node.Value = b.String()
	p.node.Row, p.node.Column, p.node.Depth = ltRow, ltCol, len(p.elements)
	return true
}

// parseXMLDeclaration parses "<?xml" VersionInfo EncodingDecl?
// SDDecl? S? "?>" into a KindXmlDeclaration node.
func (p *Reader) parseXMLDeclaration(ltRow, ltCol int) bool {
	pseudoAttrs, ok := p.parseXMLDeclAttrs()
	if !ok {
		return false
	}

	var version, encoding, standalone string
	for _, a := range pseudoAttrs {
		switch a.qualifiedName {
		case "version":
			version = a.value
		case "encoding":
			encoding = a.value
		case "standalone":
			standalone = a.value
		default:
			return p.fail(ErrInvalidSyntax, a.row, a.col, "unexpected XML declaration attribute %q", a.qualifiedName)
		}
	}

	if encoding != "" {
		p.maybeSwapCharset(encoding)
	}

	p.node.reset()
	p.node.Kind = KindXmlDeclaration
	p.node.Value = version
	p.node.Version = version
	p.node.Encoding = encoding
	p.node.Standalone = standalone
	p.node.Row, p.node.Column, p.node.Depth = ltRow, ltCol, 0
	return true
}

// parseXMLDeclAttrs reads the space-separated name="value" pseudo
// attributes of an XML declaration up to its closing "?>". It cannot
// reuse parseAttributes, whose terminator set is '>' and '/': an XML
// declaration's terminator is '?' followed by '>'.
func (p *Reader) parseXMLDeclAttrs() ([]rawAttribute, bool) {
	var attrs []rawAttribute
	for {
		res := p.skipWhiteSpace()
		if res.Status != StatusOK {
			row, col := p.position()
			p.fail(ErrUnclosedToken, row, col, "unterminated XML declaration")
			return nil, false
		}
		if res.Codepoint == '?' {
			next := p.read()
			if next.Status != StatusOK || next.Codepoint != '>' {
				row, col := p.position()
				p.fail(ErrInvalidSyntax, row, col, "expected '?>' to close the XML declaration")
				return nil, false
			}
			return attrs, true
		}
		if !IsNameStartChar(res.Codepoint) {
			row, col := p.position()
			p.fail(ErrInvalidSyntax, row, col, "expected an XML declaration attribute or '?>'")
			return nil, false
		}
		p.unread(res)
		attr, ok := p.parseAttribute()
		if !ok {
			return nil, false
		}
		attrs = append(attrs, attr)
	}
}

// parseDoctype skips a DOCTYPE declaration's body as an opaque block —
// this parser never processes a DTD's internal subset — tracking only
// enough structure (bracket depth and quoted literals) to find the
// declaration's end reliably, plus the document type name for the
// emitted node.
func (p *Reader) parseDoctype(ltRow, ltCol int) bool {
	if len(p.elements) != 0 || p.seenRoot {
		row, col := p.position()
		return p.fail(ErrInvalidSyntax, row, col, "DOCTYPE must appear before the root element")
	}
	res := p.skipWhiteSpace()
	if res.Status != StatusOK || !IsNameStartChar(res.Codepoint) {
		row, col := p.position()
		return p.fail(ErrInvalidTagName, row, col, "expected a document type name")
	}
	p.unread(res)
	name, _, _, ok := p.readName()
	if !ok {
		row, col := p.position()
		return p.fail(ErrInvalidTagName, row, col, "expected a document type name")
	}

	depth := 0
	var quote Codepoint
	inQuote := false
	for {
		res := p.read()
		if res.Status != StatusOK {
			row, col := p.position()
			return p.fail(ErrUnclosedToken, row, col, "unterminated DOCTYPE declaration")
		}
		cp := res.Codepoint
		switch {
		case inQuote:
			if cp == quote {
				inQuote = false
			}
		case cp == '"' || cp == '\'':
			inQuote = true
			quote = cp
		case cp == '[':
			depth++
		case cp == ']':
			depth--
		case cp == '>' && depth <= 0:
			p.node.reset()
			p.node.Kind = KindDocumentType
			p.node.Name = name
			p.node.Row, p.node.Column, p.node.Depth = ltRow, ltCol, 0
			return true
		}
	}
}
