package xmlpull

import "strings"

// rawAttribute is an attribute as scanned off the wire, before namespace
// resolution.
type rawAttribute struct {
	qualifiedName   string
	prefix          string
	localName       string
	value           string
	row, col        int // position of the attribute name
}

// readName reads one Name production: a NameStartChar followed by zero
// or more NameChar. The caller must not have consumed the first
// character yet.
func (p *Reader) readName() (name string, row, col int, ok bool) {
	row, col = p.position()
	res := p.read()
	if res.Status != StatusOK || !IsNameStartChar(res.Codepoint) {
		if res.Status == StatusOK {
			p.unread(res)
		}
		return "", row, col, false
	}
	var b strings.Builder
	b.WriteRune(res.Codepoint)
	for {
		res := p.read()
		if res.Status != StatusOK || !IsNameChar(res.Codepoint) {
			if res.Status == StatusOK {
				p.unread(res)
			}
			break
		}
		b.WriteRune(res.Codepoint)
	}
	return b.String(), row, col, true
}

// splitQName splits a Name at its (at most one) colon into prefix and
// local name, requiring a name-start character on both sides of the
// colon when one is present.
func splitQName(name string) (prefix, local string, ok bool) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return "", name, true
	}
	prefix, local = name[:idx], name[idx+1:]
	if strings.IndexByte(local, ':') >= 0 {
		return "", "", false // at most one colon
	}
	if prefix == "" || local == "" {
		return "", "", false
	}
	if !IsNameStartChar([]rune(prefix)[0]) || !IsNameStartChar([]rune(local)[0]) {
		return "", "", false
	}
	return prefix, local, true
}

// skipWhiteSpace consumes zero or more XML whitespace characters and
// reports whether at least one codepoint could be read afterward without
// a read error (the caller still must inspect that codepoint itself).
func (p *Reader) skipWhiteSpace() (peeked ReadResult) {
	for {
		res := p.read()
		if res.Status != StatusOK || !IsWhiteSpace(res.Codepoint) {
			return res
		}
	}
}

// parseStartTag parses an element's name, attributes, and closing
// delimiter, having already consumed the '<' at (tagRow, tagCol) and
// confirmed the next codepoint is a NameStartChar.
func (p *Reader) parseStartTag(tagRow, tagCol int) bool {
	name, nameRow, nameCol, ok := p.readName()
	if !ok {
		return p.fail(ErrInvalidTagName, tagRow, tagCol, "expected an element name after '<'")
	}
	prefix, local, ok := splitQName(name)
	if !ok {
		return p.fail(ErrInvalidTagName, nameRow, nameCol, "malformed qualified name %q", name)
	}
	if prefix == "xmlns" {
		return p.fail(ErrPrefixWithoutAssignedNamespace, nameRow, nameCol, "elements cannot use the 'xmlns' prefix")
	}

	depth := len(p.elements)
	if p.cfg.maxElementDepth > 0 && depth >= p.cfg.maxElementDepth {
		return p.fail(ErrInvalidSyntax, tagRow, tagCol, "element nesting exceeds the configured maximum depth of %d", p.cfg.maxElementDepth)
	}
	if depth == 0 {
		if p.seenRoot {
			return p.fail(ErrInvalidSyntax, tagRow, tagCol, "only one root element is allowed")
		}
	}

	p.ns.push()

	attrs, ok := p.parseAttributes()
	if !ok {
		return false
	}
	if ok := p.applyNamespaceDeclarations(attrs); !ok {
		return false
	}

	nsURI, found := p.ns.resolveElementName(prefix)
	if !found {
		return p.fail(ErrPrefixWithoutAssignedNamespace, nameRow, nameCol, "prefix %q has no assigned namespace", prefix)
	}

	resolved, ok := p.resolveAttributes(attrs)
	if !ok {
		return false
	}

	empty, ok := p.finishTag()
	if !ok {
		return false
	}

	if empty {
		p.ns.pop()
	} else {
		p.elements = append(p.elements, elementFrame{
			qualifiedName: name, prefix: prefix, localName: local, row: tagRow, col: tagCol,
		})
	}
	if depth == 0 {
		p.seenRoot = true
	}

	resolvedName := p.internName(prefix, local, name, nsURI)

	p.node.reset()
	if empty {
		p.node.Kind = KindEmptyElement
	} else {
		p.node.Kind = KindStartElement
	}
	p.node.Name = resolvedName.QualifiedName
	p.node.Prefix = resolvedName.Prefix
	p.node.LocalName = resolvedName.LocalName
	p.node.NamespaceURI = resolvedName.NamespaceURI
	p.node.Attributes = resolved
	p.node.Row, p.node.Column, p.node.Depth = tagRow, tagCol, depth
	return true
}

// parseAttributes reads zero or more attributes up to (but not
// consuming) the tag's closing '>' or the '/' of "/>".
func (p *Reader) parseAttributes() ([]rawAttribute, bool) {
	var attrs []rawAttribute
	for {
		res := p.skipWhiteSpace()
		if res.Status != StatusOK {
			row, col := p.position()
			p.fail(ErrUnclosedToken, row, col, "unexpected end of input inside a start tag")
			return nil, false
		}
		if res.Codepoint == '>' || res.Codepoint == '/' {
			p.unread(res)
			return attrs, true
		}
		if !IsNameStartChar(res.Codepoint) {
			row, col := p.position()
			return nil, p.fail(ErrInvalidSyntax, row, col, "expected an attribute name, '/', or '>'")
		}
		p.unread(res)
		attr, ok := p.parseAttribute()
		if !ok {
			return nil, false
		}
		attrs = append(attrs, attr)
	}
}

// parseAttribute reads one Name "=" AttValue production.
func (p *Reader) parseAttribute() (rawAttribute, bool) {
	name, row, col, ok := p.readName()
	if !ok {
		r, c := p.position()
		p.fail(ErrInvalidSyntax, r, c, "expected an attribute name")
		return rawAttribute{}, false
	}
	prefix, local, ok := splitQName(name)
	if !ok {
		p.fail(ErrInvalidSyntax, row, col, "malformed qualified attribute name %q", name)
		return rawAttribute{}, false
	}

	res := p.skipWhiteSpace()
	if res.Status != StatusOK || res.Codepoint != '=' {
		r, c := p.position()
		p.fail(ErrInvalidSyntax, r, c, "expected '=' after attribute name %q", name)
		return rawAttribute{}, false
	}

	res = p.skipWhiteSpace()
	if res.Status != StatusOK || (res.Codepoint != '"' && res.Codepoint != '\'') {
		r, c := p.position()
		p.fail(ErrInvalidSyntax, r, c, "expected a quoted attribute value for %q", name)
		return rawAttribute{}, false
	}
	quote := res.Codepoint

	value, ok := p.parseAttributeValue(quote)
	if !ok {
		return rawAttribute{}, false
	}

	return rawAttribute{
		qualifiedName: name, prefix: prefix, localName: local, value: value, row: row, col: col,
	}, true
}

// parseAttributeValue reads attribute value text up to the matching
// quote, resolving entity references and applying XML 1.0 §3.3.3
// whitespace normalization to literal (non-entity) tab/newline
// characters.
func (p *Reader) parseAttributeValue(quote Codepoint) (string, bool) {
	var b strings.Builder
	for {
		res := p.read()
		if res.Status != StatusOK {
			r, c := p.position()
			p.fail(ErrUnclosedToken, r, c, "unterminated attribute value")
			return "", false
		}
		cp := res.Codepoint
		switch {
		case cp == quote:
			return b.String(), true
		case cp == '<':
			r, c := p.position()
			p.fail(ErrInvalidSyntax, r, c, "'<' is not allowed in an attribute value")
			return "", false
		case cp == '&':
			resolved, ok := p.resolveEntity()
			if !ok {
				return "", false
			}
			for _, rc := range resolved {
				b.WriteRune(rc) // entity-resolved characters are not whitespace-normalized
			}
		default:
			b.WriteRune(normalizeAttributeValueChar(cp))
		}
	}
}

// finishTag reads the remainder of a start tag after its attributes:
// either ">" (a normal start element) or "/>" (an empty element).
func (p *Reader) finishTag() (empty bool, ok bool) {
	res := p.read()
	if res.Status != StatusOK {
		r, c := p.position()
		p.fail(ErrUnclosedToken, r, c, "unexpected end of input inside a start tag")
		return false, false
	}
	switch res.Codepoint {
	case '>':
		return false, true
	case '/':
		res2 := p.read()
		if res2.Status != StatusOK || res2.Codepoint != '>' {
			r, c := p.position()
			p.fail(ErrInvalidSyntax, r, c, "expected '>' after '/'")
			return false, false
		}
		return true, true
	default:
		r, c := p.position()
		p.fail(ErrInvalidSyntax, r, c, "expected '>' or '/>' to close the start tag")
		return false, false
	}
}

// applyNamespaceDeclarations scans attrs for xmlns / xmlns:prefix
// declarations and binds them in the current (innermost) namespace
// frame, enforcing the predeclared-binding rules for "xml" and "xmlns".
// Namespace declarations are applied before any prefix in this element
// or its attributes is resolved, regardless of their position among the
// attribute list.
func (p *Reader) applyNamespaceDeclarations(attrs []rawAttribute) bool {
	for _, a := range attrs {
		switch {
		case a.prefix == "" && a.localName == "xmlns":
			if !p.checkReservedBinding("", a.value, a.row, a.col) {
				return false
			}
			p.ns.bind("", a.value)
		case a.prefix == "xmlns":
			declared := a.localName
			if declared == "xmlns" {
				return p.fail(ErrPrefixWithoutAssignedNamespace, a.row, a.col, "the 'xmlns' prefix cannot be declared")
			}
			if a.value == "" {
				return p.fail(ErrInvalidSyntax, a.row, a.col, "cannot undeclare prefix %q", declared)
			}
			if !p.checkReservedBinding(declared, a.value, a.row, a.col) {
				return false
			}
			p.ns.bind(declared, a.value)
		}
	}
	return true
}

// checkReservedBinding enforces the constraints on the two predeclared
// namespace names: "xml" may only be bound to its canonical
// URI (and that URI may only be bound to "xml"); the canonical xmlns URI
// may not be bound to any prefix other than "xmlns".
func (p *Reader) checkReservedBinding(declaredPrefix, uri string, row, col int) bool {
	if declaredPrefix == "xml" && uri != NamespaceXML {
		return p.fail(ErrPrefixWithoutAssignedNamespace, row, col, "the 'xml' prefix must be bound to %q", NamespaceXML)
	}
	if uri == NamespaceXML && declaredPrefix != "xml" {
		return p.fail(ErrPrefixWithoutAssignedNamespace, row, col, "%q may only be bound to the 'xml' prefix", NamespaceXML)
	}
	if uri == NamespaceXMLNS && declaredPrefix != "xmlns" {
		return p.fail(ErrPrefixWithoutAssignedNamespace, row, col, "%q may only be bound to the 'xmlns' prefix", NamespaceXMLNS)
	}
	return true
}

// resolveAttributes resolves each raw attribute's namespace URI (using
// the namespace stack updated by applyNamespaceDeclarations), and
// enforces attribute-name uniqueness after resolution.
func (p *Reader) resolveAttributes(attrs []rawAttribute) ([]Attribute, bool) {
	if len(attrs) == 0 {
		return nil, true
	}
	out := make([]Attribute, 0, len(attrs))
	type seenKey struct{ ns, local string }
	seen := make(map[seenKey]bool, len(attrs))
	for _, a := range attrs {
		nsURI, found := p.ns.resolveAttributeName(a.prefix)
		if !found {
			return nil, p.fail(ErrPrefixWithoutAssignedNamespace, a.row, a.col, "prefix %q has no assigned namespace", a.prefix)
		}
		key := seenKey{nsURI, a.localName}
		if seen[key] {
			return nil, p.fail(ErrInvalidSyntax, a.row, a.col, "duplicate attribute %q", a.qualifiedName)
		}
		seen[key] = true

		resolved := p.internName(a.prefix, a.localName, a.qualifiedName, nsURI)
		out = append(out, Attribute{
			Prefix: resolved.Prefix, LocalName: resolved.LocalName, QualifiedName: resolved.QualifiedName,
			NamespaceURI: resolved.NamespaceURI, Value: a.value,
		})
	}
	return out, true
}
