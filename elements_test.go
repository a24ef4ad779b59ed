package xmlpull

import (
	"strings"
	"testing"
)

func TestSplitQName(t *testing.T) {
	tests := []struct {
		name       string
		wantPrefix string
		wantLocal  string
		wantOK     bool
	}{
		{"local", "", "local", true},
		{"p:local", "p", "local", true},
		{":local", "", "", false},
		{"p:", "", "", false},
		{"p:q:local", "", "", false},
	}
	for _, tc := range tests {
		prefix, local, ok := splitQName(tc.name)
		if ok != tc.wantOK {
			t.Errorf("splitQName(%q) ok = %v, want %v", tc.name, ok, tc.wantOK)
			continue
		}
		if ok && (prefix != tc.wantPrefix || local != tc.wantLocal) {
			t.Errorf("splitQName(%q) = (%q, %q), want (%q, %q)", tc.name, prefix, local, tc.wantPrefix, tc.wantLocal)
		}
	}
}

func TestReservedXmlnsPrefixOnElementRejected(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<xmlns:root/>`))
	for r.ReadNode() {
	}
	if r.ErrorCode() != ErrPrefixWithoutAssignedNamespace {
		t.Fatalf("ErrorCode() = %v, want ErrPrefixWithoutAssignedNamespace", r.ErrorCode())
	}
}

func TestDeclaringXmlnsPrefixItselfRejected(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<root xmlns:xmlns="urn:x"/>`))
	for r.ReadNode() {
	}
	if r.ErrorCode() != ErrPrefixWithoutAssignedNamespace {
		t.Fatalf("ErrorCode() = %v, want ErrPrefixWithoutAssignedNamespace", r.ErrorCode())
	}
}

func TestRebindingXmlPrefixToWrongURIRejected(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<root xmlns:xml="urn:wrong"/>`))
	for r.ReadNode() {
	}
	if r.ErrorCode() != ErrPrefixWithoutAssignedNamespace {
		t.Fatalf("ErrorCode() = %v, want ErrPrefixWithoutAssignedNamespace", r.ErrorCode())
	}
}

func TestBindingCanonicalXmlURIToOtherPrefixRejected(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<root xmlns:x="http://www.w3.org/XML/1998/namespace"/>`))
	for r.ReadNode() {
	}
	if r.ErrorCode() != ErrPrefixWithoutAssignedNamespace {
		t.Fatalf("ErrorCode() = %v, want ErrPrefixWithoutAssignedNamespace", r.ErrorCode())
	}
}

func TestUndeclaringDefaultNamespaceWithEmptyValue(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<root xmlns="urn:outer"><child xmlns=""/></root>`))
	var uris []string
	for r.ReadNode() {
		if r.NodeType() == KindStartElement || r.NodeType() == KindEmptyElement {
			uris = append(uris, r.NamespaceURI())
		}
	}
	if r.ErrorCode() != ErrNone {
		t.Fatalf("ErrorCode() = %v, message=%q", r.ErrorCode(), r.ErrorMessage())
	}
	if len(uris) != 2 || uris[0] != "urn:outer" || uris[1] != "" {
		t.Errorf("uris = %v, want [urn:outer \"\"]", uris)
	}
}

func TestUndeclaringNonDefaultPrefixRejected(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<root xmlns:p=""/>`))
	for r.ReadNode() {
	}
	if r.ErrorCode() != ErrInvalidSyntax {
		t.Fatalf("ErrorCode() = %v, want ErrInvalidSyntax (prefixes cannot be undeclared)", r.ErrorCode())
	}
}

func TestUnprefixedAttributeNeverTakesDefaultNamespace(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<root xmlns="urn:default" attr="v"/>`))
	for r.ReadNode() {
		if r.NodeType() == KindEmptyElement {
			if r.NamespaceURI() != "urn:default" {
				t.Errorf("element NamespaceURI = %q, want %q", r.NamespaceURI(), "urn:default")
			}
			if r.Attribute(0).NamespaceURI != "" {
				t.Errorf("unprefixed attribute NamespaceURI = %q, want empty", r.Attribute(0).NamespaceURI)
			}
		}
	}
	if r.ErrorCode() != ErrNone {
		t.Fatalf("ErrorCode() = %v, message=%q", r.ErrorCode(), r.ErrorMessage())
	}
}

func TestAttributeValueNormalizesLiteralTabAndNewline(t *testing.T) {
	r := NewReader(strings.NewReader("<root attr=\"a\tb\nc\"/>"))
	for r.ReadNode() {
		if r.NodeType() == KindEmptyElement {
			got := r.Attribute(0).Value
			want := "a b c"
			if got != want {
				t.Errorf("attribute value = %q, want %q", got, want)
			}
		}
	}
	if r.ErrorCode() != ErrNone {
		t.Fatalf("ErrorCode() = %v, message=%q", r.ErrorCode(), r.ErrorMessage())
	}
}

func TestAttributeValueDisallowsLiteralLessThan(t *testing.T) {
	r := NewReaderFromBytes([]byte(`<root attr="a<b"/>`))
	for r.ReadNode() {
	}
	if r.ErrorCode() != ErrInvalidSyntax {
		t.Fatalf("ErrorCode() = %v, want ErrInvalidSyntax", r.ErrorCode())
	}
}
