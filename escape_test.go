package xmlpull

import "testing"

func TestPredefinedEntity(t *testing.T) {
	tests := []struct {
		name string
		want Codepoint
		ok   bool
	}{
		{"lt", '<', true},
		{"gt", '>', true},
		{"amp", '&', true},
		{"apos", '\'', true},
		{"quot", '"', true},
		{"unknown", 0, false},
		{"", 0, false},
		{"LT", 0, false}, // case sensitive, unlike the PI-target matching in markup.go
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := predefinedEntity(tc.name)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("predefinedEntity(%q) = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestNumericCharRef(t *testing.T) {
	tests := []struct {
		digits string
		hex    bool
		want   Codepoint
		ok     bool
	}{
		{"65", false, 'A', true},
		{"41", true, 'A', true},
		{"9", false, '\t', true},
		{"g", true, 0, false}, // not a valid hex digit
		{"", false, 0, false},
		{"", true, 0, false},
		{"110000", true, 0, false}, // above 0x10FFFF
		{"9999999999", false, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.digits, func(t *testing.T) {
			got, ok := numericCharRef(tc.digits, tc.hex)
			if ok != tc.ok {
				t.Fatalf("numericCharRef(%q, %v) ok = %v, want %v", tc.digits, tc.hex, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("numericCharRef(%q, %v) = %q, want %q", tc.digits, tc.hex, got, tc.want)
			}
		})
	}
}

func TestNumericCharRefOverflowGuard(t *testing.T) {
	// A reference built one hex digit at a time must never be allowed to
	// overflow past the Unicode range while accumulating.
	if _, ok := numericCharRef("FFFFFFFF", true); ok {
		t.Error("numericCharRef should reject values above 0x10FFFF")
	}
}

func TestNormalizeAttributeValueChar(t *testing.T) {
	tests := []struct {
		in, want Codepoint
	}{
		{'\t', ' '},
		{'\n', ' '},
		{'a', 'a'},
		{' ', ' '},
		{'\r', '\r'}, // line-end normalization happens in a layer below this one
	}
	for _, tc := range tests {
		if got := normalizeAttributeValueChar(tc.in); got != tc.want {
			t.Errorf("normalizeAttributeValueChar(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEntityNameLooksLikeRef(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"amp", true},
		{"my-entity", true},
		{"", false},
		{"has space", false},
		{"123", true}, // entityNameLooksLikeRef only checks NameChar, not NameStartChar, for the first position
	}
	for _, tc := range tests {
		if got := entityNameLooksLikeRef(tc.in); got != tc.want {
			t.Errorf("entityNameLooksLikeRef(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
