package xmlpull

import (
	"testing"

	xunicode "golang.org/x/text/encoding/unicode"
)

func TestDetectBOM(t *testing.T) {
	tests := []struct {
		name         string
		peek         []byte
		wantEnc      Encoding
		wantConsumed int
	}{
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'x'}, UTF8, 3},
		{"utf16 be bom", []byte{0xFE, 0xFF, 'x', 'x'}, UTF16BE, 2},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'x', 'x'}, UTF16LE, 2},
		{"utf32 be bom", []byte{0x00, 0x00, 0xFE, 0xFF}, UTF32BE, 4},
		{"utf32 le bom", []byte{0xFF, 0xFE, 0x00, 0x00}, UTF32LE, 4},
		{"no bom", []byte{'<', '?', 'x', 'm'}, UTF8, 0},
		{"empty", nil, UTF8, 0},
		{"short utf16le-looking prefix", []byte{0xFF, 0xFE}, UTF16LE, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc, consumed := DetectBOM(tc.peek)
			if enc != tc.wantEnc || consumed != tc.wantConsumed {
				t.Errorf("DetectBOM(%v) = (%v, %d), want (%v, %d)", tc.peek, enc, consumed, tc.wantEnc, tc.wantConsumed)
			}
		})
	}
}

// TestDetectBOMAgainstIndependentOracle cross-checks the BOM byte
// sequences this package hard-codes against golang.org/x/text's own
// unicode BOM-aware encoder/decoder pair, so the two never silently
// drift apart. Each case encodes "<a/>" through x/text's own encoder for
// that form (so UTF-16 payloads are genuine 2-byte-per-unit sequences,
// not raw ASCII bytes wearing a BOM), then confirms both that x/text's
// BOM-sniffing decoder and this package's DetectBOM agree on what the
// leading bytes mean.
func TestDetectBOMAgainstIndependentOracle(t *testing.T) {
	cases := []struct {
		enc   Encoding
		xtext xunicode.Endianness
	}{
		{UTF16BE, xunicode.BigEndian},
		{UTF16LE, xunicode.LittleEndian},
	}
	for _, tc := range cases {
		t.Run(tc.enc.String(), func(t *testing.T) {
			enc := xunicode.UTF16(tc.xtext, xunicode.UseBOM)
			payload, err := enc.NewEncoder().Bytes([]byte("<a/>"))
			if err != nil {
				t.Fatalf("oracle encode failed: %v", err)
			}

			dec := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
			out, err := dec.Bytes(payload)
			if err != nil {
				t.Fatalf("oracle decode failed: %v", err)
			}
			if string(out) != "<a/>" {
				t.Fatalf("oracle decode = %q, want %q", out, "<a/>")
			}

			gotEnc, consumed := DetectBOM(peekUpTo(sourceOf(payload), 4))
			if gotEnc != tc.enc {
				t.Errorf("DetectBOM disagrees with oracle: got %v, want %v", gotEnc, tc.enc)
			}
			if consumed != 2 {
				t.Errorf("DetectBOM consumed %d bytes, want 2", consumed)
			}
		})
	}
}

func TestBomSignatureRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{UTF8, UTF16BE, UTF16LE, UTF32BE, UTF32LE} {
		sig := bomSignature(enc)
		if sig == nil {
			t.Fatalf("bomSignature(%v) = nil", enc)
		}
		gotEnc, consumed := DetectBOM(sig)
		if gotEnc != enc || consumed != len(sig) {
			t.Errorf("DetectBOM(bomSignature(%v)) = (%v, %d), want (%v, %d)", enc, gotEnc, consumed, enc, len(sig))
		}
	}
}

func TestPeekUpTo(t *testing.T) {
	src := newIterByteSource(NewSliceIterator([]byte("ab")))
	got := peekUpTo(src, 4)
	if string(got) != "ab" {
		t.Errorf("peekUpTo short source = %q, want %q", got, "ab")
	}

	src2 := newIterByteSource(NewSliceIterator([]byte("abcdef")))
	got2 := peekUpTo(src2, 3)
	if string(got2) != "abc" {
		t.Errorf("peekUpTo = %q, want %q", got2, "abc")
	}
}
