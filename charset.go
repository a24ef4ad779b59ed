package xmlpull

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// CharsetReader resolves a declared charset name (from an XmlDeclaration
// node's encoding pseudo-attribute) to a transform that decodes input in
// that charset to UTF-8, so it can be fed to the core UTF-8 reader. The
// five encodings the core reader understands directly (UTF-8, UTF-16
// BE/LE, UTF-32 BE/LE) never need this hook; it exists only for the rest
// of the IANA charset registry.
//
// The default implementation resolves charset via
// golang.org/x/text/encoding/ianaindex, the same construction
// encoding/xml's CharsetReader hook typically uses.
type CharsetReader func(charset string, input io.Reader) (io.Reader, error)

// defaultCharsetReader resolves charset via the IANA character set
// registry.
func defaultCharsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("xmlpull: unsupported charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("xmlpull: unsupported charset %q", charset)
	}
	return transformReader(enc, input), nil
}

func transformReader(enc encoding.Encoding, input io.Reader) io.Reader {
	return enc.NewDecoder().Reader(input)
}

// isUnicodeCharsetAlias reports whether charset names one of the five
// encodings the core reader already understands natively, in which case
// no transcoding hook is needed.
func isUnicodeCharsetAlias(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "utf-16", "utf16", "utf-16be", "utf-16le", "utf-32", "utf32", "utf-32be", "utf-32le":
		return true
	default:
		return false
	}
}

// maybeSwapCharset re-points the Reader at a transcoded view of the
// remaining input when an XmlDeclaration's encoding pseudo-attribute
// names a non-Unicode charset, keeping the originally declared encoding
// and this final one distinct. It is a no-op for byte-iterator and
// user-supplied CharacterReader sources, which have no underlying
// io.Reader to re-wrap, and for charsets the core reader already
// decodes directly.
func (p *Reader) maybeSwapCharset(charset string) {
	if p.streamForRecharset == nil || isUnicodeCharsetAlias(charset) {
		return
	}
	transcoded, err := p.cfg.charsetReader(charset, p.streamForRecharset)
	if err != nil {
		row, col := p.position()
		p.fail(ErrInvalidSyntax, row, col, "%v", err)
		return
	}
	newBR := bufio.NewReader(transcoded)
	src := newStreamByteSource(newBR)
	p.cr = newLineEndReader(newCodepointReader(src, UTF8))
	p.finalEncoding = UTF8
	p.streamForRecharset = newBR
}
