package xmlpull

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gogo-agent/xmlpull/internal/nameintern"
)

// elementFrame is one open element. Its namespace-scope frame is kept in
// the parallel namespaceStack (Reader.ns), pushed and popped together
// with it.
type elementFrame struct {
	qualifiedName string
	prefix        string
	localName     string
	row, col      int // position of this element's start tag, for UnclosedTag diagnostics
}

// Reader is a forward-only, pull-style XML 1.0 parser. The zero value is
// not usable; construct one with NewReader, NewReaderFromBytes,
// NewReaderFromPath, NewReaderFromByteIterator, or
// NewReaderFromCharacterReader.
type Reader struct {
	cr    CharacterReader
	coord *coordinateTracker
	cfg   config

	pushback []ReadResult // unread results, most recently unread last

	node Node
	err  *ParseError
	done bool

	elements []elementFrame
	ns       *namespaceStack
	names    *nameintern.Cache

	seenRoot     bool
	nodesEmitted int

	declaredEncoding Encoding
	finalEncoding    Encoding

	closer        io.Closer
	streamForRecharset *bufio.Reader // non-nil only for the io.Reader and path constructors, enables mid-stream charset swap
}

func newReader(cr CharacterReader, enc Encoding, closer io.Closer, streamForRecharset *bufio.Reader, cfg config) *Reader {
	p := &Reader{
		cr:                 newLineEndReader(cr),
		coord:              newCoordinateTracker(),
		cfg:                cfg,
		ns:                 newNamespaceStack(),
		names:              nameintern.New(cfg.nameCacheSize),
		declaredEncoding:   enc,
		finalEncoding:      enc,
		closer:             closer,
		streamForRecharset: streamForRecharset,
	}
	return p
}

// NewReader returns a Reader over a borrowed io.Reader. The caller
// retains ownership of r and must keep it alive for the Reader's
// lifetime.
func NewReader(r io.Reader, opts ...Option) *Reader {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.characterReader != nil {
		return newReader(cfg.characterReader, UTF8, nil, nil, cfg)
	}
	br := bufio.NewReader(r)
	cr, enc := sniffAndBuildReader(newStreamByteSource(br))
	return newReader(cr, enc, nil, br, cfg)
}

// NewReaderFromBytes returns a Reader over an in-memory byte slice, the
// common case of a fully-buffered document: it can never report
// ErrStreamError.
func NewReaderFromBytes(data []byte, opts ...Option) *Reader {
	return NewReaderFromByteIterator(NewSliceIterator(data), opts...)
}

// NewReaderFromByteIterator returns a Reader over a caller-supplied
// forward iterator of bytes. A source built this way never reports
// ErrStreamError, only end of input.
func NewReaderFromByteIterator(it ByteIterator, opts ...Option) *Reader {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.characterReader != nil {
		return newReader(cfg.characterReader, UTF8, nil, nil, cfg)
	}
	src := newIterByteSource(it)
	cr, enc := sniffAndBuildReader(src)
	return newReader(cr, enc, nil, nil, cfg)
}

// NewReaderFromPath opens path (interpreted as UTF-8) and returns a
// Reader that owns the resulting file handle: Clear closes it.
func NewReaderFromPath(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xmlpull: %w", err)
	}
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.characterReader != nil {
		return newReader(cfg.characterReader, UTF8, f, nil, cfg), nil
	}
	br := bufio.NewReader(f)
	cr, enc := sniffAndBuildReader(newStreamByteSource(br))
	return newReader(cr, enc, f, br, cfg), nil
}

// NewReaderFromCharacterReader returns a Reader that reads directly from
// a caller-supplied CharacterReader, bypassing byte-order-mark detection
// entirely: the caller declares the encoding implicitly by choosing what
// CharacterReader to hand over.
func NewReaderFromCharacterReader(cr CharacterReader, opts ...Option) *Reader {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return newReader(cr, UTF8, nil, nil, cfg)
}

// sniffAndBuildReader runs byte-order-mark detection over
// src and returns a CharacterReader positioned just after any consumed
// BOM, along with the encoding it selected.
func sniffAndBuildReader(src byteSource) (CharacterReader, Encoding) {
	peek := peekUpTo(src, 4)
	enc, consumed := DetectBOM(peek)
	remaining := newPushbackByteSource(peek[consumed:], src)
	return newCodepointReader(remaining, enc), enc
}

// Reset re-initializes the Reader with a new source, clearing all
// errors, stacks, and the current node.
func (p *Reader) Reset(r io.Reader, opts ...Option) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	fresh := NewReader(r, opts...)
	*p = *fresh
}

// Clear releases the source and internal buffers. A Reader must not be
// used after Clear except via Reset.
func (p *Reader) Clear() {
	if p.closer != nil {
		p.closer.Close()
		p.closer = nil
	}
	p.cr = nil
	p.elements = nil
	p.ns = nil
	p.names = nil
	p.node.reset()
}

// read returns the next codepoint from the source, honoring pushback
// (last unread, first read again) and advancing the coordinate tracker
// exactly once per physical read.
func (p *Reader) read() ReadResult {
	if n := len(p.pushback); n > 0 {
		res := p.pushback[n-1]
		p.pushback = p.pushback[:n-1]
		return res
	}
	res := p.cr.ReadCharacter()
	if res.Status == StatusOK {
		p.coord.advance(res.Codepoint)
	}
	return res
}

func (p *Reader) unread(res ReadResult) {
	p.pushback = append(p.pushback, res)
}

func (p *Reader) position() (row, col int) {
	return p.coord.position()
}

// internName returns a namespace-resolved name triple, reusing a cached
// one when this (prefix, localName, namespaceURI) combination has been
// seen before in this document (internal/nameintern).
func (p *Reader) internName(prefix, localName, qualifiedName, namespaceURI string) nameintern.Resolved {
	return p.names.Intern(prefix, localName, namespaceURI, func() nameintern.Resolved {
		return nameintern.Resolved{
			Prefix: prefix, LocalName: localName, QualifiedName: qualifiedName, NamespaceURI: namespaceURI,
		}
	})
}

func (p *Reader) fail(code ErrorCode, row, col int, format string, args ...any) bool {
	p.err = newParseError(code, row, col, format, args...)
	p.node.reset()
	p.node.Kind = KindNone
	return false
}

// ReadNode advances to the next node and reports whether one was
// produced. It returns false both at a clean end of document and on
// error; distinguish the two via ErrorCode.
func (p *Reader) ReadNode() bool {
	if p.err != nil {
		p.node.reset()
		return false
	}
	if p.done {
		return false
	}
	ok := p.step()
	if ok {
		p.nodesEmitted++
	} else {
		p.done = true
	}
	return ok
}

// step runs one iteration of the state machine, producing at most one
// Node.
func (p *Reader) step() bool {
	for {
		startRow, startCol := p.position()
		res := p.read()
		switch res.Status {
		case StatusEndOfInput:
			return p.handleEOF()
		case StatusSourceError:
			return p.fail(ErrStreamError, startRow, startCol, "%v", res.Err)
		case StatusInvalidCharacter:
			return p.fail(ErrInvalidByteSequence, startRow, startCol, "invalid or disallowed byte sequence")
		}

		cp := res.Codepoint
		depth := len(p.elements)

		switch {
		case cp == '<':
			return p.parseMarkup(startRow, startCol)
		case depth == 0 && cp == '&':
			return p.fail(ErrInvalidSyntax, startRow, startCol, "character data is not allowed outside the root element")
		case depth == 0 && !IsWhiteSpace(cp):
			return p.fail(ErrInvalidSyntax, startRow, startCol, "character data is not allowed outside the root element")
		default:
			p.unread(res)
			return p.parseCharData(startRow, startCol, depth)
		}
	}
}

func (p *Reader) handleEOF() bool {
	if len(p.elements) > 0 {
		top := p.elements[len(p.elements)-1]
		return p.fail(ErrUnclosedTag, top.row, top.col, "element <%s> was never closed", top.qualifiedName)
	}
	if !p.seenRoot {
		row, col := p.position()
		return p.fail(ErrNoElement, row, col, "no root element found")
	}
	return false
}

// NodeType, Name, and the rest of the accessors below expose the
// currently-parsed Node.
func (p *Reader) NodeType() NodeKind       { return p.node.Kind }
func (p *Reader) Name() string             { return p.node.Name }
func (p *Reader) LocalName() string        { return p.node.LocalName }
func (p *Reader) Prefix() string           { return p.node.Prefix }
func (p *Reader) NamespaceURI() string     { return p.node.NamespaceURI }
func (p *Reader) Value() string            { return p.node.Value }
func (p *Reader) HasAttributes() bool      { return p.node.HasAttributes() }
func (p *Reader) AttributesCount() int     { return len(p.node.Attributes) }
func (p *Reader) Attribute(i int) Attribute { return p.node.Attributes[i] }
func (p *Reader) Row() int                 { return p.node.Row }
func (p *Reader) Column() int              { return p.node.Column }
func (p *Reader) Depth() int               { return p.node.Depth }

// Bytes returns the current node's Value re-encoded in the output
// encoding selected by WithOutputEncoding (UTF-8 by default).
func (p *Reader) Bytes() []byte { return p.node.Bytes(p.cfg.outputEncoding) }

// AttributeBytes returns attribute i's value re-encoded in the output
// encoding selected by WithOutputEncoding (UTF-8 by default).
func (p *Reader) AttributeBytes(i int) []byte {
	return p.node.Attributes[i].Bytes(p.cfg.outputEncoding)
}

func (p *Reader) ErrorCode() ErrorCode {
	if p.err == nil {
		return ErrNone
	}
	return p.err.Code
}

func (p *Reader) ErrorMessage() string {
	if p.err == nil {
		return ""
	}
	return p.err.Message
}

// Node returns the currently-exposed node by value.
func (p *Reader) Node() Node { return p.node }

// Encoding reports the encoding the final character reader is using
// (after any declared-encoding charset swap), as distinct from the
// byte-order-mark-detected DeclaredEncoding.
func (p *Reader) Encoding() Encoding { return p.finalEncoding }

// DeclaredEncoding reports the encoding selected by byte-order-mark
// detection (or UTF8 if a user-supplied CharacterReader bypassed BOM
// detection entirely).
func (p *Reader) DeclaredEncoding() Encoding { return p.declaredEncoding }
