package xmlpull

import (
	"bufio"
	"io"
)

// byteSource is the unifying abstraction behind both input-source
// flavors: a borrowed byte stream and a caller-supplied forward
// iterator. nextByte returns io.EOF for clean end of source; any other
// error indicates the underlying source failed, which can only happen
// for the stream flavor — the iterator flavor only ever returns io.EOF.
type byteSource interface {
	nextByte() (byte, error)
}

// streamByteSource reads from a borrowed io.Reader.
type streamByteSource struct {
	r *bufio.Reader
}

func newStreamByteSource(r io.Reader) *streamByteSource {
	if br, ok := r.(*bufio.Reader); ok {
		return &streamByteSource{r: br}
	}
	return &streamByteSource{r: bufio.NewReader(r)}
}

func (s *streamByteSource) nextByte() (byte, error) {
	return s.r.ReadByte()
}

// iterByteSource reads from a caller-supplied ByteIterator. It never
// produces an error other than io.EOF, since a ByteIterator has no
// failure mode beyond exhaustion.
type iterByteSource struct {
	it ByteIterator
}

func newIterByteSource(it ByteIterator) *iterByteSource {
	return &iterByteSource{it: it}
}

func (s *iterByteSource) nextByte() (byte, error) {
	b, ok := s.it.Next()
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

// pushbackByteSource replays a fixed prefix of already-consumed bytes
// before falling through to an underlying source. Used after BOM
// detection peeks bytes off a source of either flavor, since byteSource
// has no native "unpeek" operation.
type pushbackByteSource struct {
	prefix []byte
	pos    int
	next   byteSource
}

func newPushbackByteSource(prefix []byte, next byteSource) *pushbackByteSource {
	return &pushbackByteSource{prefix: prefix, next: next}
}

func (s *pushbackByteSource) nextByte() (byte, error) {
	if s.pos < len(s.prefix) {
		b := s.prefix[s.pos]
		s.pos++
		return b, nil
	}
	return s.next.nextByte()
}
