package ion

import (
	"bufio"
	"io"
)

// ByteSource is the capability set a Cursor needs from its input, matching
// the "peek buffer + consume N" discipline the primitive decoders and the
// cursor's zero-copy body reads are built on.
type ByteSource interface {
	// ReadExact reads exactly len(buf) bytes into buf.
	ReadExact(buf []byte) error

	// Peek returns up to n bytes without consuming them. The returned
	// slice may be shorter than n if fewer bytes are currently buffered;
	// callers fall back to ReadExact into a scratch buffer when that
	// happens.
	Peek(n int) ([]byte, error)

	// Consume discards n bytes previously returned by Peek.
	Consume(n int) error
}

// Skipper is an optional ByteSource capability. Sources backed by a
// contiguous in-memory buffer can skip by bumping a position counter
// instead of copying bytes through a scratch buffer.
type Skipper interface {
	Skip(n uint64) error
}

// Seeker is an optional ByteSource capability required by Cursor.Restore:
// move the read position to an absolute byte offset already seen.
type Seeker interface {
	SeekAbs(offset uint64) error
}

// readerSource adapts a *bufio.Reader to ByteSource. It supports Skipper
// (via Discard) but not Seeker: a generic io.Reader cannot, in general,
// rewind.
type readerSource struct {
	in  *bufio.Reader
	pos uint64
}

func newReaderSource(in *bufio.Reader) *readerSource {
	return &readerSource{in: in}
}

func (s *readerSource) ReadExact(buf []byte) error {
	n, err := io.ReadFull(s.in, buf)
	s.pos += uint64(n)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return &UnexpectedEOFError{Offset: s.pos}
		}
		return &IOError{Err: err}
	}
	return nil
}

func (s *readerSource) Peek(n int) ([]byte, error) {
	bs, err := s.in.Peek(n)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return bs, &IOError{Err: err}
	}
	return bs, nil
}

func (s *readerSource) Consume(n int) error {
	m, err := s.in.Discard(n)
	s.pos += uint64(m)
	if err != nil {
		return &IOError{Err: err}
	}
	return nil
}

func (s *readerSource) Skip(n uint64) error {
	for n > 0 {
		chunk := n
		if chunk > 1<<20 {
			chunk = 1 << 20
		}
		m, err := s.in.Discard(int(chunk))
		s.pos += uint64(m)
		n -= uint64(m)
		if err != nil {
			return &IOError{Err: err}
		}
	}
	return nil
}

// bytesSource adapts a contiguous in-memory buffer to ByteSource. It
// implements both Skipper (bump pos) and Seeker (jump pos), the fast
// path for in-memory sources.
type bytesSource struct {
	buf []byte
	pos int
}

func newBytesSource(buf []byte) *bytesSource {
	return &bytesSource{buf: buf}
}

func (s *bytesSource) ReadExact(buf []byte) error {
	if len(s.buf)-s.pos < len(buf) {
		return &UnexpectedEOFError{Offset: uint64(s.pos)}
	}
	copy(buf, s.buf[s.pos:])
	s.pos += len(buf)
	return nil
}

func (s *bytesSource) Peek(n int) ([]byte, error) {
	end := s.pos + n
	if end > len(s.buf) {
		end = len(s.buf)
	}
	return s.buf[s.pos:end], nil
}

func (s *bytesSource) Consume(n int) error {
	if len(s.buf)-s.pos < n {
		return &UnexpectedEOFError{Offset: uint64(s.pos)}
	}
	s.pos += n
	return nil
}

func (s *bytesSource) Skip(n uint64) error {
	if uint64(len(s.buf)-s.pos) < n {
		return &UnexpectedEOFError{Offset: uint64(s.pos)}
	}
	s.pos += int(n)
	return nil
}

func (s *bytesSource) SeekAbs(offset uint64) error {
	if offset > uint64(len(s.buf)) {
		return &IOError{Err: io.ErrUnexpectedEOF}
	}
	s.pos = int(offset)
	return nil
}
