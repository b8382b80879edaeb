package ion

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"
)

func TestKindClassifiesIOAndDecoding(t *testing.T) {
	assert.Equal(t, KindIO, Kind(&IOError{Err: io.ErrClosedPipe}))
	assert.Equal(t, KindIO, Kind(&UnexpectedEOFError{Offset: 4}))

	assert.Equal(t, KindDecoding, Kind(&SyntaxError{Msg: "bad", Offset: 4}))
	assert.Equal(t, KindDecoding, Kind(&UnsupportedVersionError{Major: 2, Minor: 0}))
	assert.Equal(t, KindDecoding, Kind(&InvalidTagByteError{Byte: 0xF0}))
	assert.Equal(t, KindDecoding, Kind(&UnexpectedTokenError{Token: "x"}))
}

func TestKindUnwrapsWrappedIOErrors(t *testing.T) {
	err := xerrors.Errorf("while reading header: %w", &IOError{Err: io.ErrClosedPipe})
	assert.Equal(t, KindIO, Kind(err))
}

func TestIOErrorUnwrap(t *testing.T) {
	err := &IOError{Err: io.ErrUnexpectedEOF}
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "io", KindIO.String())
	assert.Equal(t, "decoding", KindDecoding.String())
}

func TestTruncatedStreamSurfacesAsError(t *testing.T) {
	// A VarUInt cut off mid-value: the cursor reports the truncation rather
	// than silently returning a partial value, and it classifies as an i/o
	// failure since the source ran dry.
	c := newTestCursor(t, withIVM(0x2E, 0x0F)) // length VarUInt missing its final byte
	_, _, err := c.Next()
	assert.Error(t, err)
	assert.Equal(t, KindIO, Kind(err))
}
