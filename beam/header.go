package beam

import (
	"github.com/wippyai/beam/bitio"
	"github.com/wippyai/beam/errors"
)

// Header is the fixed container header.
type Header struct {
	// DeclaredSize is the byte count recorded after the container magic.
	// It is reported as-is and never checked against the buffer.
	DeclaredSize uint32
}

// DecodeHeader decodes the 12-byte container header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	return readHeader(bitio.NewReader(b))
}

func readHeader(r *bitio.Reader) (Header, error) {
	if rem := r.Remaining() / 8; rem < HeaderSize {
		return Header{}, errors.Truncated([]string{"header"}, "bytes", HeaderSize, rem)
	}

	magic, err := r.ReadBytes(4)
	if err != nil {
		return Header{}, errors.Within(err, "", "header", "container")
	}
	if [4]byte(magic) != ContainerMagic {
		return Header{}, errors.MagicMismatch("container", magic, ContainerMagic[:])
	}

	size, err := r.ReadU32()
	if err != nil {
		return Header{}, errors.Within(err, "", "header", "size")
	}

	format, err := r.ReadBytes(4)
	if err != nil {
		return Header{}, errors.Within(err, "", "header", "format")
	}
	if [4]byte(format) != FormatMagic {
		return Header{}, errors.MagicMismatch("format", format, FormatMagic[:])
	}

	return Header{DeclaredSize: size}, nil
}

// Encode returns the 12-byte wire form of h.
func (h Header) Encode() []byte {
	w := bitio.NewWriter()
	h.write(w)
	return w.Bytes()
}

func (h Header) write(w *bitio.Writer) {
	w.WriteBytes(ContainerMagic[:])
	w.WriteU32(h.DeclaredSize)
	w.WriteBytes(FormatMagic[:])
}

// EncodeHeader returns the wire form of h.
func EncodeHeader(h Header) []byte {
	return h.Encode()
}
