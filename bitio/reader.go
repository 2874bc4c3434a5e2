package bitio

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/beam/errors"
)

// Reader is a cursor over an immutable byte slice with bit granularity.
// Bits are consumed most-significant first within each byte. Byte reads
// share the same position counter and require the cursor to be aligned.
type Reader struct {
	buf []byte
	pos int // in bits
}

// NewReader creates a Reader positioned at the first bit of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Len returns the length of the underlying buffer in bytes.
func (r *Reader) Len() int {
	return len(r.buf)
}

// BitPosition returns the current position in bits.
func (r *Reader) BitPosition() int {
	return r.pos
}

// BytePosition returns the current byte offset. It fails when the cursor
// sits in the middle of a byte.
func (r *Reader) BytePosition() (int, error) {
	if !r.Aligned() {
		return 0, errors.Misaligned(r.pos)
	}
	return r.pos >> 3, nil
}

// Aligned reports whether the cursor is on a byte boundary.
func (r *Reader) Aligned() bool {
	return r.pos&7 == 0
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return len(r.buf)*8 - r.pos
}

// AtEnd reports whether every bit has been consumed.
func (r *Reader) AtEnd() bool {
	return r.Remaining() == 0
}

// ReadBits reads n bits (1 <= n <= 32) and returns them right-aligned.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 1 || n > 32 {
		return 0, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("bit width %d out of range 1..32", n))
	}
	if rem := r.Remaining(); n > rem {
		return 0, r.truncated("bits", n, rem)
	}
	var v uint32
	for n > 0 {
		off := r.pos & 7
		avail := 8 - off
		take := min(avail, n)
		bits := uint32(r.buf[r.pos>>3]>>(avail-take)) & (uint32(1)<<take - 1)
		v = v<<take | bits
		r.pos += take
		n -= take
	}
	return v, nil
}

// ReadBytes reads exactly n bytes from an aligned cursor. The returned
// slice aliases the underlying buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("negative byte count %d", n))
	}
	off, err := r.BytePosition()
	if err != nil {
		return nil, err
	}
	if rem := len(r.buf) - off; n > rem {
		return nil, r.truncated("bytes", n, rem)
	}
	r.pos += n * 8
	return r.buf[off : off+n : off+n], nil
}

// ReadBitBytes reads n octets starting at any bit position. Aligned
// cursors take the ReadBytes path; otherwise each octet is assembled from
// 8 bits and the result is a fresh slice.
func (r *Reader) ReadBitBytes(n int) ([]byte, error) {
	if r.Aligned() {
		return r.ReadBytes(n)
	}
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("negative byte count %d", n))
	}
	if rem := r.Remaining(); n*8 > rem {
		return nil, r.truncated("bits", n*8, rem)
	}
	out := make([]byte, n)
	for i := range out {
		b, _ := r.ReadBits(8)
		out[i] = byte(b)
	}
	return out, nil
}

// ReadU8 reads one aligned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32 reads an aligned big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Skip advances an aligned cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.ReadBytes(n)
	return err
}

// Rest returns the unread bytes of an aligned cursor without consuming them.
func (r *Reader) Rest() ([]byte, error) {
	off, err := r.BytePosition()
	if err != nil {
		return nil, err
	}
	return r.buf[off:], nil
}

func (r *Reader) truncated(unit string, need, have int) error {
	return errors.New(errors.PhaseDecode, errors.KindTruncated).
		Value(need).
		Detail("need %d %s at bit %d, have %d", need, unit, r.pos, have).
		Build()
}
