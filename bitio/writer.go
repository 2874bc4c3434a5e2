package bitio

import (
	"encoding/binary"
	"fmt"
)

// Writer accumulates bits most-significant first. The final partial byte,
// if any, is zero-filled.
type Writer struct {
	buf   []byte
	nbits int
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes touched so far, including a partial one.
func (w *Writer) Len() int {
	return len(w.buf)
}

// BitLen returns the number of bits written.
func (w *Writer) BitLen() int {
	return w.nbits
}

// Aligned reports whether the next write starts on a byte boundary.
func (w *Writer) Aligned() bool {
	return w.nbits&7 == 0
}

// WriteBits writes the low n bits of v. n must be in 1..32.
func (w *Writer) WriteBits(v uint32, n int) {
	if n < 1 || n > 32 {
		panic(fmt.Sprintf("bitio: bit width %d out of range 1..32", n))
	}
	for n > 0 {
		off := w.nbits & 7
		if off == 0 {
			w.buf = append(w.buf, 0)
		}
		avail := 8 - off
		take := min(avail, n)
		chunk := (v >> (n - take)) & (uint32(1)<<take - 1)
		w.buf[len(w.buf)-1] |= byte(chunk << (avail - take))
		w.nbits += take
		n -= take
	}
}

// WriteBytes writes p at the current bit position.
func (w *Writer) WriteBytes(p []byte) {
	if w.Aligned() {
		w.buf = append(w.buf, p...)
		w.nbits += len(p) * 8
		return
	}
	for _, b := range p {
		w.WriteBits(uint32(b), 8)
	}
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(b uint8) {
	w.WriteBits(uint32(b), 8)
}

// WriteU32 writes a big-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.WriteBytes(buf[:])
}

// Pad writes n zero bytes.
func (w *Writer) Pad(n int) {
	for range n {
		w.WriteU8(0)
	}
}

// Align zero-fills up to the next byte boundary.
func (w *Writer) Align() {
	if off := w.nbits & 7; off != 0 {
		w.WriteBits(0, 8-off)
	}
}
