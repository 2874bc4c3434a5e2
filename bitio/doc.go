// Package bitio provides a bit-granular cursor over a byte slice and its
// writing counterpart.
//
// Bits are numbered most-significant first within each byte, so reading
// 3 bits from 0b01011001 yields 0b010. A single bit-position counter backs
// both bit reads and byte reads; byte reads are the aligned special case
// and fail with a misaligned error when the cursor sits mid-byte.
//
//	r := bitio.NewReader(data)
//	kind, err := r.ReadBits(3)
//	...
//	if r.Aligned() {
//	    payload, err := r.ReadBytes(n)
//	}
//
// The Writer mirrors the Reader so that encoders can reproduce bit layouts
// exactly:
//
//	w := bitio.NewWriter()
//	w.WriteBits(0b010, 3)
//	w.WriteBytes([]byte{0x7b})
//	out := w.Bytes()
package bitio
