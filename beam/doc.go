// Package beam decodes and encodes compiled BEAM module files.
//
// A module file is a chunked container: a 12-byte header followed by
// named, length-prefixed chunks, each padded to a multiple of 4 bytes.
//
//	"FOR1" | u32 size (big-endian) | "BEAM"
//	id[4] | u32 size | payload[size] | zero padding to 4 bytes
//	...
//
// # Reading chunks
//
// The atom ("AtU8") and export ("ExpT") chunks are decoded; every other
// chunk is kept as an opaque payload. Chunks are read lazily:
//
//	for c, err := range beam.DecodeChunks(data) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(c.ID, c.Size())
//	}
//
// or all at once:
//
//	m, err := beam.Decode(data)
//	name, _ := m.Name()
//	exports, _ := m.ExportNames() // ["start/0", "init/1"]
//
// Additional chunk types are decoded by installing a DecodeFunc:
//
//	r, err := beam.NewReader(data, beam.WithDecoder(beam.ChunkImports, decodeImports))
//
// # Operand tags
//
// Instruction operands inside code chunks use a compact, bit-packed
// encoding read with a bitio.Reader:
//
//	3 bits   kind (literal, integer, atom, x, y, label, char, extended)
//	1 bit    0: 4-bit value follows
//	1 bit    0: 11-bit value follows
//	3 bits   0b111: external reference, otherwise size; size+2 octets follow
//
// The extended kind is followed by a 5-bit extended tag instead. Operands
// are packed back to back without alignment:
//
//	r := bitio.NewReader(code)
//	tag, err := beam.DecodeTag(r)
//
// EncodeTag reproduces the exact bit layout, so decoding and re-encoding
// any well-formed stream yields the original bits.
//
// # Errors
//
// Decoding fails with errors matching ErrMagicMismatch, ErrTruncated,
// ErrMisaligned or ErrInvalidText under errors.Is. Unknown chunk ids and
// unassigned extended tags are not errors.
package beam
