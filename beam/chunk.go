package beam

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/beam/bitio"
	"github.com/wippyai/beam/errors"
)

// ChunkID is the 4-byte tag naming a chunk.
type ChunkID [4]byte

// ParseChunkID converts a 4-byte string into a ChunkID.
func ParseChunkID(s string) (ChunkID, error) {
	if len(s) != 4 {
		return ChunkID{}, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("chunk id %q is not 4 bytes", s))
	}
	return ChunkID([]byte(s)), nil
}

// String returns the id as text when it is printable ASCII and as hex
// otherwise.
func (id ChunkID) String() string {
	for _, c := range id {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%x", id[:])
		}
	}
	return string(id[:])
}

// Description names well-known chunk ids; unknown ids return "".
func (id ChunkID) Description() string {
	return chunkDescriptions[id]
}

// Body is the decoded form of a chunk payload.
type Body interface {
	ChunkID() ChunkID
	EncodePayload() ([]byte, error)
}

// Chunk is one framed record of the container.
type Chunk struct {
	Body    Body
	Payload []byte // exactly Size() bytes, padding stripped
	ID      ChunkID
}

// Size returns the payload size recorded on the wire.
func (c Chunk) Size() uint32 {
	return uint32(len(c.Payload))
}

// Span returns the number of bytes the chunk occupies on the wire,
// including its id, size field and padding.
func (c Chunk) Span() int {
	return ChunkHeaderSize + len(c.Payload) + Padding(c.Size())
}

// Padding returns the number of zero bytes that follow a payload of the
// given size to reach 4-byte alignment.
func Padding(size uint32) int {
	return int((4 - size%4) % 4)
}

// OpaqueChunk holds the payload of a chunk that has no decoder.
type OpaqueChunk struct {
	Data []byte
	ID   ChunkID
}

func (o *OpaqueChunk) ChunkID() ChunkID { return o.ID }

func (o *OpaqueChunk) EncodePayload() ([]byte, error) { return o.Data, nil }

// Text renders the payload as text, replacing invalid UTF-8 sequences.
func (o *OpaqueChunk) Text() string {
	if utf8.Valid(o.Data) {
		return string(o.Data)
	}
	return strings.ToValidUTF8(string(o.Data), "�")
}

// ReadChunk frames the next chunk at r's position. It returns io.EOF when
// r is exhausted. The returned chunk has no Body.
func ReadChunk(r *bitio.Reader) (Chunk, error) {
	if r.AtEnd() {
		return Chunk{}, io.EOF
	}
	start, err := r.BytePosition()
	if err != nil {
		return Chunk{}, err
	}

	idBytes, err := r.ReadBytes(4)
	if err != nil {
		return Chunk{}, errors.Within(err, "", "chunk", "id")
	}
	id := ChunkID(idBytes)

	size, err := r.ReadU32()
	if err != nil {
		return Chunk{}, errors.Within(err, id.String(), "size")
	}

	rem := r.Remaining() / 8
	if uint64(size) > uint64(rem) {
		return Chunk{}, errors.Within(errors.Truncated(nil, "bytes", int(size), rem), id.String(), "payload")
	}
	payload, err := r.ReadBytes(int(size))
	if err != nil {
		return Chunk{}, errors.Within(err, id.String(), "payload")
	}

	if err := r.Skip(Padding(size)); err != nil {
		return Chunk{}, errors.Within(err, id.String(), "padding")
	}

	Logger().Debug("chunk framed",
		zap.Stringer("id", id),
		zap.Int("offset", start),
		zap.Uint32("size", size))

	return Chunk{ID: id, Payload: payload}, nil
}

// EncodeChunk returns the wire form of c: id, size, payload and zero
// padding. When c.Body is set the payload is re-encoded from it, unless
// that encoding is a prefix of c.Payload, in which case c.Payload is
// written unchanged so trailing bytes survive a round trip.
func EncodeChunk(c Chunk) ([]byte, error) {
	w := bitio.NewWriter()
	if err := writeChunk(w, c); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func writeChunk(w *bitio.Writer, c Chunk) error {
	payload := c.Payload
	if c.Body != nil {
		p, err := c.Body.EncodePayload()
		if err != nil {
			return errors.Within(err, c.ID.String())
		}
		// Decoders ignore bytes after the last entry. Keep them when the
		// body still encodes to a prefix of the original payload.
		if !bytes.HasPrefix(c.Payload, p) {
			payload = p
		}
	}
	if uint64(len(payload)) > uint64(^uint32(0)) {
		return errors.Within(errors.Overflow(errors.PhaseEncode, []string{"size"}, len(payload), "u32"), c.ID.String())
	}
	size := uint32(len(payload))
	w.WriteBytes(c.ID[:])
	w.WriteU32(size)
	w.WriteBytes(payload)
	w.Pad(Padding(size))
	return nil
}
