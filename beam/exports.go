package beam

import (
	"strconv"

	"github.com/wippyai/beam/bitio"
	"github.com/wippyai/beam/errors"
)

const exportEntrySize = 12

// Export is one export table entry.
type Export struct {
	Function uint32 // 1-based atom index of the function name
	Arity    uint32
	Label    uint32 // entry label in the code chunk
}

// ExportTable is the decoded "ExpT" chunk.
type ExportTable struct {
	Exports []Export
}

func (t *ExportTable) ChunkID() ChunkID { return ChunkExports }

func (t *ExportTable) EncodePayload() ([]byte, error) { return t.Encode(), nil }

// Len returns the number of exports.
func (t *ExportTable) Len() int {
	return len(t.Exports)
}

// DecodeExportTable decodes an export table payload: a big-endian u32
// count followed by count 12-byte entries.
func DecodeExportTable(payload []byte) (*ExportTable, error) {
	chunk := ChunkExports.String()
	r := bitio.NewReader(payload)

	count, err := r.ReadU32()
	if err != nil {
		return nil, errors.Within(err, chunk, "count")
	}

	capacity := min(uint64(count), uint64(r.Remaining()/8/exportEntrySize))
	t := &ExportTable{Exports: make([]Export, 0, capacity)}

	for i := uint32(0); i < count; i++ {
		var fields [3]uint32
		for j, name := range [...]string{"function", "arity", "label"} {
			v, err := r.ReadU32()
			if err != nil {
				return nil, errors.Within(err, chunk, "exports", strconv.FormatUint(uint64(i), 10), name)
			}
			fields[j] = v
		}
		t.Exports = append(t.Exports, Export{Function: fields[0], Arity: fields[1], Label: fields[2]})
	}

	return t, nil
}

// Encode returns the payload form of t.
func (t *ExportTable) Encode() []byte {
	w := bitio.NewWriter()
	w.WriteU32(uint32(len(t.Exports)))
	for _, e := range t.Exports {
		w.WriteU32(e.Function)
		w.WriteU32(e.Arity)
		w.WriteU32(e.Label)
	}
	return w.Bytes()
}

func decodeExportBody(payload []byte) (Body, error) {
	t, err := DecodeExportTable(payload)
	if err != nil {
		return nil, err
	}
	return t, nil
}
