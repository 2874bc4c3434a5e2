package beam

import (
	"io"
	"strconv"

	"github.com/wippyai/beam/bitio"
	"github.com/wippyai/beam/errors"
)

// Module is a fully decoded module file.
type Module struct {
	Atoms   *AtomTable   // first atom chunk, nil when there is none
	Exports *ExportTable // first export chunk, nil when there is none
	Chunks  []Chunk      // every chunk in file order
	Header  Header
}

// Decode decodes every chunk of data.
func Decode(data []byte, opts ...Option) (*Module, error) {
	r, err := NewReader(data, opts...)
	if err != nil {
		return nil, err
	}

	m := &Module{Header: r.Header()}
	for {
		c, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch b := c.Body.(type) {
		case *AtomTable:
			if m.Atoms == nil {
				m.Atoms = b
			}
		case *ExportTable:
			if m.Exports == nil {
				m.Exports = b
			}
		}
		m.Chunks = append(m.Chunks, c)
	}
	return m, nil
}

// Chunk returns the first chunk tagged id.
func (m *Module) Chunk(id ChunkID) (Chunk, bool) {
	for _, c := range m.Chunks {
		if c.ID == id {
			return c, true
		}
	}
	return Chunk{}, false
}

// Name returns the module name, which is the first atom.
func (m *Module) Name() (string, bool) {
	if m.Atoms == nil {
		return "", false
	}
	a, ok := m.Atoms.Lookup(1)
	return a.Name, ok
}

// ExportNames resolves every export to "name/arity".
func (m *Module) ExportNames() ([]string, error) {
	if m.Exports == nil {
		return nil, nil
	}
	if m.Atoms == nil {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"exports"}, "module has exports but no atom table")
	}
	names := make([]string, 0, len(m.Exports.Exports))
	for i, e := range m.Exports.Exports {
		a, ok := m.Atoms.Lookup(e.Function)
		if !ok {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Chunk(ChunkExports.String()).
				Path("exports", strconv.Itoa(i), "function").
				Value(e.Function).
				Detail("atom index %d out of range 1..%d", e.Function, m.Atoms.Len()).
				Build()
		}
		names = append(names, a.Name+"/"+strconv.FormatUint(uint64(e.Arity), 10))
	}
	return names, nil
}

// Encode returns the wire form of m. The declared size is recomputed as
// the byte count following the size field: the format magic plus every
// chunk. Padding is written as zeros; everything else of a decoded file,
// including bytes after the last table entry, is reproduced exactly.
func (m *Module) Encode() ([]byte, error) {
	body := bitio.NewWriter()
	for _, c := range m.Chunks {
		if err := writeChunk(body, c); err != nil {
			return nil, err
		}
	}

	w := bitio.NewWriter()
	Header{DeclaredSize: uint32(len(FormatMagic) + body.Len())}.write(w)
	w.WriteBytes(body.Bytes())
	return w.Bytes(), nil
}
