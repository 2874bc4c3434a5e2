package beam_test

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/wippyai/beam"
	beamerrors "github.com/wippyai/beam/errors"
)

func sampleModule() []byte {
	return rawModule(
		rawChunk("AtU8", atomPayload("lists", "reverse", "map")),
		rawChunk("Code", []byte{0, 0, 0, 16, 0, 0, 0, 0, 0, 0, 0, 0xb2, 0x19, 0x7b, 0x7d, 0x7f, 0x03}),
		rawChunk("StrT", nil),
		rawChunk("ExpT", exportPayload([3]uint32{2, 1, 4}, [3]uint32{3, 2, 9})),
		rawChunk("Dbgi", []byte("x")),
	)
}

func TestDecodeModule(t *testing.T) {
	data := sampleModule()
	m, err := beam.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if m.Header.DeclaredSize != uint32(len(data)-8) {
		t.Errorf("DeclaredSize = %d, want %d", m.Header.DeclaredSize, len(data)-8)
	}
	if len(m.Chunks) != 5 {
		t.Fatalf("decoded %d chunks, want 5", len(m.Chunks))
	}
	if m.Atoms == nil || m.Exports == nil {
		t.Fatal("atom or export table missing")
	}

	name, ok := m.Name()
	if !ok || name != "lists" {
		t.Errorf("Name = %q, %v", name, ok)
	}

	names, err := m.ExportNames()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"reverse/1", "map/2"}) {
		t.Errorf("ExportNames = %v", names)
	}

	code, ok := m.Chunk(beam.ChunkCode)
	if !ok {
		t.Fatal("Code chunk not found")
	}
	if code.Size() != 17 || code.Span() != 8+20 {
		t.Errorf("Code size %d span %d", code.Size(), code.Span())
	}
	if _, ok := m.Chunk(beam.ChunkLambdas); ok {
		t.Error("found a chunk that is not present")
	}
}

func TestModuleEncodeRoundTrip(t *testing.T) {
	data := sampleModule()
	m, err := beam.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Encode differs from input\n got %x\nwant %x", got, data)
	}
}

func TestModuleEncodeRecomputesSize(t *testing.T) {
	m := &beam.Module{
		Header: beam.Header{DeclaredSize: 12345},
		Chunks: []beam.Chunk{
			{ID: beam.ChunkAtoms, Body: &beam.AtomTable{Atoms: []beam.Atom{{Name: "m"}}}},
		},
	}
	got, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	want := rawModule(rawChunk("AtU8", atomPayload("m")))
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = %x, want %x", got, want)
	}
}

func TestDecodeModuleEmpty(t *testing.T) {
	m, err := beam.Decode(header(4))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Chunks) != 0 || m.Atoms != nil {
		t.Errorf("module = %+v", m)
	}
	if _, ok := m.Name(); ok {
		t.Error("Name without an atom table")
	}
	if names, err := m.ExportNames(); err != nil || names != nil {
		t.Errorf("ExportNames = %v, %v", names, err)
	}
}

func TestDecodeModuleErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		want  error
		chunk string
	}{
		{"bad magic", append([]byte("FOR1\x00\x00\x00\x04BEAN"), rawChunk("AtU8", atomPayload("m"))...), beam.ErrMagicMismatch, ""},
		{"short header", []byte("FOR1"), beam.ErrTruncated, ""},
		{"truncated chunk", append(header(100), "AtU8\x00\x00\x00\x40"...), beam.ErrTruncated, ""},
		{"bad atom", rawModule(rawChunk("AtU8", append(u32(1), 1, 0xff))), beam.ErrInvalidText, "AtU8"},
		{"short exports", rawModule(rawChunk("ExpT", u32(2))), beam.ErrTruncated, "ExpT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := beam.Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode error = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Error("Decode returned a module with an error")
			}
			var e *beamerrors.Error
			if tt.chunk != "" && (!errors.As(err, &e) || e.Chunk != tt.chunk) {
				t.Errorf("error chunk = %v, want %s", err, tt.chunk)
			}
		})
	}
}

func TestExportNamesErrors(t *testing.T) {
	m := &beam.Module{Exports: &beam.ExportTable{Exports: []beam.Export{{Function: 1}}}}
	if _, err := m.ExportNames(); err == nil {
		t.Error("exports without atoms should fail")
	}

	m.Atoms = &beam.AtomTable{Atoms: []beam.Atom{{Name: "m"}}}
	m.Exports.Exports = append(m.Exports.Exports, beam.Export{Function: 7, Arity: 1})
	_, err := m.ExportNames()
	var e *beamerrors.Error
	if !errors.As(err, &e) || e.Kind != beamerrors.KindInvalidData || e.Chunk != "ExpT" {
		t.Fatalf("ExportNames error = %v", err)
	}
	if strings.Join(e.Path, ".") != "exports.1.function" || e.Value != uint32(7) {
		t.Errorf("Path = %v, Value = %v", e.Path, e.Value)
	}
}

func TestModuleEncodeKeepsTrailingPayloadBytes(t *testing.T) {
	data := rawModule(
		rawChunk("AtU8", append(atomPayload("m"), 0xaa, 0xbb)),
		rawChunk("ExpT", append(exportPayload([3]uint32{1, 0, 2}), 0xcc)),
	)
	m, err := beam.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if m.Atoms.Len() != 1 || m.Exports.Len() != 1 {
		t.Fatalf("atoms %d, exports %d", m.Atoms.Len(), m.Exports.Len())
	}
	got, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Encode dropped trailing bytes\n got %x\nwant %x", got, data)
	}

	m.Atoms.Atoms[0].Name = "n"
	got, err = m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	want := rawModule(
		rawChunk("AtU8", atomPayload("n")),
		rawChunk("ExpT", append(exportPayload([3]uint32{1, 0, 2}), 0xcc)),
	)
	if !bytes.Equal(got, want) {
		t.Errorf("edited body not re-encoded\n got %x\nwant %x", got, want)
	}
}

func TestDecodeModuleDuplicateTables(t *testing.T) {
	data := rawModule(
		rawChunk("AtU8", atomPayload("first")),
		rawChunk("ExpT", exportPayload([3]uint32{1, 0, 1})),
		rawChunk("AtU8", atomPayload("second")),
		rawChunk("ExpT", exportPayload([3]uint32{1, 1, 1}, [3]uint32{1, 2, 2})),
	)
	m, err := beam.Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	c, ok := m.Chunk(beam.ChunkAtoms)
	if !ok || c.Body != beam.Body(m.Atoms) {
		t.Error("Atoms and Chunk(ChunkAtoms) disagree")
	}
	c, ok = m.Chunk(beam.ChunkExports)
	if !ok || c.Body != beam.Body(m.Exports) {
		t.Error("Exports and Chunk(ChunkExports) disagree")
	}
	if name, _ := m.Name(); name != "first" {
		t.Errorf("Name = %q, want first", name)
	}
	if m.Exports.Len() != 1 {
		t.Errorf("Exports has %d entries, want the first table", m.Exports.Len())
	}
}
