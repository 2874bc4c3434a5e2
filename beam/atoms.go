package beam

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/beam/bitio"
	"github.com/wippyai/beam/errors"
)

// Atom is one atom table entry.
type Atom struct {
	Name string
}

func (a Atom) String() string { return a.Name }

// AtomTable is the decoded "AtU8" chunk. Atoms are referenced by 1-based
// index; index 1 is the module name.
type AtomTable struct {
	Atoms []Atom
}

func (t *AtomTable) ChunkID() ChunkID { return ChunkAtoms }

func (t *AtomTable) EncodePayload() ([]byte, error) { return t.Encode() }

// Len returns the number of atoms.
func (t *AtomTable) Len() int {
	return len(t.Atoms)
}

// Lookup returns the atom at the 1-based index.
func (t *AtomTable) Lookup(index uint32) (Atom, bool) {
	if index == 0 || uint64(index) > uint64(len(t.Atoms)) {
		return Atom{}, false
	}
	return t.Atoms[index-1], true
}

// DecodeAtomTable decodes an atom table payload: a big-endian u32 count
// followed by count length-prefixed UTF-8 names.
func DecodeAtomTable(payload []byte) (*AtomTable, error) {
	chunk := ChunkAtoms.String()
	r := bitio.NewReader(payload)

	count, err := r.ReadU32()
	if err != nil {
		return nil, errors.Within(err, chunk, "count")
	}

	// Every entry takes at least one byte, so a count beyond the payload
	// cannot be satisfied and must not drive the allocation.
	capacity := min(uint64(count), uint64(r.Remaining()/8))
	t := &AtomTable{Atoms: make([]Atom, 0, capacity)}

	for i := uint32(0); i < count; i++ {
		idx := strconv.FormatUint(uint64(i), 10)
		length, err := r.ReadU8()
		if err != nil {
			return nil, errors.Within(err, chunk, "atoms", idx, "length")
		}
		name, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, errors.Within(err, chunk, "atoms", idx, "name")
		}
		if !utf8.Valid(name) {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidUTF8).
				Chunk(chunk).
				Path("atoms", idx, "name").
				Value(name).
				Detail("invalid UTF-8 sequence: %x", name[:min(len(name), 32)]).
				Build()
		}
		t.Atoms = append(t.Atoms, Atom{Name: string(name)})
	}

	return t, nil
}

// Encode returns the payload form of t. Names longer than 255 bytes
// cannot be represented.
func (t *AtomTable) Encode() ([]byte, error) {
	w := bitio.NewWriter()
	w.WriteU32(uint32(len(t.Atoms)))
	for i, a := range t.Atoms {
		if len(a.Name) > 0xff {
			return nil, errors.New(errors.PhaseEncode, errors.KindOverflow).
				Chunk(ChunkAtoms.String()).
				Path("atoms", strconv.Itoa(i), "length").
				Value(len(a.Name)).
				Detail("name of %d bytes overflows u8 length", len(a.Name)).
				Build()
		}
		w.WriteU8(uint8(len(a.Name)))
		w.WriteBytes([]byte(a.Name))
	}
	return w.Bytes(), nil
}

func decodeAtomBody(payload []byte) (Body, error) {
	t, err := DecodeAtomTable(payload)
	if err != nil {
		return nil, err
	}
	return t, nil
}
