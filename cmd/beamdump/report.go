package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/wippyai/beam"
)

// report is the serialisable view of one decoded file.
type report struct {
	File         string        `yaml:"file" cbor:"file"`
	Module       string        `yaml:"module,omitempty" cbor:"module,omitempty"`
	Chunks       []chunkReport `yaml:"chunks" cbor:"chunks"`
	Atoms        []string      `yaml:"atoms,omitempty" cbor:"atoms,omitempty"`
	Exports      []string      `yaml:"exports,omitempty" cbor:"exports,omitempty"`
	DeclaredSize uint32        `yaml:"declared_size" cbor:"declared_size"`
}

type chunkReport struct {
	ID          string `yaml:"id" cbor:"id"`
	Description string `yaml:"description,omitempty" cbor:"description,omitempty"`
	Digest      string `yaml:"digest,omitempty" cbor:"digest,omitempty"`
	Summary     string `yaml:"summary" cbor:"summary"`
	Offset      int    `yaml:"offset" cbor:"offset"`
	Span        int    `yaml:"span" cbor:"span"`
	Size        uint32 `yaml:"size" cbor:"size"`
}

func buildReport(file string, m *beam.Module, digest bool, log *zap.Logger) *report {
	rep := &report{
		File:         file,
		DeclaredSize: m.Header.DeclaredSize,
		Chunks:       make([]chunkReport, 0, len(m.Chunks)),
	}
	rep.Module, _ = m.Name()

	offset := beam.HeaderSize
	for _, c := range m.Chunks {
		cr := chunkReport{
			ID:          c.ID.String(),
			Description: c.ID.Description(),
			Offset:      offset,
			Size:        c.Size(),
			Span:        c.Span(),
			Summary:     summarize(c),
		}
		if digest {
			sum := blake3.Sum256(c.Payload)
			cr.Digest = hex.EncodeToString(sum[:])
		}
		rep.Chunks = append(rep.Chunks, cr)
		offset += c.Span()
	}

	if m.Atoms != nil {
		rep.Atoms = make([]string, 0, m.Atoms.Len())
		for _, a := range m.Atoms.Atoms {
			rep.Atoms = append(rep.Atoms, a.Name)
		}
	}

	names, err := m.ExportNames()
	if err != nil {
		log.Warn("unresolved exports", zap.String("file", file), zap.Error(err))
		names = rawExportNames(m.Exports)
	}
	rep.Exports = names
	return rep
}

// rawExportNames renders exports by atom index when names cannot be
// resolved.
func rawExportNames(t *beam.ExportTable) []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, t.Len())
	for _, e := range t.Exports {
		names = append(names, "atom#"+strconv.FormatUint(uint64(e.Function), 10)+"/"+strconv.FormatUint(uint64(e.Arity), 10))
	}
	return names
}

func summarize(c beam.Chunk) string {
	switch b := c.Body.(type) {
	case *beam.AtomTable:
		return plural(b.Len(), "atom")
	case *beam.ExportTable:
		return plural(b.Len(), "export")
	case *beam.OpaqueChunk:
		return "opaque, " + plural(len(b.Data), "byte")
	}
	return fmt.Sprintf("%T", c.Body)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
