package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/beam"
	"github.com/wippyai/beam/bitio"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatYAML outputFormat = "yaml"
	formatCBOR outputFormat = "cbor"
	formatDump outputFormat = "dump"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatText, formatYAML, formatCBOR, formatDump:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, yaml, cbor or dump)", s)
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("beamdump: CBOR encoder initialization failed: " + err.Error())
	}
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	id      lipgloss.Style
	name    lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, section: plain, id: plain, name: plain, dim: plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		section: lipgloss.NewStyle().Bold(true).Underline(true),
		id:      lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// writeReport renders rep. m is only used by the dump format, which
// prints the decoded structures themselves.
func writeReport(w io.Writer, rep *report, m *beam.Module, f outputFormat, st styles) error {
	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		return enc.Close()
	case formatCBOR:
		b, err := cborEncMode.Marshal(rep)
		if err != nil {
			return fmt.Errorf("cbor: %w", err)
		}
		_, err = w.Write(b)
		return err
	case formatDump:
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(w, m)
		return nil
	}
	return writeText(w, rep, st)
}

func writeText(w io.Writer, rep *report, st styles) error {
	var b strings.Builder

	title := rep.Module
	if title == "" {
		title = "(unnamed)"
	}
	b.WriteString(st.title.Render(title))
	b.WriteString(" ")
	b.WriteString(st.dim.Render(rep.File))
	b.WriteString("\n")
	fmt.Fprintf(&b, "declared size %d, %s\n\n", rep.DeclaredSize, plural(len(rep.Chunks), "chunk"))

	b.WriteString(st.section.Render("Chunks"))
	b.WriteString("\n")
	for _, c := range rep.Chunks {
		fmt.Fprintf(&b, "  %s  %-16s %8d %8d  %s\n",
			st.id.Render(fmt.Sprintf("%-10s", c.ID)), c.Description, c.Offset, c.Size, c.Summary)
		if c.Digest != "" {
			fmt.Fprintf(&b, "  %s\n", st.dim.Render("blake3 "+c.Digest))
		}
	}

	if len(rep.Atoms) > 0 {
		b.WriteString("\n")
		b.WriteString(st.section.Render("Atoms"))
		b.WriteString("\n")
		for i, a := range rep.Atoms {
			fmt.Fprintf(&b, "  %4d %s\n", i+1, st.name.Render(a))
		}
	}

	if len(rep.Exports) > 0 {
		b.WriteString("\n")
		b.WriteString(st.section.Render("Exports"))
		b.WriteString("\n")
		for _, e := range rep.Exports {
			fmt.Fprintf(&b, "  %s\n", st.name.Render(e))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeOperands decodes packed operand tags from data. With count zero
// it decodes until fewer than eight bits remain, since every operand is
// at least one byte wide.
func writeOperands(w io.Writer, data []byte, count int, st styles) error {
	r := bitio.NewReader(data)
	for i := 0; count == 0 && r.Remaining() >= 8 || i < count; i++ {
		start := r.BitPosition()
		t, err := beam.DecodeTag(r)
		if err != nil {
			return fmt.Errorf("operand %d at bit %d: %w", i, start, err)
		}
		fmt.Fprintf(w, "%4d  bit %-5d %3d bits  %s\n", i, start, t.BitLen(), st.name.Render(t.String()))
	}
	return nil
}
