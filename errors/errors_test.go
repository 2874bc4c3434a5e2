package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindTruncated,
				Chunk:  "AtU8",
				Path:   []string{"atoms", "3", "name"},
				Detail: "need 5 bytes, have 2",
			},
			contains: []string{"[decode]", "truncated", "in chunk AtU8", "atoms.3.name", "need 5 bytes"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindMisaligned,
			},
			contains: []string{"[decode]", "misaligned"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "gunzip",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "gunzip", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Path:   []string{"count"},
		Detail: "need 4 bytes, have 1",
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindTruncated}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindTruncated}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindMisaligned}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindTruncated}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidUTF8).
		Chunk("AtU8").
		Path("atoms", "1").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "utf-8", "latin-1").
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidUTF8 {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
	}
	if err.Chunk != "AtU8" {
		t.Errorf("Chunk = %q, want AtU8", err.Chunk)
	}
	if len(err.Path) != 2 || err.Path[0] != "atoms" || err.Path[1] != "1" {
		t.Errorf("Path = %v, want [atoms 1]", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected utf-8, got latin-1" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MagicMismatch", func(t *testing.T) {
		err := MagicMismatch("format", []byte("BEAx"), []byte("BEAM"))
		if err.Kind != KindMagicMismatch || err.Phase != PhaseDecode {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Detail, "BEAx") {
			t.Errorf("Detail = %q, should name the bytes read", err.Detail)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		err := Truncated([]string{"size"}, "bytes", 4, 1)
		if err.Kind != KindTruncated {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTruncated)
		}
		if err.Value != 4 {
			t.Errorf("Value = %v, want 4", err.Value)
		}
	})

	t.Run("Misaligned", func(t *testing.T) {
		err := Misaligned(13)
		if err.Kind != KindMisaligned {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMisaligned)
		}
		if !strings.Contains(err.Detail, "bit 13") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := New(PhaseDecode, KindInvalidUTF8).Path("name").Value([]byte{0xff, 0xfe}).Build()
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		if !strings.Contains(err.Error(), "name") {
			t.Errorf("Error = %q, want path", err.Error())
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, []string{"small"}, 300, "4 bits")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != 300 {
			t.Errorf("Value = %v, want 300", err.Value)
		}
	})
}

func TestWithin(t *testing.T) {
	base := Truncated([]string{"count"}, "bytes", 4, 0)
	scoped := Within(base, "ExpT", "exports")

	var e *Error
	if !errors.As(scoped, &e) {
		t.Fatalf("Within returned %T", scoped)
	}
	if e.Chunk != "ExpT" {
		t.Errorf("Chunk = %q, want ExpT", e.Chunk)
	}
	if strings.Join(e.Path, ".") != "exports.count" {
		t.Errorf("Path = %v", e.Path)
	}
	if len(base.Path) != 1 || base.Chunk != "" {
		t.Error("Within must not modify the original error")
	}

	plain := errors.New("plain")
	if Within(plain, "AtU8") != plain {
		t.Error("non-structured errors pass through unchanged")
	}
}
