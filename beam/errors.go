package beam

import (
	"github.com/wippyai/beam/errors"
)

// Sentinels for errors.Is. Decoding errors carry more context (chunk,
// path, detail) but match these on phase and kind.
var (
	ErrMagicMismatch = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindMagicMismatch}
	ErrTruncated     = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTruncated}
	ErrMisaligned    = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindMisaligned}
	ErrInvalidText   = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidUTF8}
	ErrOverflow      = &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOverflow}
)
