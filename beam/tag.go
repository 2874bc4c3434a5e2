package beam

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"

	"github.com/wippyai/beam/bitio"
	"github.com/wippyai/beam/errors"
)

// TagKind is the 3-bit coarse tag of an operand.
type TagKind uint8

const (
	TagLiteral   TagKind = 0
	TagInteger   TagKind = 1
	TagAtom      TagKind = 2
	TagXRegister TagKind = 3
	TagYRegister TagKind = 4
	TagLabel     TagKind = 5
	TagCharacter TagKind = 6
	TagExtended  TagKind = 7
)

var tagKindNames = [...]string{"literal", "integer", "atom", "x", "y", "label", "char", "extended"}

func (k TagKind) String() string {
	if int(k) < len(tagKindNames) {
		return tagKindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ExtendedTag is the 5-bit tag that follows the Extended coarse tag. Values
// without a named constant are passed through unchanged.
type ExtendedTag uint8

const (
	ExtList           ExtendedTag = 0b00010
	ExtFloatingPoint  ExtendedTag = 0b00100
	ExtAllocationList ExtendedTag = 0b00110
	ExtLiteral        ExtendedTag = 0b01000
	ExtTypeHint       ExtendedTag = 0b01010
)

// Known reports whether t has a named meaning.
func (t ExtendedTag) Known() bool {
	switch t {
	case ExtList, ExtFloatingPoint, ExtAllocationList, ExtLiteral, ExtTypeHint:
		return true
	}
	return false
}

func (t ExtendedTag) String() string {
	switch t {
	case ExtList:
		return "list"
	case ExtFloatingPoint:
		return "float"
	case ExtAllocationList:
		return "alloc_list"
	case ExtLiteral:
		return "literal"
	case ExtTypeHint:
		return "type_hint"
	}
	return fmt.Sprintf("other(0b%05b)", uint8(t))
}

// ValueForm selects between the 4-bit inline form and the wider forms.
type ValueForm uint8

const (
	FormSmall  ValueForm = 0
	FormLarger ValueForm = 1
)

// LargerForm selects between the 11-bit inline form and a large value.
type LargerForm uint8

const (
	FormNormal LargerForm = 0
	FormLarge  LargerForm = 1
)

// Tag is a decoded operand. Value is meaningful for every kind except
// TagExtended, which uses Ext instead.
type Tag struct {
	Value TagValue
	Kind  TagKind
	Ext   ExtendedTag
}

// TagValue is the second level of the encoding.
type TagValue struct {
	Larger LargerTagValue // Form == FormLarger
	Form   ValueForm
	Small  uint8 // Form == FormSmall, 4 bits
}

// LargerTagValue is the third level of the encoding.
type LargerTagValue struct {
	Large  LargeValue // Form == FormLarge
	Normal uint16     // Form == FormNormal, 11 bits
	Form   LargerForm
}

// LargeValue is the fourth level: either an external reference or
// Size+2 big-endian octets.
type LargeValue struct {
	Data     []byte
	External bool
	Size     uint8
}

// Reserved reports whether the size field is one of 0, 1 or 2, which
// encoders are not expected to emit because narrower forms cover those
// magnitudes. The decoder accepts them.
func (v LargeValue) Reserved() bool {
	return !v.External && v.Size <= 2
}

// DecodeTag decodes one operand at r's position. r need not be aligned
// and is left wherever the operand ends.
func DecodeTag(r *bitio.Reader) (Tag, error) {
	kind, err := r.ReadBits(tagKindBits)
	if err != nil {
		return Tag{}, errors.Within(err, "", "tag", "kind")
	}
	t := Tag{Kind: TagKind(kind)}

	if t.Kind == TagExtended {
		ext, err := r.ReadBits(extendedBits)
		if err != nil {
			return Tag{}, errors.Within(err, "", "tag", "extended")
		}
		t.Ext = ExtendedTag(ext)
		return t, nil
	}

	t.Value, err = decodeTagValue(r)
	if err != nil {
		return Tag{}, errors.Within(err, "", "tag")
	}
	return t, nil
}

func decodeTagValue(r *bitio.Reader) (TagValue, error) {
	form, err := r.ReadBits(tagFormBits)
	if err != nil {
		return TagValue{}, errors.Within(err, "", "value")
	}
	switch ValueForm(form) {
	case FormSmall:
		v, err := r.ReadBits(smallValueBits)
		if err != nil {
			return TagValue{}, errors.Within(err, "", "small")
		}
		return TagValue{Form: FormSmall, Small: uint8(v)}, nil
	default:
		larger, err := decodeLargerTagValue(r)
		if err != nil {
			return TagValue{}, err
		}
		return TagValue{Form: FormLarger, Larger: larger}, nil
	}
}

func decodeLargerTagValue(r *bitio.Reader) (LargerTagValue, error) {
	form, err := r.ReadBits(tagFormBits)
	if err != nil {
		return LargerTagValue{}, errors.Within(err, "", "larger")
	}
	switch LargerForm(form) {
	case FormNormal:
		v, err := r.ReadBits(normalValueBits)
		if err != nil {
			return LargerTagValue{}, errors.Within(err, "", "normal")
		}
		return LargerTagValue{Form: FormNormal, Normal: uint16(v)}, nil
	default:
		large, err := decodeLargeValue(r)
		if err != nil {
			return LargerTagValue{}, err
		}
		return LargerTagValue{Form: FormLarge, Large: large}, nil
	}
}

func decodeLargeValue(r *bitio.Reader) (LargeValue, error) {
	size, err := r.ReadBits(largeSizeBits)
	if err != nil {
		return LargeValue{}, errors.Within(err, "", "large", "size")
	}
	if size == largeExternal {
		return LargeValue{External: true}, nil
	}
	data, err := r.ReadBitBytes(int(size) + 2)
	if err != nil {
		return LargeValue{}, errors.Within(err, "", "large", "data")
	}
	return LargeValue{Size: uint8(size), Data: data}, nil
}

// DecodeTags decodes n operands packed back to back in b.
func DecodeTags(b []byte, n int) ([]Tag, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("negative operand count %d", n))
	}
	r := bitio.NewReader(b)
	tags := make([]Tag, 0, min(n, r.Remaining()/tagKindBits))
	for i := range n {
		t, err := DecodeTag(r)
		if err != nil {
			return nil, errors.Within(err, "", "operands", strconv.Itoa(i))
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// Validate checks that every field of t fits its encoding.
func (t Tag) Validate() error {
	if t.Kind > TagExtended {
		return errors.Overflow(errors.PhaseEncode, []string{"tag", "kind"}, uint8(t.Kind), "3 bits")
	}
	if t.Kind == TagExtended {
		if t.Ext > 0b11111 {
			return errors.Overflow(errors.PhaseEncode, []string{"tag", "extended"}, uint8(t.Ext), "5 bits")
		}
		return nil
	}

	v := t.Value
	switch v.Form {
	case FormSmall:
		if v.Small > maxSmall {
			return errors.Overflow(errors.PhaseEncode, []string{"tag", "small"}, v.Small, "4 bits")
		}
		return nil
	case FormLarger:
	default:
		return errors.InvalidData(errors.PhaseEncode, []string{"tag", "value"}, fmt.Sprintf("unknown value form %d", v.Form))
	}

	l := v.Larger
	switch l.Form {
	case FormNormal:
		if l.Normal > maxNormal {
			return errors.Overflow(errors.PhaseEncode, []string{"tag", "normal"}, l.Normal, "11 bits")
		}
		return nil
	case FormLarge:
	default:
		return errors.InvalidData(errors.PhaseEncode, []string{"tag", "larger"}, fmt.Sprintf("unknown larger form %d", l.Form))
	}

	lv := l.Large
	if lv.External {
		return nil
	}
	if lv.Size > MaxLargeSize {
		return errors.Overflow(errors.PhaseEncode, []string{"tag", "large", "size"}, lv.Size, "size field 0..6")
	}
	if len(lv.Data) != int(lv.Size)+2 {
		return errors.InvalidData(errors.PhaseEncode, []string{"tag", "large", "data"},
			fmt.Sprintf("size %d requires %d octets, have %d", lv.Size, int(lv.Size)+2, len(lv.Data)))
	}
	return nil
}

// EncodeTag writes t at w's position. Nothing is written if t is invalid.
func EncodeTag(w *bitio.Writer, t Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}

	w.WriteBits(uint32(t.Kind), tagKindBits)
	if t.Kind == TagExtended {
		w.WriteBits(uint32(t.Ext), extendedBits)
		return nil
	}

	v := t.Value
	w.WriteBits(uint32(v.Form), tagFormBits)
	if v.Form == FormSmall {
		w.WriteBits(uint32(v.Small), smallValueBits)
		return nil
	}

	l := v.Larger
	w.WriteBits(uint32(l.Form), tagFormBits)
	if l.Form == FormNormal {
		w.WriteBits(uint32(l.Normal), normalValueBits)
		return nil
	}

	if l.Large.External {
		w.WriteBits(largeExternal, largeSizeBits)
		return nil
	}
	w.WriteBits(uint32(l.Large.Size), largeSizeBits)
	w.WriteBytes(l.Large.Data)
	return nil
}

// EncodeTags packs tags back to back and zero-fills the final byte.
func EncodeTags(tags []Tag) ([]byte, error) {
	w := bitio.NewWriter()
	for i, t := range tags {
		if err := EncodeTag(w, t); err != nil {
			return nil, errors.Within(err, "", "operands", strconv.Itoa(i))
		}
	}
	w.Align()
	return w.Bytes(), nil
}

// BitLen returns the number of bits t occupies on the wire.
func (t Tag) BitLen() int {
	n := tagKindBits
	if t.Kind == TagExtended {
		return n + extendedBits
	}
	n += tagFormBits
	if t.Value.Form == FormSmall {
		return n + smallValueBits
	}
	n += tagFormBits
	if t.Value.Larger.Form == FormNormal {
		return n + normalValueBits
	}
	n += largeSizeBits
	if t.Value.Larger.Large.External {
		return n
	}
	return n + 8*(int(t.Value.Larger.Large.Size)+2)
}

// SmallTag builds an operand with a 4-bit inline value.
func SmallTag(kind TagKind, v uint8) Tag {
	return Tag{Kind: kind, Value: TagValue{Form: FormSmall, Small: v}}
}

// NormalTag builds an operand with an 11-bit inline value.
func NormalTag(kind TagKind, v uint16) Tag {
	return Tag{Kind: kind, Value: TagValue{
		Form:   FormLarger,
		Larger: LargerTagValue{Form: FormNormal, Normal: v},
	}}
}

// LargeTag builds an operand carrying data as a large inline value. data
// must hold 2 to 8 octets.
func LargeTag(kind TagKind, data []byte) Tag {
	return Tag{Kind: kind, Value: TagValue{
		Form: FormLarger,
		Larger: LargerTagValue{
			Form:  FormLarge,
			Large: LargeValue{Size: uint8(len(data) - 2), Data: data},
		},
	}}
}

// ExternalTag builds an operand that refers to an external value.
func ExternalTag(kind TagKind) Tag {
	return Tag{Kind: kind, Value: TagValue{
		Form: FormLarger,
		Larger: LargerTagValue{
			Form:  FormLarge,
			Large: LargeValue{External: true},
		},
	}}
}

// ExtTag builds an extended operand.
func ExtTag(ext ExtendedTag) Tag {
	return Tag{Kind: TagExtended, Ext: ext}
}

// IntTag builds the narrowest encoding of the non-negative magnitude v.
func IntTag(kind TagKind, v *big.Int) (Tag, error) {
	if v.Sign() < 0 {
		return Tag{}, errors.Overflow(errors.PhaseEncode, []string{"tag", "value"}, v, "unsigned magnitude")
	}
	if v.IsUint64() {
		u := v.Uint64()
		switch {
		case u <= maxSmall:
			return SmallTag(kind, uint8(u)), nil
		case u <= maxNormal:
			return NormalTag(kind, uint16(u)), nil
		}
	}
	data := v.Bytes()
	if len(data) > MaxLargeSize+2 {
		return Tag{}, errors.Overflow(errors.PhaseEncode, []string{"tag", "large"}, v, "8 octets")
	}
	return LargeTag(kind, data), nil
}

// BigInt returns the inline magnitude of t. It reports false for
// extended operands and external references.
func (t Tag) BigInt() (*big.Int, bool) {
	if t.Kind == TagExtended {
		return nil, false
	}
	v := t.Value
	if v.Form == FormSmall {
		return big.NewInt(int64(v.Small)), true
	}
	l := v.Larger
	if l.Form == FormNormal {
		return big.NewInt(int64(l.Normal)), true
	}
	if l.Large.External {
		return nil, false
	}
	return new(big.Int).SetBytes(l.Large.Data), true
}

func (t Tag) String() string {
	if t.Kind == TagExtended {
		return "extended(" + t.Ext.String() + ")"
	}
	v := t.Value
	var body string
	switch {
	case v.Form == FormSmall:
		body = strconv.Itoa(int(v.Small))
	case v.Larger.Form == FormNormal:
		body = strconv.Itoa(int(v.Larger.Normal))
	case v.Larger.Large.External:
		body = "external"
	default:
		body = "0x" + hex.EncodeToString(v.Larger.Large.Data)
	}
	return t.Kind.String() + "(" + body + ")"
}
