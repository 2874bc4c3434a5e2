package beam

import (
	"io"
	"iter"
	"maps"

	"go.uber.org/zap"

	"github.com/wippyai/beam/bitio"
	"github.com/wippyai/beam/errors"
)

// DecodeFunc decodes a chunk payload into its Body.
type DecodeFunc func(payload []byte) (Body, error)

// Option configures a Reader.
type Option func(*options)

type options struct {
	decoders map[ChunkID]DecodeFunc
}

// WithDecoder installs fn as the decoder for chunks tagged id, replacing
// any built-in decoder. A nil fn makes id decode as an opaque chunk.
func WithDecoder(id ChunkID, fn DecodeFunc) Option {
	return func(o *options) {
		if fn == nil {
			delete(o.decoders, id)
			return
		}
		o.decoders[id] = fn
	}
}

var builtinDecoders = map[ChunkID]DecodeFunc{
	ChunkAtoms:   decodeAtomBody,
	ChunkExports: decodeExportBody,
}

func newOptions(opts []Option) *options {
	o := &options{decoders: maps.Clone(builtinDecoders)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Reader walks the chunks of a module. The input buffer is never
// modified, so decoding can be restarted with a new Reader at any time.
type Reader struct {
	cur      *bitio.Reader
	err      error
	decoders map[ChunkID]DecodeFunc
	header   Header
	index    int
}

// NewReader decodes the container header of data and returns a Reader
// positioned at the first chunk.
func NewReader(data []byte, opts ...Option) (*Reader, error) {
	cur := bitio.NewReader(data)
	h, err := readHeader(cur)
	if err != nil {
		return nil, err
	}
	Logger().Debug("header decoded", zap.Uint32("declared_size", h.DeclaredSize), zap.Int("buffer", len(data)))
	return &Reader{
		cur:      cur,
		decoders: newOptions(opts).decoders,
		header:   h,
	}, nil
}

// Header returns the decoded container header.
func (r *Reader) Header() Header {
	return r.header
}

// Offset returns the byte offset of the next chunk.
func (r *Reader) Offset() int {
	return r.cur.BitPosition() / 8
}

// Next frames and decodes the next chunk. It returns io.EOF once the
// buffer is exhausted. Any error ends the walk: later calls return the
// same error.
func (r *Reader) Next() (Chunk, error) {
	if r.err != nil {
		return Chunk{}, r.err
	}

	c, err := ReadChunk(r.cur)
	if err != nil {
		r.err = err
		return Chunk{}, err
	}

	body, err := r.decode(c)
	if err != nil {
		r.err = errors.Within(err, c.ID.String())
		return Chunk{}, r.err
	}
	c.Body = body
	r.index++
	return c, nil
}

func (r *Reader) decode(c Chunk) (Body, error) {
	fn, ok := r.decoders[c.ID]
	if !ok {
		Logger().Debug("opaque chunk passthrough",
			zap.Stringer("id", c.ID),
			zap.Int("index", r.index),
			zap.Int("size", len(c.Payload)))
		return &OpaqueChunk{ID: c.ID, Data: c.Payload}, nil
	}
	return fn(c.Payload)
}

// DecodeChunks returns a lazy sequence over the chunks of data. A header
// error or chunk error is yielded once, after every chunk decoded before
// it, and ends the sequence. Ranging over the sequence again starts over.
func DecodeChunks(data []byte, opts ...Option) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		r, err := NewReader(data, opts...)
		if err != nil {
			yield(Chunk{}, err)
			return
		}
		for {
			c, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(c, err) || err != nil {
				return
			}
		}
	}
}
