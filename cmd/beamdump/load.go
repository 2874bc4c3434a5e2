package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/wippyai/beam/errors"
)

// maxModuleSize bounds the decompressed size of a single input.
const maxModuleSize = 256 << 20

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// loadFile reads path ("-" for stdin) and strips gzip or zstd framing.
func loadFile(path string, stdin io.Reader, log *zap.Logger) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	return decompress(data, log)
}

func decompress(data []byte, log *zap.Logger) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Load("gzip header", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(io.LimitReader(zr, maxModuleSize+1))
		if err != nil {
			return nil, errors.Load("gzip stream", err)
		}
		if len(out) > maxModuleSize {
			return nil, errors.Load(fmt.Sprintf("decompressed module exceeds %d bytes", maxModuleSize), nil)
		}
		log.Debug("decompressed input", zap.String("codec", "gzip"), zap.Int("in", len(data)), zap.Int("out", len(out)))
		return out, nil

	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxModuleSize))
		if err != nil {
			return nil, errors.Load("zstd decoder", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Load("zstd stream", err)
		}
		log.Debug("decompressed input", zap.String("codec", "zstd"), zap.Int("in", len(data)), zap.Int("out", len(out)))
		return out, nil
	}
	return data, nil
}
