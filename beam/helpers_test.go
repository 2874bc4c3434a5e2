package beam_test

import (
	"encoding/binary"
)

func u32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func header(size uint32) []byte {
	b := []byte("FOR1")
	b = append(b, u32(size)...)
	return append(b, "BEAM"...)
}

// rawChunk frames payload by hand, with zero padding.
func rawChunk(id string, payload []byte) []byte {
	b := []byte(id)
	b = append(b, u32(uint32(len(payload)))...)
	b = append(b, payload...)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func rawModule(chunks ...[]byte) []byte {
	var body []byte
	for _, c := range chunks {
		body = append(body, c...)
	}
	return append(header(uint32(4+len(body))), body...)
}

func atomPayload(names ...string) []byte {
	b := u32(uint32(len(names)))
	for _, n := range names {
		b = append(b, byte(len(n)))
		b = append(b, n...)
	}
	return b
}

func exportPayload(entries ...[3]uint32) []byte {
	b := u32(uint32(len(entries)))
	for _, e := range entries {
		b = append(b, u32(e[0])...)
		b = append(b, u32(e[1])...)
		b = append(b, u32(e[2])...)
	}
	return b
}
