package rmlink

import (
	"encoding/binary"
	"math"
)

const testAddr byte = 0xEA

// subFrame builds [addr][len][type][payload...][crc].
func subFrame(typ byte, payload ...byte) []byte {
	b := []byte{testAddr, byte(len(payload) + 2), typ}
	b = append(b, payload...)
	return append(b, ChecksumOf(b[2:]))
}

func paramChunk(id, idx byte, data ...byte) []byte {
	return subFrame(SubFrameParamChunk, append([]byte{0xEA, 0xEE, id, idx}, data...)...)
}

type payloadBuilder []byte

func payload(parent, tag byte, label string) payloadBuilder {
	return payloadBuilder{parent, tag}.str(label)
}

func (p payloadBuilder) str(s string) payloadBuilder {
	return append(append(p, s...), 0)
}

func (p payloadBuilder) raw(b ...byte) payloadBuilder {
	return append(p, b...)
}

func (p payloadBuilder) u16(v uint16) payloadBuilder {
	return binary.LittleEndian.AppendUint16(p, v)
}

func (p payloadBuilder) f32(v float32) payloadBuilder {
	return binary.LittleEndian.AppendUint32(p, math.Float32bits(v))
}

func concat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}
