package rmlink

// Channel frame layout.
const (
	ChannelsTag       byte = 0x22
	NumChannels            = 10
	ChannelDataOffset      = 8
	minChannelsLen         = 4
)

// ChannelFrame holds one channel telemetry sample.
type ChannelFrame struct {
	Channels [NumChannels]uint16 `json:"channels"`
	// Count is the number of channels actually present in the frame.
	Count int `json:"count"`
}

// RecordKind implements Record.
func (f *ChannelFrame) RecordKind() RecordKind { return RecordChannels }

// Values returns the filled channels.
func (f *ChannelFrame) Values() []uint16 {
	return f.Channels[:f.Count]
}

// channelsFrameLen returns the total frame size declared by the header,
// or 0 if the header is not complete.
func channelsFrameLen(buf []byte) int {
	if len(buf) < 2 {
		return 0
	}
	n := int(buf[1]) + 2
	if n < minChannelsLen {
		n = minChannelsLen
	}
	return n
}

// DecodeChannels decodes a channel telemetry frame.
func DecodeChannels(frame []byte) (*ChannelFrame, error) {
	if len(frame) < minChannelsLen || len(frame) < int(frame[1])+2 {
		return nil, ErrShortBuffer
	}
	f := &ChannelFrame{}
	for i := 0; i < NumChannels; i++ {
		off := ChannelDataOffset + i*2
		if off+1 >= len(frame) {
			break
		}
		f.Channels[i] = uint16(frame[off]) | uint16(frame[off+1])<<8
		f.Count++
	}
	return f, nil
}

// DecodeChannelsChecked decodes a channel frame after verifying its CRC.
// The CRC byte follows the declared length and covers the bytes from
// offset 2 up to it.
func DecodeChannelsChecked(frame []byte) (*ChannelFrame, error) {
	if len(frame) < minChannelsLen || len(frame) < int(frame[1])+2 {
		return nil, ErrShortBuffer
	}
	n := int(frame[1])
	if n < 1 {
		return nil, ErrShortBuffer
	}
	if frame[n+1] != ChecksumOf(frame[2:n+1]) {
		return nil, ErrChecksum
	}
	return DecodeChannels(frame)
}
