package rmlink

import (
	"bytes"
	"fmt"
)

// Device-info frame layout.
const (
	DeviceInfoTag      byte = 0xFF
	MinDeviceInfoLen        = 130
	DeviceInfoFrameLen      = 148

	devVolumeOffset = 2
)

var deviceTextFields = []int{20, 20, 10, 50, 20, 20}

// DeviceInfo is the decoded device-info frame.
type DeviceInfo struct {
	Serial         string `json:"serial"`
	ElrsFirmware   string `json:"elrs_firmware"`
	DeviceFirmware string `json:"device_firmware"`
	ElrsName       string `json:"elrs_name"`
	Company        string `json:"company"`
	DeviceName     string `json:"device_name"`
	Volume         uint8  `json:"volume"`
	ChannelCount   uint8  `json:"channel_count"`
}

// RecordKind implements Record.
func (i *DeviceInfo) RecordKind() RecordKind { return RecordDeviceInfo }

// String implements fmt.Stringer.
func (i *DeviceInfo) String() string {
	return fmt.Sprintf("%s (%s) serial=%s fw=%s elrs=%s/%s volume=%d channels=%d",
		i.DeviceName, i.Company, i.Serial, i.DeviceFirmware, i.ElrsName, i.ElrsFirmware,
		i.Volume, i.ChannelCount)
}

// DecodeDeviceInfo decodes a device-info frame.
// Bytes beyond the end of a frame between MinDeviceInfoLen and
// DeviceInfoFrameLen long read as NUL padding.
func DecodeDeviceInfo(frame []byte) (*DeviceInfo, error) {
	if len(frame) < MinDeviceInfoLen {
		return nil, ErrShortBuffer
	}
	info := &DeviceInfo{Volume: frame[devVolumeOffset]}
	texts := make([]string, len(deviceTextFields))
	off := devVolumeOffset + 1
	for n, size := range deviceTextFields {
		texts[n] = fixedText(frame, off, size)
		off += size
	}
	info.Serial, info.ElrsFirmware, info.DeviceFirmware = texts[0], texts[1], texts[2]
	info.ElrsName, info.Company, info.DeviceName = texts[3], texts[4], texts[5]
	off += 4
	if off < len(frame) {
		info.ChannelCount = frame[off]
	}
	return info, nil
}

func fixedText(frame []byte, off, size int) string {
	if off >= len(frame) {
		return ""
	}
	end := off + size
	if end > len(frame) {
		end = len(frame)
	}
	return string(bytes.TrimRight(frame[off:end], "\x00"))
}
