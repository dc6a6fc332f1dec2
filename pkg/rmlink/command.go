package rmlink

import "fmt"

// Command frame bytes.
const (
	cmdMagic     byte = 0xA5
	cmdDevice    byte = 0x55
	cmdInfo      byte = 0x1D
	cmdChannels  byte = 0x02
	cmdVolume    byte = 0x19
	cmdElrsTx    byte = 0x11
	cmdElrsRx    byte = 0x22
	cmdTrailerCR byte = 0x0D
	cmdTrailerLF byte = 0x0A
)

// MaxVolume is the largest volume level the device accepts.
const MaxVolume = 0xff

// ElrsSide selects which end of the radio link parameters are read from.
type ElrsSide int

// ELRS sides.
const (
	ElrsTx ElrsSide = iota
	ElrsRx
)

// String implements fmt.Stringer.
func (s ElrsSide) String() string {
	switch s {
	case ElrsTx:
		return "tx"
	case ElrsRx:
		return "rx"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// ParseElrsSide parses "tx" or "rx".
func ParseElrsSide(s string) (ElrsSide, error) {
	switch s {
	case "tx", "TX":
		return ElrsTx, nil
	case "rx", "RX":
		return ElrsRx, nil
	}
	return ElrsTx, fmt.Errorf("invalid ELRS side %q", s)
}

func frame(body ...byte) []byte {
	b := make([]byte, 0, len(body)+2)
	b = append(b, body...)
	return append(b, cmdTrailerCR, cmdTrailerLF)
}

// RequestDeviceInfo builds the frame asking for a device-info frame.
func RequestDeviceInfo() []byte {
	return frame(cmdMagic, cmdDevice, cmdInfo)
}

// RequestChannels builds the frame asking for channel telemetry.
func RequestChannels() []byte {
	return frame(cmdMagic, cmdDevice, cmdChannels)
}

// ClampVolume clamps level into [0, MaxVolume].
func ClampVolume(level int) byte {
	if level < 0 {
		return 0
	}
	if level > MaxVolume {
		return MaxVolume
	}
	return byte(level)
}

// SetVolume builds the frame setting the buzzer volume.
// Out of range levels are clamped.
func SetVolume(level int) []byte {
	return frame(cmdMagic, cmdDevice, cmdVolume, ClampVolume(level))
}

// RequestElrsParams builds the frame asking for the ELRS parameter dump.
func RequestElrsParams(side ElrsSide) []byte {
	code := cmdElrsTx
	if side == ElrsRx {
		code = cmdElrsRx
	}
	return frame(cmdMagic, code, 0x00)
}
