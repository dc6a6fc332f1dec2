package rmlink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		n      int
		expect byte
	}{
		{"empty", nil, 0, crc8Table[0]},
		{"zero length", []byte{1, 2, 3}, 0, crc8Table[0]},
		{"single", []byte{0x01}, 1, 0xD5},
		{"check string", []byte("123456789"), 9, 0xBC},
		{"prefix", []byte("123456789xyz"), 9, 0xBC},
		{"length clamped", []byte("123456789"), 100, 0xBC},
		{"negative length", []byte{1, 2}, -1, crc8Table[0]},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Checksum(tc.data, tc.n))
			require.Equal(t, tc.expect, Checksum(tc.data, tc.n))
		})
	}
}

func TestChecksumTable(t *testing.T) {
	// the table is CRC-8 with polynomial 0xD5
	for i := 0; i < 256; i++ {
		c := byte(i)
		for bit := 0; bit < 8; bit++ {
			if c&0x80 != 0 {
				c = c<<1 ^ 0xD5
			} else {
				c <<= 1
			}
		}
		require.Equalf(t, c, crc8Table[i], "entry %d", i)
	}
}
