package rmlink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	buf := concat(
		[]byte{ExtendedHeader},
		paramChunk(5, 0, 1, 2),
		subFrame(SubFramePing, 0xEE, 0xEA),
		paramChunk(3, 0, 9),
		paramChunk(5, 1, 3),
	)
	chunks := NewChunkBuffer()
	r := Scan(buf, chunks, ScanOptions{})
	require.Equal(t, len(buf), r.Consumed)
	require.Equal(t, []byte{3, 5}, r.Touched)
	require.Equal(t, 3, r.Chunks)
	require.Equal(t, 1, r.Unknown)
	require.Equal(t, []byte{3, 5}, chunks.IDs())
	require.Equal(t, []byte{1, 2, 3}, chunks.Assemble(5))
	require.Equal(t, []byte{9}, chunks.Assemble(3))
}

func TestScanIncomplete(t *testing.T) {
	complete := paramChunk(1, 0, 'a', 'b')
	next := paramChunk(2, 0, 'c', 'd')
	for cut := 1; cut < len(next); cut++ {
		buf := concat(complete, next[:cut])
		chunks := NewChunkBuffer()
		r := Scan(buf, chunks, ScanOptions{})
		require.Equalf(t, len(complete), r.Consumed, "cut %d", cut)
		require.Equal(t, []byte{1}, chunks.IDs())
	}
}

func TestScanZeroLength(t *testing.T) {
	// the stray byte is followed by a sub-frame addressed 0x00 which reads
	// as a zero length at the stray byte
	chunk := paramChunk(4, 0, 7)
	chunk[0] = 0x00
	buf := concat([]byte{0xC8}, chunk)
	chunks := NewChunkBuffer()
	r := Scan(buf, chunks, ScanOptions{})
	require.Equal(t, len(buf), r.Consumed)
	require.Equal(t, 1, r.Skipped)
	require.Equal(t, []byte{7}, chunks.Assemble(4))
}

func TestScanEmptyAndMalformedChunks(t *testing.T) {
	short := []byte{testAddr, 3, SubFrameParamChunk, 0xEA, 0xEE}
	buf := concat(paramChunk(4, 0), short, paramChunk(6, 0, 1))
	chunks := NewChunkBuffer()
	r := Scan(buf, chunks, ScanOptions{})
	require.Equal(t, len(buf), r.Consumed)
	require.Equal(t, 1, r.Malformed)
	require.Equal(t, []byte{6}, chunks.IDs())
}

func TestScanVerifyCRC(t *testing.T) {
	bad := paramChunk(2, 0, 5)
	bad[len(bad)-1] ^= 0xff
	buf := concat(bad, paramChunk(3, 0, 6))

	chunks := NewChunkBuffer()
	r := Scan(buf, chunks, ScanOptions{VerifyCRC: true})
	require.Equal(t, 1, r.BadCRC)
	require.Equal(t, []byte{3}, chunks.IDs())

	chunks = NewChunkBuffer()
	r = Scan(buf, chunks, ScanOptions{})
	require.Zero(t, r.BadCRC)
	require.Equal(t, []byte{2, 3}, chunks.IDs())
}

func TestScanUnknownTypesDoNotStopScan(t *testing.T) {
	buf := concat(
		subFrame(0x7F, 1, 2, 3),
		subFrame(0x3A),
		paramChunk(8, 0, 1),
	)
	chunks := NewChunkBuffer()
	r := Scan(buf, chunks, ScanOptions{})
	require.Equal(t, 2, r.Unknown)
	require.Equal(t, []byte{8}, chunks.IDs())
}
