package rmlink

import "github.com/golang/glog"

// Extended frame constants.
const (
	ExtendedHeader byte = 0x56

	SubFrameParamChunk byte = 0x2B
	SubFramePing       byte = 0x29

	// type, src, dst, param ID, chunk index, crc
	minParamChunkLen = 6
)

// ScanOptions tunes Scan.
type ScanOptions struct {
	// VerifyCRC drops sub-frames whose trailing byte is not the checksum
	// of type and payload.
	VerifyCRC bool
}

// ScanResult reports what a scan pass did.
type ScanResult struct {
	// Consumed is the number of leading bytes fully processed. The rest
	// is an incomplete sub-frame to be retried with more data.
	Consumed int
	// Touched lists parameter IDs receiving chunks, ascending, no duplicates.
	Touched []byte
	// Chunks is the number of parameter chunks stored.
	Chunks int
	// Skipped is the number of stray bytes dropped (zero length sub-frames).
	Skipped int
	// Unknown is the number of sub-frames of a type not handled.
	Unknown int
	// Malformed is the number of parameter chunks too short to carry their header.
	Malformed int
	// BadCRC is the number of sub-frames dropped on checksum mismatch.
	BadCRC int
}

func (r *ScanResult) touch(id byte) {
	for n, t := range r.Touched {
		if t == id {
			return
		}
		if t > id {
			r.Touched = append(r.Touched, 0)
			copy(r.Touched[n+1:], r.Touched[n:])
			r.Touched[n] = id
			return
		}
	}
	r.Touched = append(r.Touched, id)
}

// Scan walks an extended buffer and stores parameter chunks into chunks.
// A leading ExtendedHeader byte is skipped.
//
// Each sub-frame is [addr][len][type][payload...][crc] where len counts
// type through crc. Sub-frames of other types than parameter chunk are
// skipped.
func Scan(buf []byte, chunks *ChunkBuffer, opts ScanOptions) ScanResult {
	return scan(buf, chunks, opts, true)
}

func scan(buf []byte, chunks *ChunkBuffer, opts ScanOptions, header bool) (r ScanResult) {
	off := 0
	if header && len(buf) > 0 && buf[0] == ExtendedHeader {
		off = 1
	}
	for off+2 < len(buf) {
		size := int(buf[off+1])
		if size == 0 {
			r.Skipped++
			off++
			continue
		}
		total := 2 + size
		if off+total > len(buf) {
			break
		}
		sub := buf[off : off+total]
		off += total

		typ := sub[2]
		if opts.VerifyCRC && sub[total-1] != ChecksumOf(sub[2:total-1]) {
			glog.V(2).Infof("drop sub-frame type %02x: bad crc", typ)
			r.BadCRC++
			continue
		}
		switch typ {
		case SubFrameParamChunk:
			// [addr][len][type][src][dst][id][idx][data...][crc]
			if size < minParamChunkLen {
				r.Malformed++
				continue
			}
			id, idx := sub[5], sub[6]
			if data := sub[7 : total-1]; len(data) > 0 {
				chunks.Put(id, idx, data)
				r.Chunks++
				r.touch(id)
			}
		default:
			glog.V(2).Infof("skip sub-frame type %02x len %d", typ, size)
			r.Unknown++
		}
	}
	r.Consumed = off
	return
}
