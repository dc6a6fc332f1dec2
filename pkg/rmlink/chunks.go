package rmlink

import "sort"

// ChunkBuffer accumulates parameter chunks keyed by parameter ID and chunk index.
// It is not safe for concurrent use.
type ChunkBuffer struct {
	params map[byte]map[byte][]byte
}

// NewChunkBuffer creates an empty ChunkBuffer.
func NewChunkBuffer() *ChunkBuffer {
	return &ChunkBuffer{params: make(map[byte]map[byte][]byte)}
}

// Put stores a chunk, replacing any chunk with the same ID and index.
// The data is copied.
func (b *ChunkBuffer) Put(id, index byte, data []byte) {
	if b.params == nil {
		b.params = make(map[byte]map[byte][]byte)
	}
	chunks := b.params[id]
	if chunks == nil {
		chunks = make(map[byte][]byte)
		b.params[id] = chunks
	}
	chunks[index] = append([]byte(nil), data...)
}

// IDs returns the parameter IDs holding chunks in ascending order.
func (b *ChunkBuffer) IDs() []byte {
	ids := make([]byte, 0, len(b.params))
	for id := range b.params {
		ids = append(ids, id)
	}
	sortBytes(ids)
	return ids
}

// Len returns the number of parameters holding chunks.
func (b *ChunkBuffer) Len() int {
	return len(b.params)
}

// Chunks returns the number of chunks stored for a parameter.
func (b *ChunkBuffer) Chunks(id byte) int {
	return len(b.params[id])
}

// Assemble concatenates the chunks of a parameter in ascending index order.
// It returns nil if no chunk is stored for id.
func (b *ChunkBuffer) Assemble(id byte) []byte {
	chunks := b.params[id]
	if len(chunks) == 0 {
		return nil
	}
	indices := make([]byte, 0, len(chunks))
	size := 0
	for idx, data := range chunks {
		indices = append(indices, idx)
		size += len(data)
	}
	sortBytes(indices)
	payload := make([]byte, 0, size)
	for _, idx := range indices {
		payload = append(payload, chunks[idx]...)
	}
	return payload
}

// Clear drops all chunks of a parameter.
func (b *ChunkBuffer) Clear(id byte) {
	delete(b.params, id)
}

// Reset drops everything.
func (b *ChunkBuffer) Reset() {
	b.params = make(map[byte]map[byte][]byte)
}

func sortBytes(b []byte) {
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
}

// Reassemble decodes every parameter in the buffer in ascending ID order.
// Parameters failing to decode are reported and skipped. The buffer is left
// untouched so decoding can be retried after more chunks arrive.
func Reassemble(chunks *ChunkBuffer) ([]*Parameter, []DecodeFailure) {
	return decodeIDs(chunks, chunks.IDs())
}

func decodeIDs(chunks *ChunkBuffer, ids []byte) (params []*Parameter, failures []DecodeFailure) {
	for _, id := range ids {
		p, err := DecodeParameter(id, chunks.Assemble(id))
		if err != nil {
			failures = append(failures, DecodeFailure{ID: id, Err: err})
			continue
		}
		params = append(params, p)
	}
	return
}

// ParseElrsPacket scans one complete extended buffer and decodes every
// parameter it carries.
func ParseElrsPacket(packet []byte) ([]*Parameter, []DecodeFailure) {
	chunks := NewChunkBuffer()
	Scan(packet, chunks, ScanOptions{})
	return Reassemble(chunks)
}
