package rmlink

import (
	"reflect"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// RecordKind identifies the decoded record type.
type RecordKind int

// Record kinds.
const (
	RecordDeviceInfo RecordKind = iota
	RecordChannels
	RecordParameter
)

// String implements fmt.Stringer.
func (k RecordKind) String() string {
	switch k {
	case RecordDeviceInfo:
		return "info"
	case RecordChannels:
		return "channels"
	case RecordParameter:
		return "param"
	}
	return "unknown"
}

// Record is a decoded inbound frame: *DeviceInfo, *ChannelFrame or *Parameter.
type Record interface {
	RecordKind() RecordKind
}

// Observer receives decoding statistics from a Session.
type Observer interface {
	// ObserveRecord is called for every record emitted.
	ObserveRecord(kind RecordKind)
	// ObserveScan is called after each extended scan pass.
	ObserveScan(r ScanResult)
	// ObserveFailure is called for frames or parameters failing to decode.
	ObserveFailure(kind RecordKind, err error)
	// ObserveOverflow is called when the receive buffer is dropped.
	ObserveOverflow(dropped int)
}

// DefaultMaxBuffer is the default receive buffer cap.
const DefaultMaxBuffer = 8192

type frameKind int

const (
	frameNone frameKind = iota
	frameInfo
	frameChannels
	frameExtended
)

// Session decodes an inbound byte stream from one device.
//
// Feed may be called with arbitrarily fragmented input. Complete frames are
// decoded and the trailing incomplete frame is kept for the next call.
// ELRS chunks are kept for the lifetime of the session and parameters are
// decoded again every time one of their chunks arrives.
type Session struct {
	ID        string
	VerifyCRC bool
	MaxBuffer int
	Observer  Observer

	lock    sync.Mutex
	buf     []byte
	pending frameKind
	chunks  *ChunkBuffer
	params  map[byte]*Parameter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithVerifyCRC enables checksum verification of channel frames and sub-frames.
func WithVerifyCRC(en bool) SessionOption {
	return func(s *Session) { s.VerifyCRC = en }
}

// WithObserver installs an Observer.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) { s.Observer = o }
}

// WithMaxBuffer sets the receive buffer cap. Non-positive means no cap.
func WithMaxBuffer(n int) SessionOption {
	return func(s *Session) { s.MaxBuffer = n }
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(s *Session) { s.ID = id }
}

// NewSession creates a Session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		MaxBuffer: DefaultMaxBuffer,
		chunks:    NewChunkBuffer(),
		params:    make(map[byte]*Parameter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feed appends a chunk of inbound bytes and returns records decoded from
// every complete frame. A retained tail already over MaxBuffer is dropped
// before the chunk is appended.
func (s *Session) Feed(chunk []byte) []Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.MaxBuffer > 0 && len(s.buf) > s.MaxBuffer {
		glog.Warningf("session %s: receive buffer overflow, dropping %d bytes", s.ID, len(s.buf))
		s.dropLocked()
	}
	s.buf = append(s.buf, chunk...)
	return s.decodeLocked(false)
}

// Flush decodes what can be decoded from an incomplete tail and drops the
// rest. It is called when the stream has been idle.
func (s *Session) Flush() []Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	recs := s.decodeLocked(true)
	if len(s.buf) > 0 {
		glog.V(2).Infof("session %s: drop %d incomplete bytes", s.ID, len(s.buf))
		s.buf, s.pending = s.buf[:0], frameNone
	}
	return recs
}

// Buffered returns the number of bytes waiting for more input.
func (s *Session) Buffered() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.buf)
}

// Reset clears the receive buffer, chunks and decoded parameters.
func (s *Session) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.buf, s.pending = nil, frameNone
	s.chunks.Reset()
	s.params = make(map[byte]*Parameter)
}

// ResetParameters clears chunks and decoded parameters only.
func (s *Session) ResetParameters() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.chunks.Reset()
	s.params = make(map[byte]*Parameter)
}

// Parameters returns the latest decoded parameters in ascending ID order.
func (s *Session) Parameters() []*Parameter {
	s.lock.Lock()
	defer s.lock.Unlock()
	ids := make([]byte, 0, len(s.params))
	for id := range s.params {
		ids = append(ids, id)
	}
	sortBytes(ids)
	params := make([]*Parameter, len(ids))
	for n, id := range ids {
		params[n] = s.params[id]
	}
	return params
}

// Parameter returns the latest decoded parameter with id.
func (s *Session) Parameter(id byte) (*Parameter, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	p, ok := s.params[id]
	return p, ok
}

func (s *Session) dropLocked() {
	if s.Observer != nil {
		s.Observer.ObserveOverflow(len(s.buf))
	}
	s.buf, s.pending = s.buf[:0], frameNone
}

func (s *Session) classify() frameKind {
	if s.pending != frameNone {
		return s.pending
	}
	switch s.buf[0] {
	case DeviceInfoTag:
		return frameInfo
	case ChannelsTag:
		return frameChannels
	}
	return frameExtended
}

func (s *Session) decodeLocked(flush bool) (recs []Record) {
	for len(s.buf) > 0 {
		kind := s.classify()
		var consumed int
		switch kind {
		case frameInfo:
			size := DeviceInfoFrameLen
			if len(s.buf) < size {
				if !flush || len(s.buf) < MinDeviceInfoLen {
					s.pending = kind
					return
				}
				size = len(s.buf)
			}
			info, err := DecodeDeviceInfo(s.buf[:size])
			recs = s.emit(recs, kind, info, err)
			consumed = size
		case frameChannels:
			size := channelsFrameLen(s.buf)
			if size == 0 || len(s.buf) < size {
				s.pending = kind
				return
			}
			decode := DecodeChannels
			if s.VerifyCRC {
				decode = DecodeChannelsChecked
			}
			f, err := decode(s.buf[:size])
			recs = s.emit(recs, kind, f, err)
			consumed = size
		case frameExtended:
			r := scan(s.buf, s.chunks, ScanOptions{VerifyCRC: s.VerifyCRC}, s.pending != frameExtended)
			if s.Observer != nil {
				s.Observer.ObserveScan(r)
			}
			recs = append(recs, s.decodeParamsLocked(r.Touched)...)
			if r.Consumed < len(s.buf) {
				s.shift(r.Consumed)
				s.pending = kind
				return
			}
			consumed = r.Consumed
		}
		s.shift(consumed)
		s.pending = frameNone
	}
	return
}

func (s *Session) shift(n int) {
	rest := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:rest]
}

func (s *Session) emit(recs []Record, kind frameKind, rec Record, err error) []Record {
	if err != nil {
		rk := RecordDeviceInfo
		if kind == frameChannels {
			rk = RecordChannels
		}
		glog.V(2).Infof("session %s: drop %s frame: %v", s.ID, rk, err)
		if s.Observer != nil {
			s.Observer.ObserveFailure(rk, err)
		}
		return recs
	}
	if s.Observer != nil {
		s.Observer.ObserveRecord(rec.RecordKind())
	}
	return append(recs, rec)
}

func (s *Session) decodeParamsLocked(ids []byte) (recs []Record) {
	params, failures := decodeIDs(s.chunks, ids)
	for _, f := range failures {
		glog.V(2).Infof("session %s: %v", s.ID, f)
		if s.Observer != nil {
			s.Observer.ObserveFailure(RecordParameter, f)
		}
	}
	for _, p := range params {
		if prev, ok := s.params[p.ID]; ok && reflect.DeepEqual(prev, p) {
			continue
		}
		s.params[p.ID] = p
		if s.Observer != nil {
			s.Observer.ObserveRecord(RecordParameter)
		}
		recs = append(recs, p)
	}
	return
}
