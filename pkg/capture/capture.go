// Package capture records link traffic to YAML files and replays it
// through a session.
package capture

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/rmlink/pkg/rmlink"
)

// Direction of a captured chunk.
type Direction string

// Directions.
const (
	RX Direction = "rx"
	TX Direction = "tx"
)

// HexBytes is rendered as space separated hex in YAML.
type HexBytes []byte

// MarshalYAML implements yaml.Marshaler.
func (b HexBytes) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("% x", []byte(b)), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *HexBytes) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	data, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*b = data
	return nil
}

// Chunk is one read or write on the link.
type Chunk struct {
	Offset time.Duration `yaml:"offset"`
	Dir    Direction     `yaml:"dir"`
	Data   HexBytes      `yaml:"data"`
}

// Capture is a recorded link session.
type Capture struct {
	Device  string    `yaml:"device,omitempty"`
	Started time.Time `yaml:"started,omitempty"`
	Chunks  []Chunk   `yaml:"chunks"`
}

// Read decodes a capture.
func Read(r io.Reader) (*Capture, error) {
	var c Capture
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	for n, chunk := range c.Chunks {
		if chunk.Dir != RX && chunk.Dir != TX {
			return nil, fmt.Errorf("chunk %d: invalid direction %q", n, chunk.Dir)
		}
	}
	return &c, nil
}

// Load reads a capture file.
func Load(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Write encodes the capture.
func (c *Capture) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes the capture file.
func (c *Capture) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Received returns inbound chunks in order.
func (c *Capture) Received() [][]byte {
	var chunks [][]byte
	for _, chunk := range c.Chunks {
		if chunk.Dir == RX {
			chunks = append(chunks, chunk.Data)
		}
	}
	return chunks
}

// Replay feeds inbound chunks into s and returns every record decoded,
// including what the final flush yields.
func (c *Capture) Replay(s *rmlink.Session) []rmlink.Record {
	var recs []rmlink.Record
	for _, chunk := range c.Received() {
		recs = append(recs, s.Feed(chunk)...)
	}
	return append(recs, s.Flush()...)
}

// Recorder wraps a stream and records all traffic.
type Recorder struct {
	io.ReadWriter

	lock    sync.Mutex
	capture Capture
	now     func() time.Time
}

// NewRecorder starts recording rw.
func NewRecorder(rw io.ReadWriter, device string) *Recorder {
	r := &Recorder{ReadWriter: rw, now: time.Now}
	r.capture.Device = device
	r.capture.Started = r.now()
	return r
}

// Read implements io.Reader.
func (r *Recorder) Read(b []byte) (int, error) {
	n, err := r.ReadWriter.Read(b)
	if n > 0 {
		r.add(RX, b[:n])
	}
	return n, err
}

// Write implements io.Writer.
func (r *Recorder) Write(b []byte) (int, error) {
	n, err := r.ReadWriter.Write(b)
	if n > 0 {
		r.add(TX, b[:n])
	}
	return n, err
}

// Close closes the wrapped stream if it is an io.Closer.
func (r *Recorder) Close() error {
	if c, ok := r.ReadWriter.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Recorder) add(dir Direction, data []byte) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.capture.Chunks = append(r.capture.Chunks, Chunk{
		Offset: r.now().Sub(r.capture.Started),
		Dir:    dir,
		Data:   append(HexBytes(nil), data...),
	})
}

// Capture returns a snapshot of what has been recorded.
func (r *Recorder) Capture() *Capture {
	r.lock.Lock()
	defer r.lock.Unlock()
	c := r.capture
	c.Chunks = append([]Chunk(nil), r.capture.Chunks...)
	return &c
}
