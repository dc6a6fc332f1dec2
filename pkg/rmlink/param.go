package rmlink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// ParamType is the base type of a parameter.
type ParamType byte

// Parameter base types.
const (
	ParamUint8     ParamType = 0
	ParamInt8      ParamType = 1
	ParamUint16    ParamType = 2
	ParamInt16     ParamType = 3
	ParamFloat     ParamType = 8
	ParamSelection ParamType = 9
	ParamString    ParamType = 10
	ParamFolder    ParamType = 11
	ParamInfo      ParamType = 12
	ParamCommand   ParamType = 13

	paramHiddenBit byte = 0x80
	paramTypeMask  byte = 0x7f
)

var paramTypeNames = map[ParamType]string{
	ParamUint8:     "uint8",
	ParamInt8:      "int8",
	ParamUint16:    "uint16",
	ParamInt16:     "int16",
	ParamFloat:     "float",
	ParamSelection: "select",
	ParamString:    "string",
	ParamFolder:    "folder",
	ParamInfo:      "info",
	ParamCommand:   "command",
}

// String implements fmt.Stringer.
func (t ParamType) String() string {
	if name, ok := paramTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", byte(t))
}

// Parameter is one decoded ELRS parameter.
type Parameter struct {
	ID     byte       `json:"id"`
	Parent byte       `json:"parent"`
	Label  string     `json:"label"`
	Hidden bool       `json:"hidden,omitempty"`
	Type   ParamType  `json:"type"`
	Value  ParamValue `json:"value"`
}

// RecordKind implements Record.
func (p *Parameter) RecordKind() RecordKind { return RecordParameter }

// String implements fmt.Stringer.
func (p *Parameter) String() string {
	var hidden string
	if p.Hidden {
		hidden = " (hidden)"
	}
	return fmt.Sprintf("#%d %q [%s] parent=%d%s %v", p.ID, p.Label, p.Type, p.Parent, hidden, p.Value)
}

// ParamValue is the type specific part of a Parameter.
// The set of implementations is closed.
type ParamValue interface {
	paramValue()
}

// NumberValue holds 8 and 16 bit integer parameters.
type NumberValue struct {
	Value   int32  `json:"value"`
	Min     int32  `json:"min"`
	Max     int32  `json:"max"`
	Default int32  `json:"default"`
	Unit    string `json:"unit,omitempty"`
}

// FloatValue holds float parameters.
type FloatValue struct {
	Value     float32 `json:"value"`
	Min       float32 `json:"min"`
	Max       float32 `json:"max"`
	Default   float32 `json:"default"`
	Precision uint8   `json:"precision"`
	Step      float32 `json:"step"`
	Unit      string  `json:"unit,omitempty"`
}

// SelectValue holds selection parameters.
type SelectValue struct {
	Options []string `json:"options"`
	Index   uint8    `json:"index"`
	Unit    string   `json:"unit,omitempty"`
}

// Selected returns the selected option or an empty string if out of range.
func (v *SelectValue) Selected() string {
	if int(v.Index) < len(v.Options) {
		return v.Options[v.Index]
	}
	return ""
}

// StringValue holds string parameters.
type StringValue struct {
	MaxLen uint8  `json:"max_len"`
	Value  string `json:"value"`
}

// FolderValue marks a folder.
type FolderValue struct{}

// InfoValue holds read-only text.
type InfoValue struct {
	Text string `json:"text"`
}

// CommandValue holds command parameters.
type CommandValue struct {
	Status  uint8  `json:"status"`
	Timeout uint8  `json:"timeout"`
	Info    string `json:"info,omitempty"`
}

func (*NumberValue) paramValue()  {}
func (*FloatValue) paramValue()   {}
func (*SelectValue) paramValue()  {}
func (*StringValue) paramValue()  {}
func (*FolderValue) paramValue()  {}
func (*InfoValue) paramValue()    {}
func (*CommandValue) paramValue() {}

// fieldReader reads parameter fields with bounds checking.
type fieldReader struct {
	data []byte
	pos  int
	err  error
}

func (r *fieldReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = ErrShortBuffer
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *fieldReader) u8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *fieldReader) u16() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *fieldReader) f32() float32 {
	if b := r.take(4); b != nil {
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// text reads a NUL terminated string. A missing terminator ends the
// string at the end of the buffer.
func (r *fieldReader) text() string {
	if r.err != nil {
		return ""
	}
	if r.pos > len(r.data) {
		r.pos = len(r.data)
	}
	rest := r.data[r.pos:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		r.pos = len(r.data)
		return string(rest)
	}
	r.pos += end + 1
	return string(rest[:end])
}

// DecodeParameter decodes a reassembled parameter payload.
func DecodeParameter(id byte, payload []byte) (*Parameter, error) {
	if len(payload) < 3 {
		return nil, ErrShortBuffer
	}
	r := &fieldReader{data: payload}
	p := &Parameter{ID: id, Parent: r.u8()}
	tag := r.u8()
	p.Hidden = tag&paramHiddenBit != 0
	p.Type = ParamType(tag & paramTypeMask)
	p.Label = r.text()

	switch p.Type {
	case ParamUint8, ParamInt8:
		raw := r.take(4)
		if raw == nil {
			return nil, r.err
		}
		v := &NumberValue{}
		conv := func(b byte) int32 { return int32(b) }
		if p.Type == ParamInt8 {
			conv = func(b byte) int32 { return int32(int8(b)) }
		}
		v.Value, v.Min, v.Max, v.Default = conv(raw[0]), conv(raw[1]), conv(raw[2]), conv(raw[3])
		v.Unit = r.text()
		p.Value = v
	case ParamUint16, ParamInt16:
		raw := [4]uint16{r.u16(), r.u16(), r.u16(), r.u16()}
		if r.err != nil {
			return nil, r.err
		}
		v := &NumberValue{}
		conv := func(u uint16) int32 { return int32(u) }
		if p.Type == ParamInt16 {
			conv = func(u uint16) int32 { return int32(int16(u)) }
		}
		v.Value, v.Min, v.Max, v.Default = conv(raw[0]), conv(raw[1]), conv(raw[2]), conv(raw[3])
		v.Unit = r.text()
		p.Value = v
	case ParamFloat:
		v := &FloatValue{Value: r.f32(), Min: r.f32(), Max: r.f32(), Default: r.f32()}
		v.Precision = r.u8()
		v.Step = r.f32()
		if r.err != nil {
			return nil, r.err
		}
		v.Unit = r.text()
		p.Value = v
	case ParamSelection:
		opts := r.text()
		v := &SelectValue{Options: strings.Split(opts, ";"), Index: r.u8()}
		if r.err != nil {
			return nil, r.err
		}
		v.Unit = r.text()
		p.Value = v
	case ParamString:
		v := &StringValue{MaxLen: r.u8()}
		if r.err != nil {
			return nil, r.err
		}
		v.Value = r.text()
		p.Value = v
	case ParamFolder:
		p.Value = &FolderValue{}
	case ParamInfo:
		p.Value = &InfoValue{Text: r.text()}
	case ParamCommand:
		v := &CommandValue{Status: r.u8(), Timeout: r.u8()}
		if r.err != nil {
			return nil, r.err
		}
		v.Info = r.text()
		p.Value = v
	default:
		return nil, &UnknownTypeError{Type: byte(p.Type)}
	}
	return p, nil
}
