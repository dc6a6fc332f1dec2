package rmlink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeParameter(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
		expect  *Parameter
	}{
		{
			name:    "uint8",
			payload: payload(0, 0, "Power").raw(3, 0, 7, 2).str("mW"),
			expect: &Parameter{ID: 1, Label: "Power", Type: ParamUint8,
				Value: &NumberValue{Value: 3, Min: 0, Max: 7, Default: 2, Unit: "mW"}},
		},
		{
			name:    "int8 sign extended",
			payload: payload(2, 1, "Trim").raw(0xFB, 0x9C, 100, 0).str(""),
			expect: &Parameter{ID: 1, Parent: 2, Label: "Trim", Type: ParamInt8,
				Value: &NumberValue{Value: -5, Min: -100, Max: 100, Default: 0}},
		},
		{
			name:    "uint16",
			payload: payload(0, 2, "Rate").u16(500).u16(50).u16(1000).u16(250).str("Hz"),
			expect: &Parameter{ID: 1, Label: "Rate", Type: ParamUint16,
				Value: &NumberValue{Value: 500, Min: 50, Max: 1000, Default: 250, Unit: "Hz"}},
		},
		{
			name:    "int16",
			payload: payload(0, 3, "Offset").u16(0xFFFF).u16(0x8000).u16(0x7FFF).u16(0).str(""),
			expect: &Parameter{ID: 1, Label: "Offset", Type: ParamInt16,
				Value: &NumberValue{Value: -1, Min: -32768, Max: 32767, Default: 0}},
		},
		{
			name: "float",
			payload: payload(0, 8, "Gain").f32(1.5).f32(0).f32(10).f32(1.0).
				raw(1).f32(0.1).str("%"),
			expect: &Parameter{ID: 1, Label: "Gain", Type: ParamFloat,
				Value: &FloatValue{Value: 1.5, Min: 0, Max: 10, Default: 1.0, Precision: 1, Step: 0.1, Unit: "%"}},
		},
		{
			name:    "selection",
			payload: payload(0, 9, "Packet Rate").str("50Hz;150Hz;250Hz").raw(1).str(""),
			expect: &Parameter{ID: 1, Label: "Packet Rate", Type: ParamSelection,
				Value: &SelectValue{Options: []string{"50Hz", "150Hz", "250Hz"}, Index: 1}},
		},
		{
			name:    "string",
			payload: payload(0, 10, "Name").raw(16).str("pocket"),
			expect: &Parameter{ID: 1, Label: "Name", Type: ParamString,
				Value: &StringValue{MaxLen: 16, Value: "pocket"}},
		},
		{
			name:    "folder hidden",
			payload: payload(0, 0x80|11, "Other Devices"),
			expect: &Parameter{ID: 1, Label: "Other Devices", Hidden: true, Type: ParamFolder,
				Value: &FolderValue{}},
		},
		{
			name:    "info",
			payload: payload(0, 12, "Version").str("3.4.3"),
			expect: &Parameter{ID: 1, Label: "Version", Type: ParamInfo,
				Value: &InfoValue{Text: "3.4.3"}},
		},
		{
			name:    "command",
			payload: payload(0, 13, "Bind").raw(0, 200).str("Binding..."),
			expect: &Parameter{ID: 1, Label: "Bind", Type: ParamCommand,
				Value: &CommandValue{Status: 0, Timeout: 200, Info: "Binding..."}},
		},
		{
			name:    "missing terminator",
			payload: payload(0, 12, "Version").raw('3', '.', '4'),
			expect: &Parameter{ID: 1, Label: "Version", Type: ParamInfo,
				Value: &InfoValue{Text: "3.4"}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := DecodeParameter(1, tc.payload)
			require.NoError(t, err)
			require.Equal(t, tc.expect, p)
		})
	}
}

func TestDecodeParameterErrors(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
		err     error
	}{
		{"empty", nil, ErrShortBuffer},
		{"prefix only", []byte{0, 0}, ErrShortBuffer},
		{"uint8 truncated", payload(0, 0, "Power").raw(3, 0), ErrShortBuffer},
		{"label unterminated", []byte{0, 0, 'P', 'o'}, ErrShortBuffer},
		{"uint16 truncated", payload(0, 2, "Rate").u16(1).u16(2), ErrShortBuffer},
		{"float truncated", payload(0, 8, "Gain").f32(1), ErrShortBuffer},
		{"selection without value", payload(0, 9, "Rate").str("a;b"), ErrShortBuffer},
		{"command truncated", payload(0, 13, "Bind").raw(1), ErrShortBuffer},
		{"unknown type", payload(0, 0x7f, "What"), &UnknownTypeError{Type: 0x7f}},
		{"unknown hidden type", payload(0, 0x85, "What"), &UnknownTypeError{Type: 5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := DecodeParameter(1, tc.payload)
			require.Nil(t, p)
			require.Equal(t, tc.err, err)
		})
	}
}

func TestSelectValueSelected(t *testing.T) {
	v := &SelectValue{Options: []string{"Off", "On"}, Index: 1}
	require.Equal(t, "On", v.Selected())
	v.Index = 5
	require.Empty(t, v.Selected())
}
