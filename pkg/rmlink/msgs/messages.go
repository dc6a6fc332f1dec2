package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/rmlink/pkg/framework"
)

// CommandOK is the generic reply of a successful command.
type CommandOK struct {
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the reply of a failed command.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// DeviceInfo is the event carrying a decoded device-info frame.
type DeviceInfo struct {
	Serial         string `protobuf:"bytes,1,opt,name=serial,proto3" json:"serial,omitempty"`
	ElrsFirmware   string `protobuf:"bytes,2,opt,name=elrs_firmware,proto3" json:"elrs_firmware,omitempty"`
	DeviceFirmware string `protobuf:"bytes,3,opt,name=device_firmware,proto3" json:"device_firmware,omitempty"`
	ElrsName       string `protobuf:"bytes,4,opt,name=elrs_name,proto3" json:"elrs_name,omitempty"`
	Company        string `protobuf:"bytes,5,opt,name=company,proto3" json:"company,omitempty"`
	DeviceName     string `protobuf:"bytes,6,opt,name=device_name,proto3" json:"device_name,omitempty"`
	Volume         uint32 `protobuf:"varint,7,opt,name=volume,proto3" json:"volume,omitempty"`
	ChannelCount   uint32 `protobuf:"varint,8,opt,name=channel_count,proto3" json:"channel_count,omitempty"`
}

// NewMessage implements Message.
func (m *DeviceInfo) NewMessage() fx.Message { return &DeviceInfo{} }

// TypeID implements SerializableMessage.
func (m *DeviceInfo) TypeID() uint32 { return DeviceInfoEventTypeID }

// Serializable implements SerializableMessage.
func (m *DeviceInfo) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DeviceInfo) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DeviceInfo) Reset() { *m = DeviceInfo{} }

// String implements proto.Message.
func (m *DeviceInfo) String() string { return proto.CompactTextString(m) }

// Channels is the event carrying one channel telemetry sample.
type Channels struct {
	Values []uint32 `protobuf:"varint,1,rep,packed,name=values,proto3" json:"values,omitempty"`
}

// NewMessage implements Message.
func (m *Channels) NewMessage() fx.Message { return &Channels{} }

// TypeID implements SerializableMessage.
func (m *Channels) TypeID() uint32 { return ChannelsEventTypeID }

// Serializable implements SerializableMessage.
func (m *Channels) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Channels) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Channels) Reset() { *m = Channels{} }

// String implements proto.Message.
func (m *Channels) String() string { return proto.CompactTextString(m) }

// Parameter is the event carrying a decoded ELRS parameter.
// Exactly one of the value fields is set according to Type, except folders
// which carry none.
type Parameter struct {
	Id      uint32        `protobuf:"varint,1,opt,name=id,proto3" json:"id"`
	Parent  uint32        `protobuf:"varint,2,opt,name=parent,proto3" json:"parent"`
	Label   string        `protobuf:"bytes,3,opt,name=label,proto3" json:"label"`
	Hidden  bool          `protobuf:"varint,4,opt,name=hidden,proto3" json:"hidden,omitempty"`
	Type    uint32        `protobuf:"varint,5,opt,name=type,proto3" json:"type"`
	Number  *NumberField  `protobuf:"bytes,6,opt,name=number,proto3" json:"number,omitempty"`
	Float   *FloatField   `protobuf:"bytes,7,opt,name=float,proto3" json:"float,omitempty"`
	Select  *SelectField  `protobuf:"bytes,8,opt,name=select,proto3" json:"select,omitempty"`
	Text    *TextField    `protobuf:"bytes,9,opt,name=text,proto3" json:"text,omitempty"`
	Command *CommandField `protobuf:"bytes,10,opt,name=command,proto3" json:"command,omitempty"`
}

// NumberField holds integer parameter values.
type NumberField struct {
	Value   int32  `protobuf:"varint,1,opt,name=value,proto3" json:"value"`
	Min     int32  `protobuf:"varint,2,opt,name=min,proto3" json:"min"`
	Max     int32  `protobuf:"varint,3,opt,name=max,proto3" json:"max"`
	Default int32  `protobuf:"varint,4,opt,name=default,proto3" json:"default"`
	Unit    string `protobuf:"bytes,5,opt,name=unit,proto3" json:"unit,omitempty"`
}

// FloatField holds float parameter values.
type FloatField struct {
	Value     float32 `protobuf:"fixed32,1,opt,name=value,proto3" json:"value"`
	Min       float32 `protobuf:"fixed32,2,opt,name=min,proto3" json:"min"`
	Max       float32 `protobuf:"fixed32,3,opt,name=max,proto3" json:"max"`
	Default   float32 `protobuf:"fixed32,4,opt,name=default,proto3" json:"default"`
	Precision uint32  `protobuf:"varint,5,opt,name=precision,proto3" json:"precision"`
	Step      float32 `protobuf:"fixed32,6,opt,name=step,proto3" json:"step"`
	Unit      string  `protobuf:"bytes,7,opt,name=unit,proto3" json:"unit,omitempty"`
}

// SelectField holds selection parameter values.
type SelectField struct {
	Options []string `protobuf:"bytes,1,rep,name=options,proto3" json:"options"`
	Index   uint32   `protobuf:"varint,2,opt,name=index,proto3" json:"index"`
	Unit    string   `protobuf:"bytes,3,opt,name=unit,proto3" json:"unit,omitempty"`
}

// TextField holds string and info parameter values.
type TextField struct {
	Value  string `protobuf:"bytes,1,opt,name=value,proto3" json:"value"`
	MaxLen uint32 `protobuf:"varint,2,opt,name=max_len,proto3" json:"max_len,omitempty"`
}

// CommandField holds command parameter values.
type CommandField struct {
	Status  uint32 `protobuf:"varint,1,opt,name=status,proto3" json:"status"`
	Timeout uint32 `protobuf:"varint,2,opt,name=timeout,proto3" json:"timeout"`
	Info    string `protobuf:"bytes,3,opt,name=info,proto3" json:"info,omitempty"`
}

// NewMessage implements Message.
func (m *Parameter) NewMessage() fx.Message { return &Parameter{} }

// TypeID implements SerializableMessage.
func (m *Parameter) TypeID() uint32 { return ParameterEventTypeID }

// Serializable implements SerializableMessage.
func (m *Parameter) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Parameter) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Parameter) Reset() { *m = Parameter{} }

// String implements proto.Message.
func (m *Parameter) String() string { return proto.CompactTextString(m) }

// DeviceInfoQuery asks for a device-info frame.
type DeviceInfoQuery struct {
}

// NewMessage implements Message.
func (m *DeviceInfoQuery) NewMessage() fx.Message { return &DeviceInfoQuery{} }

// TypeID implements SerializableMessage.
func (m *DeviceInfoQuery) TypeID() uint32 { return DeviceInfoQueryTypeID }

// Serializable implements SerializableMessage.
func (m *DeviceInfoQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DeviceInfoQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DeviceInfoQuery) Reset() { *m = DeviceInfoQuery{} }

// String implements proto.Message.
func (m *DeviceInfoQuery) String() string { return proto.CompactTextString(m) }

// SetVolume sets the buzzer volume.
type SetVolume struct {
	Level    int32 `protobuf:"varint,1,opt,name=level,proto3" json:"level"`
	Debounce bool  `protobuf:"varint,2,opt,name=debounce,proto3" json:"debounce,omitempty"`
}

// NewMessage implements Message.
func (m *SetVolume) NewMessage() fx.Message { return &SetVolume{} }

// TypeID implements SerializableMessage.
func (m *SetVolume) TypeID() uint32 { return SetVolumeTypeID }

// Serializable implements SerializableMessage.
func (m *SetVolume) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SetVolume) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SetVolume) Reset() { *m = SetVolume{} }

// String implements proto.Message.
func (m *SetVolume) String() string { return proto.CompactTextString(m) }

// ElrsParamsQuery asks for the ELRS parameter dump.
type ElrsParamsQuery struct {
	// Side is 0 for the transmitter, 1 for the receiver.
	Side uint32 `protobuf:"varint,1,opt,name=side,proto3" json:"side,omitempty"`
}

// NewMessage implements Message.
func (m *ElrsParamsQuery) NewMessage() fx.Message { return &ElrsParamsQuery{} }

// TypeID implements SerializableMessage.
func (m *ElrsParamsQuery) TypeID() uint32 { return ElrsParamsQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ElrsParamsQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ElrsParamsQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ElrsParamsQuery) Reset() { *m = ElrsParamsQuery{} }

// String implements proto.Message.
func (m *ElrsParamsQuery) String() string { return proto.CompactTextString(m) }

// ResetSession drops buffered bytes, chunks and parameters.
type ResetSession struct {
}

// NewMessage implements Message.
func (m *ResetSession) NewMessage() fx.Message { return &ResetSession{} }

// TypeID implements SerializableMessage.
func (m *ResetSession) TypeID() uint32 { return ResetSessionTypeID }

// Serializable implements SerializableMessage.
func (m *ResetSession) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ResetSession) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ResetSession) Reset() { *m = ResetSession{} }

// String implements proto.Message.
func (m *ResetSession) String() string { return proto.CompactTextString(m) }

// ChannelStream starts or stops channel polling.
type ChannelStream struct {
	Enable     bool   `protobuf:"varint,1,opt,name=enable,proto3" json:"enable,omitempty"`
	IntervalMs uint32 `protobuf:"varint,2,opt,name=interval_ms,proto3" json:"interval_ms,omitempty"`
}

// NewMessage implements Message.
func (m *ChannelStream) NewMessage() fx.Message { return &ChannelStream{} }

// TypeID implements SerializableMessage.
func (m *ChannelStream) TypeID() uint32 { return ChannelStreamTypeID }

// Serializable implements SerializableMessage.
func (m *ChannelStream) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ChannelStream) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ChannelStream) Reset() { *m = ChannelStream{} }

// String implements proto.Message.
func (m *ChannelStream) String() string { return proto.CompactTextString(m) }

// TypeIDs
const (
	CommandOKTypeID  uint32 = GroupGeneric | TypeIDMaskReply | 0x0000
	CommandErrTypeID uint32 = GroupGeneric | TypeIDMaskReply | 0x0001

	DeviceInfoEventTypeID uint32 = GroupLink | TypeIDKindEvent | 0x0000
	ChannelsEventTypeID   uint32 = GroupLink | TypeIDKindEvent | 0x0001
	ParameterEventTypeID  uint32 = GroupLink | TypeIDKindEvent | 0x0002

	DeviceInfoQueryTypeID uint32 = GroupLink | 0x0000
	SetVolumeTypeID       uint32 = GroupLink | 0x0001
	ElrsParamsQueryTypeID uint32 = GroupLink | 0x0002
	ResetSessionTypeID    uint32 = GroupLink | 0x0003
	ChannelStreamTypeID   uint32 = GroupLink | 0x0004
)
