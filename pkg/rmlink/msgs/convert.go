package msgs

import (
	fx "github.com/robotalks/rmlink/pkg/framework"
	"github.com/robotalks/rmlink/pkg/rmlink"
)

// FromRecord converts a decoded record into its event message.
// It returns nil for unknown records.
func FromRecord(rec rmlink.Record) fx.Message {
	switch r := rec.(type) {
	case *rmlink.DeviceInfo:
		return FromDeviceInfo(r)
	case *rmlink.ChannelFrame:
		return FromChannels(r)
	case *rmlink.Parameter:
		return FromParameter(r)
	}
	return nil
}

// FromDeviceInfo converts a DeviceInfo.
func FromDeviceInfo(info *rmlink.DeviceInfo) *DeviceInfo {
	return &DeviceInfo{
		Serial:         info.Serial,
		ElrsFirmware:   info.ElrsFirmware,
		DeviceFirmware: info.DeviceFirmware,
		ElrsName:       info.ElrsName,
		Company:        info.Company,
		DeviceName:     info.DeviceName,
		Volume:         uint32(info.Volume),
		ChannelCount:   uint32(info.ChannelCount),
	}
}

// FromChannels converts a ChannelFrame.
func FromChannels(f *rmlink.ChannelFrame) *Channels {
	m := &Channels{Values: make([]uint32, f.Count)}
	for n, v := range f.Values() {
		m.Values[n] = uint32(v)
	}
	return m
}

// FromParameter converts a Parameter.
func FromParameter(p *rmlink.Parameter) *Parameter {
	m := &Parameter{
		Id:     uint32(p.ID),
		Parent: uint32(p.Parent),
		Label:  p.Label,
		Hidden: p.Hidden,
		Type:   uint32(p.Type),
	}
	switch v := p.Value.(type) {
	case *rmlink.NumberValue:
		m.Number = &NumberField{Value: v.Value, Min: v.Min, Max: v.Max, Default: v.Default, Unit: v.Unit}
	case *rmlink.FloatValue:
		m.Float = &FloatField{
			Value: v.Value, Min: v.Min, Max: v.Max, Default: v.Default,
			Precision: uint32(v.Precision), Step: v.Step, Unit: v.Unit,
		}
	case *rmlink.SelectValue:
		m.Select = &SelectField{Options: v.Options, Index: uint32(v.Index), Unit: v.Unit}
	case *rmlink.StringValue:
		m.Text = &TextField{Value: v.Value, MaxLen: uint32(v.MaxLen)}
	case *rmlink.InfoValue:
		m.Text = &TextField{Value: v.Text}
	case *rmlink.CommandValue:
		m.Command = &CommandField{Status: uint32(v.Status), Timeout: uint32(v.Timeout), Info: v.Info}
	}
	return m
}

// ElrsSide converts the wire side value.
func (m *ElrsParamsQuery) ElrsSide() rmlink.ElrsSide {
	if m.Side == 1 {
		return rmlink.ElrsRx
	}
	return rmlink.ElrsTx
}
