package mqtt

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/rmlink/pkg/framework"
	"github.com/robotalks/rmlink/pkg/rmlink"
	"github.com/robotalks/rmlink/pkg/rmlink/msgs"
)

type published struct {
	topic   string
	payload []byte
	retain  bool
}

type fakePublisher struct {
	lock sync.Mutex
	msgs []published
}

func (p *fakePublisher) Pub(topic string, payload []byte) paho.Token {
	return p.PubWith(topic, payload, 0, false)
}

func (p *fakePublisher) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.msgs = append(p.msgs, published{topic: topic, payload: payload, retain: retain})
	return &paho.DummyToken{}
}

func (p *fakePublisher) last(t *testing.T) (published, fx.Message) {
	p.lock.Lock()
	defer p.lock.Unlock()
	require.NotEmpty(t, p.msgs)
	m := p.msgs[len(p.msgs)-1]
	typed, err := msgs.DecodeTyped(m.payload)
	require.NoError(t, err)
	msg, err := typed.Decode()
	require.NoError(t, err)
	return m, msg
}

type fakeDevice struct {
	writes chan []byte
}

func (d *fakeDevice) Read(b []byte) (int, error) {
	return 0, io.EOF
}

func (d *fakeDevice) Write(b []byte) (int, error) {
	d.writes <- append([]byte(nil), b...)
	return len(b), nil
}

func newTestBridge() (*Bridge, *fakePublisher, chan []byte) {
	dev := &fakeDevice{writes: make(chan []byte, 64)}
	client := rmlink.NewClient(rmlink.NewLink(dev))
	b := NewBridge("dev", nil, client)
	pub := &fakePublisher{}
	b.Publisher = pub
	return b, pub, dev.writes
}

func encode(t *testing.T, msg fx.Message) []byte {
	data, err := msgs.Encode(msg)
	require.NoError(t, err)
	return data
}

func TestBridgePublishesRecords(t *testing.T) {
	b, pub, _ := newTestBridge()

	b.Client.HandleRecord(context.Background(), &rmlink.Parameter{ID: 12, Label: "Bind", Type: rmlink.ParamCommand,
		Value: &rmlink.CommandValue{Timeout: 100}})
	m, msg := pub.last(t)
	require.Equal(t, "dev/params/12", m.topic)
	require.True(t, m.retain)
	require.Equal(t, "Bind", msg.(*msgs.Parameter).Label)
	require.Equal(t, uint32(100), msg.(*msgs.Parameter).Command.Timeout)

	b.Client.HandleRecord(context.Background(), &rmlink.ChannelFrame{Channels: [10]uint16{1500}, Count: 1})
	m, msg = pub.last(t)
	require.Equal(t, "dev/channels", m.topic)
	require.False(t, m.retain)
	require.Equal(t, []uint32{1500}, msg.(*msgs.Channels).Values)

	b.Client.HandleRecord(context.Background(), &rmlink.DeviceInfo{DeviceName: "Pocket"})
	m, msg = pub.last(t)
	require.Equal(t, "dev/info", m.topic)
	require.Equal(t, "Pocket", msg.(*msgs.DeviceInfo).DeviceName)
}

func TestBridgeCommands(t *testing.T) {
	testCases := []struct {
		name  string
		cmd   fx.Message
		frame []byte
	}{
		{"device info", &msgs.DeviceInfoQuery{}, rmlink.RequestDeviceInfo()},
		{"volume", &msgs.SetVolume{Level: 12}, rmlink.SetVolume(12)},
		{"elrs tx", &msgs.ElrsParamsQuery{}, rmlink.RequestElrsParams(rmlink.ElrsTx)},
		{"elrs rx", &msgs.ElrsParamsQuery{Side: 1}, rmlink.RequestElrsParams(rmlink.ElrsRx)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, pub, writes := newTestBridge()
			b.HandleCommand("dev/cmd", encode(t, tc.cmd))
			require.Equal(t, tc.frame, <-writes)
			m, reply := pub.last(t)
			require.Equal(t, "dev/reply", m.topic)
			require.IsType(t, &msgs.CommandOK{}, reply)
		})
	}
}

func TestBridgeCommandErrors(t *testing.T) {
	unknown, err := (&msgs.Typed{TypeId: msgs.GroupLink | 0x0fff}).Encode()
	require.NoError(t, err)
	testCases := []struct {
		name    string
		payload []byte
	}{
		{"garbage", []byte{0xff, 0xff, 0xff}},
		{"event", encode(t, &msgs.DeviceInfo{})},
		{"reply", encode(t, &msgs.CommandOK{})},
		{"unknown", unknown},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, pub, _ := newTestBridge()
			b.HandleCommand("dev/cmd", tc.payload)
			_, reply := pub.last(t)
			require.IsType(t, &msgs.CommandErr{}, reply)
			require.NotEmpty(t, reply.(*msgs.CommandErr).Message)
		})
	}
}

func TestBridgeResetSession(t *testing.T) {
	b, pub, _ := newTestBridge()
	b.Client.Session().Feed([]byte{rmlink.ChannelsTag, 40, 1})
	require.Equal(t, 3, b.Client.Session().Buffered())
	b.HandleCommand("dev/cmd", encode(t, &msgs.ResetSession{}))
	require.Zero(t, b.Client.Session().Buffered())
	_, reply := pub.last(t)
	require.IsType(t, &msgs.CommandOK{}, reply)
}

func TestBridgeChannelStream(t *testing.T) {
	b, _, writes := newTestBridge()
	b.HandleCommand("dev/cmd", encode(t, &msgs.ChannelStream{Enable: true, IntervalMs: 5}))
	require.True(t, b.Streaming())
	for i := 0; i < 3; i++ {
		select {
		case frame := <-writes:
			require.Equal(t, rmlink.RequestChannels(), frame)
		case <-time.After(time.Second):
			require.FailNow(t, "no channel request")
		}
	}
	b.HandleCommand("dev/cmd", encode(t, &msgs.ChannelStream{}))
	require.False(t, b.Streaming())
}
