package sh

import (
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rmlink/pkg/capture"
	"github.com/robotalks/rmlink/pkg/env"
	"github.com/robotalks/rmlink/pkg/rmlink"
)

type linesPrinter []string

func (p *linesPrinter) Println(val ...interface{}) {
	*p = append(*p, fmt.Sprint(val...))
}

var testChannels = []byte{0x22, 0x0a, 0, 0, 0, 0, 0, 0, 0xdc, 0x05, 0xe8, 0x03}

// serveDevice answers every request with a channel frame.
func serveDevice(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				buf := make([]byte, 64)
				for {
					if _, err := conn.Read(buf); err != nil {
						return
					}
					if _, err := conn.Write(testChannels); err != nil {
						return
					}
				}
			}(conn)
		}
	}()
	return "tcp://" + ln.Addr().String()
}

func TestPrintRecord(t *testing.T) {
	frame := &rmlink.ChannelFrame{Count: 2}
	frame.Channels[0], frame.Channels[1] = 1500, 1000
	param := &rmlink.Parameter{ID: 3, Label: "Name", Type: rmlink.ParamInfo, Value: &rmlink.InfoValue{Text: "x"}}
	tests := []struct {
		name string
		json bool
		rec  rmlink.Record
		want string
	}{
		{name: "text channels", rec: frame, want: "channels [1500 1000]"},
		{name: "json channels", json: true, rec: frame,
			want: `{"kind":"channels","record":{"channels":[1500,1000,0,0,0,0,0,0,0,0],"count":2}}`},
		{name: "text param", rec: param, want: "param " + param.String()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &Shell{OutputJSON: tc.json}
			var p linesPrinter
			require.NoError(t, s.PrintRecord(&p, tc.rec))
			require.Equal(t, []string{tc.want}, []string(p))
		})
	}
}

func TestPrint(t *testing.T) {
	info := &rmlink.DeviceInfo{DeviceName: "Pocket", Volume: 3}
	var p linesPrinter
	require.NoError(t, (&Shell{}).Print(&p, info))
	require.NoError(t, (&Shell{}).Print(&p, 42))
	require.Equal(t, []string{info.String(), "42"}, []string(p))
}

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	c := &capture.Capture{Chunks: []capture.Chunk{
		{Dir: capture.TX, Data: rmlink.RequestChannels()},
		{Dir: capture.RX, Data: testChannels[:5]},
		{Dir: capture.RX, Data: testChannels[5:]},
	}}
	require.NoError(t, c.Save(path))

	s := &Shell{Config: env.NewConfig()}
	recs, err := s.Replay(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, []uint16{1500, 1000}, recs[0].(*rmlink.ChannelFrame).Values())

	_, err = s.Replay(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConnect(t *testing.T) {
	conf := env.NewConfig()
	conf.CaptureFile = ""
	s := &Shell{Config: conf, Timeout: time.Second}
	_, err := s.Client()
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, s.Connect(serveDevice(t)))
	client, err := s.Client()
	require.NoError(t, err)

	frames := make(chan *rmlink.ChannelFrame, 1)
	ctx, cancel := s.CommandContext()
	defer cancel()
	go client.StreamChannels(ctx, 0, func(f *rmlink.ChannelFrame) {
		select {
		case frames <- f:
		default:
		}
	})
	select {
	case f := <-frames:
		require.Equal(t, []uint16{1500, 1000}, f.Values())
	case <-ctx.Done():
		t.Fatal("no channel frame")
	}
	cancel()

	s.Disconnect()
	_, err = s.Client()
	require.ErrorIs(t, err, ErrNotConnected)
}
