package rmlink

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newClientTestEnv(t *testing.T) (*linkTestEnv, *Client) {
	env := newLinkTestEnv(t)
	client := NewClient(env.link)
	env.run()
	env.serve()
	return env, client
}

func TestClientQueryDeviceInfo(t *testing.T) {
	env, client := newClientTestEnv(t)
	frame := deviceInfoFrame(DeviceInfoFrameLen)
	env.reply(RequestDeviceInfo(), frame[:100], frame[100:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	info, err := client.QueryDeviceInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, "Pocket", info.DeviceName)
	require.Equal(t, uint8(16), info.ChannelCount)
}

func TestClientQueryDeviceInfoTimeout(t *testing.T) {
	_, client := newClientTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.QueryDeviceInfo(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
}

func TestClientElrsParams(t *testing.T) {
	env, client := newClientTestEnv(t)
	buf := elrsBuffer()
	env.reply(RequestElrsParams(ElrsRx), buf[:20], buf[20:])

	params, err := client.ElrsParams(context.Background(), ElrsRx, 50*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, params, 2)
	require.Equal(t, byte(5), params[0].ID)
	require.Equal(t, byte(7), params[1].ID)

	// asking again starts from scratch and collects the same parameters
	params, err = client.ElrsParams(context.Background(), ElrsRx, 50*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, params, 2)
}

func TestClientStreamChannels(t *testing.T) {
	env, client := newClientTestEnv(t)
	env.reply(RequestChannels(), channelFrame(1500, 1500))

	ctx, cancel := context.WithCancel(context.Background())
	var frames []*ChannelFrame
	err := client.StreamChannels(ctx, 5*time.Millisecond, func(f *ChannelFrame) {
		frames = append(frames, f)
		if len(frames) == 3 {
			cancel()
		}
	})
	require.Equal(t, context.Canceled, err)
	require.GreaterOrEqual(t, len(frames), 3)
	require.Equal(t, []uint16{1500, 1500}, frames[0].Values())
}

func TestClientForwardsRecords(t *testing.T) {
	env := newLinkTestEnv(t)
	ch := env.records()
	NewClient(env.link)
	env.run()
	env.inject(channelFrame(1))
	rec := nextRecord(t, ch)
	require.Equal(t, RecordChannels, rec.RecordKind())
}

func TestClientSetVolume(t *testing.T) {
	env := newLinkTestEnv(t)
	client := NewClient(env.link)
	require.NoError(t, client.SetVolume(300))
	require.Equal(t, SetVolume(255), <-env.writes)

	client.SetVolumeDebounced(10)
	client.SetVolumeDebounced(20)
	client.SetVolumeDebounced(30)
	require.NoError(t, client.Close())
	require.Equal(t, SetVolume(30), <-env.writes)
	select {
	case frame := <-env.writes:
		require.Failf(t, "unexpected write", "% X", frame)
	case <-time.After(2 * DefaultVolumeDebounce):
	}
}

func TestDebouncer(t *testing.T) {
	var lock sync.Mutex
	var values []int
	d := NewDebouncer(20*time.Millisecond, func(v int) {
		lock.Lock()
		values = append(values, v)
		lock.Unlock()
	})
	d.Set(1)
	d.Set(2)
	d.Set(3)
	require.Eventually(t, func() bool {
		lock.Lock()
		defer lock.Unlock()
		return len(values) == 1
	}, time.Second, 5*time.Millisecond)
	d.Set(4)
	d.Flush()
	d.Flush()
	lock.Lock()
	defer lock.Unlock()
	require.Equal(t, []int{3, 4}, values)
}

type failingWriter struct {
	io.Reader
	err error
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestClientDebouncedVolumeError(t *testing.T) {
	errBroken := errors.New("broken")
	r, w := io.Pipe()
	defer w.Close()
	client := NewClient(NewLink(&failingWriter{Reader: r, err: errBroken}))
	client.SetVolumeDebounced(40)
	require.ErrorIs(t, client.Close(), errBroken)
}
