package device

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rmlink/pkg/rmlink"
)

// echoDevice answers every channel request with one frame.
type echoDevice struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func newEchoDevice() *echoDevice {
	r, w := io.Pipe()
	return &echoDevice{r: r, w: w}
}

func (d *echoDevice) Read(b []byte) (int, error) { return d.r.Read(b) }

func (d *echoDevice) Write(b []byte) (int, error) {
	go d.w.Write([]byte{0x22, 0x0a, 0, 0, 0, 0, 0, 0, 0xdc, 0x05, 0xe8, 0x03})
	return len(b), nil
}

func TestChannels(t *testing.T) {
	dev := newEchoDevice()
	defer dev.w.Close()
	client := rmlink.NewClient(rmlink.NewLink(dev))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go client.Run(ctx)

	frames, err := Channels(ctx, client, 3)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for _, f := range frames {
		require.Equal(t, []uint16{1500, 1000}, f.Values())
	}
}

func TestChannelsTimeout(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	client := rmlink.NewClient(rmlink.NewLink(struct {
		io.Reader
		io.Writer
	}{r, io.Discard}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	go client.Run(ctx)

	frames, err := Channels(ctx, client, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, frames)
}
