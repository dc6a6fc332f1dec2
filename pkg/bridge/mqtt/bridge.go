package mqtt

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rmlink/pkg/framework"
	"github.com/robotalks/rmlink/pkg/rmlink"
	"github.com/robotalks/rmlink/pkg/rmlink/msgs"
)

// Topics relative to the bridge ID.
const (
	TopicInfo     = "info"
	TopicChannels = "channels"
	TopicParams   = "params"
	TopicCommand  = "cmd"
	TopicReply    = "reply"
)

// Bridge publishes decoded records and executes commands received over MQTT.
type Bridge struct {
	ID        string
	Queue     *Queue
	Publisher Publisher
	Client    *rmlink.Client

	streamLock   sync.Mutex
	streamCancel func()
	ctx          context.Context
}

// NewBridge creates a Bridge and installs it as the record handler of client.
func NewBridge(id string, q *Queue, client *rmlink.Client) *Bridge {
	b := &Bridge{ID: id, Queue: q, Client: client, ctx: context.Background()}
	if q != nil {
		b.Publisher = q
	}
	client.Handler = b
	return b
}

// Topic returns the full topic relative to the queue prefix.
func (b *Bridge) Topic(name string) string {
	return b.ID + "/" + name
}

// HandleRecord implements rmlink.RecordHandler.
func (b *Bridge) HandleRecord(ctx context.Context, rec rmlink.Record) {
	msg := msgs.FromRecord(rec)
	if msg == nil {
		return
	}
	data, err := msgs.Encode(msg)
	if err != nil {
		glog.Errorf("encode %s: %v", rec.RecordKind(), err)
		return
	}
	var topic string
	var retain bool
	switch r := rec.(type) {
	case *rmlink.DeviceInfo:
		topic, retain = b.Topic(TopicInfo), true
	case *rmlink.ChannelFrame:
		topic = b.Topic(TopicChannels)
	case *rmlink.Parameter:
		topic, retain = b.Topic(TopicParams+"/"+strconv.Itoa(int(r.ID))), true
	}
	b.Publisher.PubWith(topic, data, 0, retain)
}

// HandleCommand decodes and executes a command payload and publishes the reply.
func (b *Bridge) HandleCommand(topic string, payload []byte) {
	var reply fx.Message = &msgs.CommandOK{}
	if err := b.execute(payload); err != nil {
		glog.Warningf("command on %q: %v", topic, err)
		reply = &msgs.CommandErr{Message: err.Error()}
	}
	data, err := msgs.Encode(reply)
	if err != nil {
		glog.Errorf("encode reply: %v", err)
		return
	}
	b.Publisher.Pub(b.Topic(TopicReply), data)
}

func (b *Bridge) execute(payload []byte) error {
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return err
	}
	if !typed.IsCommand() || typed.IsReply() {
		return fmt.Errorf("not a command: %x", typed.TypeId)
	}
	msg, err := typed.Decode()
	if err != nil {
		return err
	}
	glog.V(2).Infof("CMD %s", msg.(msgs.SerializableMessage).Serializable().String())
	switch m := msg.(type) {
	case *msgs.DeviceInfoQuery:
		return b.Client.RequestDeviceInfo()
	case *msgs.SetVolume:
		if m.Debounce {
			b.Client.SetVolumeDebounced(int(m.Level))
			return nil
		}
		return b.Client.SetVolume(int(m.Level))
	case *msgs.ElrsParamsQuery:
		return b.Client.RequestElrsParams(m.ElrsSide())
	case *msgs.ResetSession:
		b.Client.Session().Reset()
		return nil
	case *msgs.ChannelStream:
		if m.Enable {
			b.startStream(time.Duration(m.IntervalMs) * time.Millisecond)
		} else {
			b.stopStream()
		}
		return nil
	}
	return msgs.ErrUnsupportedCommand
}

func (b *Bridge) startStream(interval time.Duration) {
	b.streamLock.Lock()
	defer b.streamLock.Unlock()
	if b.streamCancel != nil {
		b.streamCancel()
	}
	ctx, cancel := context.WithCancel(b.ctx)
	b.streamCancel = cancel
	go func() {
		// frames reach the bridge through HandleRecord
		err := b.Client.StreamChannels(ctx, interval, func(*rmlink.ChannelFrame) {})
		if err != nil && err != context.Canceled {
			glog.Errorf("channel stream: %v", err)
		}
	}()
}

func (b *Bridge) stopStream() {
	b.streamLock.Lock()
	defer b.streamLock.Unlock()
	if b.streamCancel != nil {
		b.streamCancel()
		b.streamCancel = nil
	}
}

// Streaming tells whether channel polling is active.
func (b *Bridge) Streaming() bool {
	b.streamLock.Lock()
	defer b.streamLock.Unlock()
	return b.streamCancel != nil
}

// Run connects the queue and serves commands until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	b.streamLock.Lock()
	b.ctx = ctx
	b.streamLock.Unlock()
	if err := b.Queue.Connect(); err != nil {
		return err
	}
	sub := b.Queue.Sub(b.Topic(TopicCommand), b.HandleCommand)
	<-ctx.Done()
	b.stopStream()
	sub.Close()
	b.Queue.Close()
	return ctx.Err()
}

// Runnable returns the bridge as a named runner.
func (b *Bridge) Runnable() fx.Runnable {
	return fx.NamedRun("mqtt-bridge", b)
}
