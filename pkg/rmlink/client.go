package rmlink

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Client timing defaults.
const (
	DefaultChannelInterval = 100 * time.Millisecond
	DefaultVolumeDebounce  = 100 * time.Millisecond
	DefaultParamSettle     = 500 * time.Millisecond
)

// Client provides request/response style operations over a Link.
type Client struct {
	// Handler receives every record after waiting operations saw it.
	Handler RecordHandler

	link   *Link
	volume *Debouncer

	volumeLock sync.Mutex
	volumeErr  error

	subsLock sync.Mutex
	subs     map[int]*subscription
	nextSub  int
}

type subscription struct {
	kind RecordKind
	ch   chan Record
}

// NewClient creates a client and wraps the link.
// Records are still forwarded to the handler previously installed on link.
func NewClient(link *Link) *Client {
	c := &Client{
		Handler: link.Handler,
		link:    link,
		subs:    make(map[int]*subscription),
	}
	c.volume = NewDebouncer(DefaultVolumeDebounce, func(level int) {
		err := c.link.Send(SetVolume(level))
		if err != nil {
			glog.Warningf("set volume %d: %v", level, err)
		}
		c.volumeLock.Lock()
		c.volumeErr = err
		c.volumeLock.Unlock()
	})
	link.Handler = c
	return c
}

// Link gets the wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// Session gets the session of the wrapped Link.
func (c *Client) Session() *Session {
	return c.link.Session
}

// HandleRecord implements RecordHandler.
func (c *Client) HandleRecord(ctx context.Context, rec Record) {
	c.subsLock.Lock()
	for _, sub := range c.subs {
		if sub.kind != rec.RecordKind() {
			continue
		}
		select {
		case sub.ch <- rec:
		default:
			// slow subscriber, drop
		}
	}
	c.subsLock.Unlock()
	if h := c.Handler; h != nil {
		h.HandleRecord(ctx, rec)
	}
}

func (c *Client) subscribe(kind RecordKind, size int) (int, <-chan Record) {
	c.subsLock.Lock()
	defer c.subsLock.Unlock()
	id := c.nextSub
	c.nextSub++
	sub := &subscription{kind: kind, ch: make(chan Record, size)}
	c.subs[id] = sub
	return id, sub.ch
}

func (c *Client) unsubscribe(id int) {
	c.subsLock.Lock()
	defer c.subsLock.Unlock()
	delete(c.subs, id)
}

// QueryDeviceInfo requests a device-info frame and waits for it.
func (c *Client) QueryDeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	id, ch := c.subscribe(RecordDeviceInfo, 1)
	defer c.unsubscribe(id)
	if err := c.RequestDeviceInfo(); err != nil {
		return nil, err
	}
	select {
	case rec := <-ch:
		return rec.(*DeviceInfo), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RequestDeviceInfo sends the device-info request without waiting.
func (c *Client) RequestDeviceInfo() error {
	return c.link.Send(RequestDeviceInfo())
}

// RequestElrsParams clears known parameters and requests the parameter
// dump without waiting. Parameters are delivered to Handler.
func (c *Client) RequestElrsParams(side ElrsSide) error {
	c.link.Session.ResetParameters()
	return c.link.Send(RequestElrsParams(side))
}

// SetVolume sends the volume immediately.
func (c *Client) SetVolume(level int) error {
	return c.link.Send(SetVolume(level))
}

// SetVolumeDebounced coalesces volume changes, only the last level within
// DefaultVolumeDebounce is sent.
func (c *Client) SetVolumeDebounced(level int) {
	c.volume.Set(level)
}

// ElrsParams clears known parameters, requests the parameter dump from
// side and collects parameters until none changes for settle.
// It returns all decoded parameters in ascending ID order.
func (c *Client) ElrsParams(ctx context.Context, side ElrsSide, settle time.Duration) ([]*Parameter, error) {
	if settle <= 0 {
		settle = DefaultParamSettle
	}
	id, ch := c.subscribe(RecordParameter, 64)
	defer c.unsubscribe(id)
	if err := c.RequestElrsParams(side); err != nil {
		return nil, err
	}
	timer := time.NewTimer(settle)
	defer timer.Stop()
	for {
		select {
		case <-ch:
			timer.Reset(settle)
		case <-timer.C:
			return c.link.Session.Parameters(), nil
		case <-ctx.Done():
			return c.link.Session.Parameters(), ctx.Err()
		}
	}
}

// StreamChannels requests channel telemetry every interval and calls fn
// with every frame received until ctx is done.
func (c *Client) StreamChannels(ctx context.Context, interval time.Duration, fn func(*ChannelFrame)) error {
	if interval <= 0 {
		interval = DefaultChannelInterval
	}
	id, ch := c.subscribe(RecordChannels, 16)
	defer c.unsubscribe(id)
	if err := c.link.Send(RequestChannels()); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case rec := <-ch:
			fn(rec.(*ChannelFrame))
		case <-ticker.C:
			if err := c.link.Send(RequestChannels()); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes a pending debounced volume and returns the error of the
// last debounced send.
func (c *Client) Close() error {
	c.volume.Flush()
	c.volumeLock.Lock()
	defer c.volumeLock.Unlock()
	return c.volumeErr
}

// Run wraps Link.Run to implement Runnable.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}

// Debouncer delays a value and only delivers the latest one set within delay.
type Debouncer struct {
	delay time.Duration
	fn    func(int)

	lock    sync.Mutex
	timer   *time.Timer
	value   int
	pending bool
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(delay time.Duration, fn func(int)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Set schedules value, replacing any value not yet delivered.
func (d *Debouncer) Set(value int) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.value, d.pending = value, true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
		return
	}
	d.timer.Reset(d.delay)
}

// Flush delivers a pending value now.
func (d *Debouncer) Flush() {
	d.lock.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.lock.Unlock()
	d.fire()
}

func (d *Debouncer) fire() {
	d.lock.Lock()
	value, pending := d.value, d.pending
	d.pending = false
	d.lock.Unlock()
	if pending {
		d.fn(value)
	}
}
