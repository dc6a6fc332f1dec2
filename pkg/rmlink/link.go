package rmlink

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
)

// RecordHandler is called when a record is decoded.
type RecordHandler interface {
	HandleRecord(context.Context, Record)
}

// HandleRecordFunc is func type of RecordHandler.
type HandleRecordFunc func(context.Context, Record)

// HandleRecord implements RecordHandler.
func (f HandleRecordFunc) HandleRecord(ctx context.Context, rec Record) {
	f(ctx, rec)
}

// RecordHandlers dispatches to multiple handlers in order.
type RecordHandlers []RecordHandler

// HandleRecord implements RecordHandler.
func (h RecordHandlers) HandleRecord(ctx context.Context, rec Record) {
	for _, handler := range h {
		handler.HandleRecord(ctx, rec)
	}
}

// DefaultIdleTimeout disables idle flushing: an incomplete frame is kept
// until more data arrives, the session is reset or the buffer cap is hit.
const DefaultIdleTimeout time.Duration = 0

const readChunkSize = 512

// Link runs a Session over a byte stream.
type Link struct {
	ReadWriter  io.ReadWriter
	Session     *Session
	Handler     RecordHandler
	IdleTimeout time.Duration

	writeLock sync.Mutex
}

// NewLink creates a Link with a new Session.
func NewLink(rw io.ReadWriter, opts ...SessionOption) *Link {
	return &Link{
		ReadWriter:  rw,
		Session:     NewSession(opts...),
		IdleTimeout: DefaultIdleTimeout,
	}
}

// Send writes a command frame.
func (l *Link) Send(frame []byte) error {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	if glog.V(2) {
		glog.Infof("TX % X", frame)
	}
	_, err := l.ReadWriter.Write(frame)
	return err
}

// Run reads the stream until ctx is done or reading fails.
// ErrClosed is returned when the stream ends.
func (l *Link) Run(ctx context.Context) error {
	dataCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, dataCh, errCh)

	var idle <-chan time.Time
	for {
		select {
		case data := <-dataCh:
			if len(data) == 0 {
				// read timeout, the idle timer keeps counting from the last data
				continue
			}
			l.dispatch(ctx, l.Session.Feed(data))
			if l.IdleTimeout > 0 && l.Session.Buffered() > 0 {
				idle = time.After(l.IdleTimeout)
			} else {
				idle = nil
			}
		case <-idle:
			idle = nil
			l.dispatch(ctx, l.Session.Flush())
		case err := <-errCh:
			if errors.Is(err, io.EOF) {
				l.dispatch(ctx, l.Session.Flush())
				return ErrClosed
			}
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Link) readLoop(ctx context.Context, dataCh chan []byte, errCh chan error) {
	buf := make([]byte, readChunkSize)
	for {
		n, err := l.ReadWriter.Read(buf)
		if err != nil {
			if os.IsTimeout(err) {
				n, err = 0, nil
			} else {
				errCh <- err
				return
			}
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		if n > 0 && glog.V(2) {
			glog.Infof("RX % X", data)
		}
		select {
		case dataCh <- data:
		case <-ctx.Done():
			return
		}
	}
}

func (l *Link) dispatch(ctx context.Context, recs []Record) {
	if h := l.Handler; h != nil {
		for _, rec := range recs {
			h.HandleRecord(ctx, rec)
		}
	}
}
