// Package transport opens the byte stream to a transmitter from a URL.
//
// Supported URLs:
//
//	serial:///dev/ttyACM0?baud=460800&timeout=100ms
//	/dev/ttyACM0
//	tcp://host:port
//	ws://host:port/path
package transport

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/robotalks/rmlink/pkg/transport/serial"
	"github.com/robotalks/rmlink/pkg/transport/websocket"
)

// SerialConfigFromURL parses a serial URL.
func SerialConfigFromURL(u *url.URL) (serial.Config, error) {
	path := u.Host + u.Path
	if u.Scheme == "" {
		path = u.Path
	}
	if path == "" {
		return serial.Config{}, fmt.Errorf("serial device path missing in %q", u.String())
	}
	conf := serial.DefaultConfig(path)
	query := u.Query()
	if val := query.Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil || baud <= 0 {
			return conf, fmt.Errorf("invalid baud rate %q", val)
		}
		conf.BaudRate = baud
	}
	if val := query.Get("timeout"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return conf, fmt.Errorf("invalid timeout %q: %w", val, err)
		}
		conf.ReadTimeout = timeout
	}
	return conf, nil
}

// Open opens the stream specified by rawURL.
func Open(rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "", "serial":
		conf, err := SerialConfigFromURL(u)
		if err != nil {
			return nil, err
		}
		return serial.Open(conf)
	case "tcp":
		return net.Dial("tcp", u.Host)
	case "ws", "wss":
		origin := "http://" + u.Host + "/"
		if u.Scheme == "wss" {
			origin = "https://" + u.Host + "/"
		}
		rw, err := websocket.Dial(rawURL, origin)
		if err != nil {
			return nil, err
		}
		return rw, nil
	}
	return nil, fmt.Errorf("unsupported transport %q", strings.ToLower(u.Scheme))
}
