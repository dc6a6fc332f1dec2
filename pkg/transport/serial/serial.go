// Package serial opens the transmitter's USB serial port.
package serial

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// Defaults of the transmitter serial link.
const (
	DefaultBaudRate    = 460800
	DefaultReadTimeout = 100 * time.Millisecond
)

// Config specifies the port to open.
type Config struct {
	Path     string
	BaudRate int
	// ReadTimeout makes Read return 0 bytes after a quiet period so
	// partial frames can be dropped. Zero blocks forever.
	ReadTimeout time.Duration
}

// DefaultConfig returns the config for path with link defaults.
func DefaultConfig(path string) Config {
	return Config{Path: path, BaudRate: DefaultBaudRate, ReadTimeout: DefaultReadTimeout}
}

// Open opens the port in 8N1 with DTR and RTS asserted.
func Open(conf Config) (serial.Port, error) {
	if conf.BaudRate <= 0 {
		conf.BaudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: conf.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(conf.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", conf.Path, err)
	}
	if err := port.SetDTR(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("set DTR on %s: %w", conf.Path, err)
	}
	if err := port.SetRTS(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("set RTS on %s: %w", conf.Path, err)
	}
	if conf.ReadTimeout > 0 {
		if err := port.SetReadTimeout(conf.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", conf.Path, err)
		}
	}
	glog.Infof("opened %s at %d baud", conf.Path, conf.BaudRate)
	return port, nil
}
