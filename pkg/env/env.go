// Package env provides the flag and environment driven configuration
// shared by the rmlink binaries.
package env

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/robotalks/rmlink/pkg/capture"
	"github.com/robotalks/rmlink/pkg/rmlink"
	"github.com/robotalks/rmlink/pkg/transport"
)

// Config provides common options to open a device link.
type Config struct {
	// Device is the device URL, e.g. serial:///dev/ttyACM0?baud=460800.
	Device string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// ID identifies the device on MQTT topics.
	ID string
	// MetricsAddr is the listen address of the metrics endpoint.
	MetricsAddr string

	VerifyCRC   bool
	IdleTimeout time.Duration
	MaxBuffer   int

	// CaptureFile records all link traffic when set.
	CaptureFile string
}

var defaultConfig = Config{
	Device:        "serial:///dev/ttyACM0",
	MQTTBrokerURL: "mqtt://localhost:1883/rmlink/",
	IdleTimeout:   rmlink.DefaultIdleTimeout,
	MaxBuffer:     rmlink.DefaultMaxBuffer,
}

func init() {
	if val := os.Getenv("RM_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("RM_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("RM_METRICS_ADDR"); val != "" {
		defaultConfig.MetricsAddr = val
	}
	if val, err := strconv.ParseBool(os.Getenv("RM_VERIFY_CRC")); err == nil {
		defaultConfig.VerifyCRC = val
	}
	defaultConfig.ID = os.Getenv("RM_ID")
	if defaultConfig.ID == "" {
		defaultConfig.ID = MachineID()
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Device URL (serial://, tcp://, ws://).")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Device ID used in MQTT topics.")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Metrics listen address, empty to disable.")
	flag.BoolVar(&defaultConfig.VerifyCRC, "verify-crc", defaultConfig.VerifyCRC, "Verify channel frame and sub-frame checksums.")
	flag.DurationVar(&defaultConfig.IdleTimeout, "idle", defaultConfig.IdleTimeout, "Read idle period after which an incomplete frame is dropped, 0 keeps it.")
	flag.IntVar(&defaultConfig.MaxBuffer, "max-buffer", defaultConfig.MaxBuffer, "Receive buffer cap in bytes.")
	flag.StringVar(&defaultConfig.CaptureFile, "capture", defaultConfig.CaptureFile, "Record link traffic into a YAML capture file.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SessionOptions returns the session options configured.
func (c *Config) SessionOptions() []rmlink.SessionOption {
	return []rmlink.SessionOption{
		rmlink.WithVerifyCRC(c.VerifyCRC),
		rmlink.WithMaxBuffer(c.MaxBuffer),
	}
}

// Device is an opened device stream.
type Device struct {
	io.ReadWriteCloser

	// Recorder is set when traffic is captured.
	Recorder    *capture.Recorder
	captureFile string
}

// Close closes the stream and saves the capture if any.
func (d *Device) Close() error {
	err := d.ReadWriteCloser.Close()
	if d.Recorder != nil {
		if saveErr := d.Recorder.Capture().Save(d.captureFile); saveErr != nil {
			return fmt.Errorf("save capture %s: %w", d.captureFile, saveErr)
		}
		glog.Infof("capture saved to %s", d.captureFile)
	}
	return err
}

// OpenDevice opens the device stream.
func (c *Config) OpenDevice() (*Device, error) {
	rwc, err := transport.Open(c.Device)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", c.Device, err)
	}
	dev := &Device{ReadWriteCloser: rwc}
	if c.CaptureFile != "" {
		dev.Recorder = capture.NewRecorder(rwc, c.Device)
		dev.ReadWriteCloser = dev.Recorder
		dev.captureFile = c.CaptureFile
	}
	return dev, nil
}

// NewLink creates a link over rw with the configured session options.
func (c *Config) NewLink(rw io.ReadWriter, opts ...rmlink.SessionOption) *rmlink.Link {
	link := rmlink.NewLink(rw, append(c.SessionOptions(), opts...)...)
	link.IdleTimeout = c.IdleTimeout
	return link
}

// MustOpenDevice opens the device and fails on error.
func (c *Config) MustOpenDevice() *Device {
	dev, err := c.OpenDevice()
	if err != nil {
		log.Fatalln(err)
	}
	return dev
}

// MachineID retrieves the unique ID identifying the machine. A random ID
// is used if the platform doesn't provide one.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil {
		glog.Warningf("machine ID unavailable: %v", err)
		return uuid.NewString()
	}
	return id
}
