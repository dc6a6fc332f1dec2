package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rmlink/pkg/capture"
	"github.com/robotalks/rmlink/pkg/env"
	"github.com/robotalks/rmlink/pkg/rmlink"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool
	Timeout     time.Duration

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is a running link to a device.
type Conn struct {
	Ctx    context.Context
	Cancel func()
	URL    string
	Device *env.Device
	Client *rmlink.Client

	done chan error
}

// Printer is the output side of an ishell.Context.
type Printer interface {
	Println(val ...interface{})
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// ErrNotConnected indicates a command requires a device connection.
var ErrNotConnected = errors.New("not connected")

var (
	// flags

	evalOnly   bool
	outputJSON bool
	timeout    = 2 * time.Second

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&ReplayCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&timeout, "timeout", timeout, "Command timeout.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     timeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
// With AutoConnect, the configured device is connected on demand.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.Conn == nil && s.AutoConnect {
			if err := s.Connect(""); err != nil {
				c.Err(err)
				return
			}
		}
		if s.Conn == nil {
			c.Err(ErrNotConnected)
			return
		}
		fn(c)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Client returns the client of the current connection.
func (s *Shell) Client() (*rmlink.Client, error) {
	if s.Conn == nil {
		return nil, ErrNotConnected
	}
	return s.Conn.Client, nil
}

// CommandContext creates a context for one command bounded by Timeout.
func (s *Shell) CommandContext() (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if s.Conn != nil {
		ctx = s.Conn.Ctx
	}
	if s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return context.WithCancel(ctx)
}

// Connect opens the device at url and starts the link.
// An empty url uses the configured device.
func (s *Shell) Connect(url string) error {
	conf := *s.Config
	if url != "" {
		conf.Device = url
	}
	dev, err := conf.OpenDevice()
	if err != nil {
		return err
	}
	conn := &Conn{
		URL:    conf.Device,
		Device: dev,
		Client: rmlink.NewClient(conf.NewLink(dev)),
		done:   make(chan error, 1),
	}
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Conn = conn
	go func() {
		conn.done <- conn.Client.Run(conn.Ctx)
	}()
	s.setPrompt(fmt.Sprintf("%s > ", conn.URL))
	return nil
}

// Disconnect stops the current link and closes the device.
func (s *Shell) Disconnect() {
	if s.Conn == nil {
		return
	}
	conn := s.Conn
	s.Conn = nil
	conn.Client.Close()
	conn.Cancel()
	conn.Device.Close()
	<-conn.done
	s.setPrompt(unconnectedPrompt)
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Print prints v as JSON or with its String method.
func (s *Shell) Print(p Printer, v interface{}) error {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		p.Println(string(out))
		return nil
	}
	if str, ok := v.(fmt.Stringer); ok {
		p.Println(str.String())
		return nil
	}
	p.Println(fmt.Sprintf("%v", v))
	return nil
}

// PrintRecord prints a decoded record with a kind prefix in text mode.
func (s *Shell) PrintRecord(p Printer, rec rmlink.Record) error {
	if s.OutputJSON {
		out, err := json.Marshal(struct {
			Kind   string        `json:"kind"`
			Record rmlink.Record `json:"record"`
		}{Kind: rec.RecordKind().String(), Record: rec})
		if err != nil {
			return err
		}
		p.Println(string(out))
		return nil
	}
	switch r := rec.(type) {
	case *rmlink.ChannelFrame:
		p.Println(fmt.Sprintf("%s %v", rec.RecordKind(), r.Values()))
	default:
		p.Println(fmt.Sprintf("%s %v", rec.RecordKind(), rec))
	}
	return nil
}

// Replay decodes a capture file with a session configured like the link.
func (s *Shell) Replay(path string) ([]rmlink.Record, error) {
	c, err := capture.Load(path)
	if err != nil {
		return nil, err
	}
	return c.Replay(rmlink.NewSession(s.Config.SessionOptions()...)), nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Disconnect()
	if s.AutoConnect && s.Interactive && len(args) == 0 {
		s.Shell.Printf("Connecting %s ...\n", s.Config.Device)
		if err := s.Connect(""); err != nil {
			s.Shell.Printf("connect %q failed: %v\n", s.Config.Device, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects a device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[DEVICE-URL]",
		Func: func(c *ishell.Context) {
			var url string
			if len(c.Args) > 0 {
				url = c.Args[0]
			}
			if err := ShellFrom(c).Connect(url); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// ReplayCmd decodes a capture file offline.
	ReplayCmd = ishell.Cmd{
		Name: "replay",
		Help: "CAPTURE-FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("capture file expected"))
				return
			}
			s := ShellFrom(c)
			recs, err := s.Replay(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			for _, rec := range recs {
				if err := s.PrintRecord(c, rec); err != nil {
					c.Err(err)
					return
				}
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	env.SetupFlags()
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
