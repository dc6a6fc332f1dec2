// Package device adds device info, channel and volume commands to the shell.
package device

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rmlink/pkg/cli/sh"
	"github.com/robotalks/rmlink/pkg/rmlink"
)

// Channels collects n channel frames, polling at the default interval.
func Channels(ctx context.Context, client *rmlink.Client, n int) ([]*rmlink.ChannelFrame, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var frames []*rmlink.ChannelFrame
	err := client.StreamChannels(ctx, rmlink.DefaultChannelInterval, func(f *rmlink.ChannelFrame) {
		if len(frames) < n {
			frames = append(frames, f)
		}
		if len(frames) >= n {
			cancel()
		}
	})
	if len(frames) >= n && errors.Is(err, context.Canceled) {
		err = nil
	}
	return frames, err
}

var (
	// InfoCmd queries device info.
	InfoCmd = ishell.Cmd{
		Name:    "info",
		Aliases: []string{"i"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			ctx, cancel := s.CommandContext()
			defer cancel()
			info, err := s.Conn.Client.QueryDeviceInfo(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			if err := s.Print(c, info); err != nil {
				c.Err(err)
			}
		}),
	}

	// ChannelsCmd prints channel frames.
	ChannelsCmd = ishell.Cmd{
		Name:    "channels",
		Aliases: []string{"ch"},
		Help:    "[COUNT]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			count := 1
			if len(c.Args) > 0 {
				n, err := strconv.Atoi(c.Args[0])
				if err != nil || n <= 0 {
					c.Err(fmt.Errorf("invalid count: %q", c.Args[0]))
					return
				}
				count = n
			}
			s := sh.ShellFrom(c)
			ctx, cancel := s.CommandContext()
			defer cancel()
			frames, err := Channels(ctx, s.Conn.Client, count)
			for _, f := range frames {
				s.PrintRecord(c, f)
			}
			if err != nil {
				c.Err(err)
			}
		}),
	}

	// VolumeCmd sets the volume.
	VolumeCmd = ishell.Cmd{
		Name:    "volume",
		Aliases: []string{"vol"},
		Help:    "LEVEL(0-255)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("volume level expected"))
				return
			}
			level, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid volume: %q", c.Args[0]))
				return
			}
			if err := sh.ShellFrom(c).Conn.Client.SetVolume(level); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}
)

func init() {
	sh.AddCmds(
		&InfoCmd,
		&ChannelsCmd,
		&VolumeCmd,
	)
}
