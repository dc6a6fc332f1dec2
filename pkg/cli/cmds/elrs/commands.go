// Package elrs adds ELRS parameter commands to the shell.
package elrs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rmlink/pkg/cli/sh"
	"github.com/robotalks/rmlink/pkg/rmlink"
)

// MaxDumpTime bounds a parameter dump when the device keeps sending.
const MaxDumpTime = 30 * time.Second

// ParseDumpArgs parses "tx|rx [SETTLE]".
func ParseDumpArgs(args []string) (rmlink.ElrsSide, time.Duration, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, fmt.Errorf("tx or rx expected")
	}
	side, err := rmlink.ParseElrsSide(args[0])
	if err != nil {
		return 0, 0, err
	}
	settle := rmlink.DefaultParamSettle
	if len(args) > 1 {
		if settle, err = time.ParseDuration(args[1]); err != nil {
			return 0, 0, err
		}
		if settle <= 0 {
			return 0, 0, fmt.Errorf("invalid settle time: %s", args[1])
		}
	}
	return side, settle, nil
}

// ParseParamID parses a decimal or 0x prefixed parameter ID.
func ParseParamID(arg string) (byte, error) {
	id, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter ID: %q", arg)
	}
	return byte(id), nil
}

func printParams(c *ishell.Context, s *sh.Shell, params []*rmlink.Parameter) {
	for _, p := range params {
		if err := s.PrintRecord(c, p); err != nil {
			c.Err(err)
			return
		}
	}
}

var (
	// ElrsCmd dumps ELRS parameters from TX or RX.
	ElrsCmd = ishell.Cmd{
		Name:    "elrs",
		Aliases: []string{"e"},
		Help:    "tx|rx [SETTLE]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			side, settle, err := ParseDumpArgs(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s := sh.ShellFrom(c)
			ctx, cancel := context.WithTimeout(s.Conn.Ctx, MaxDumpTime)
			defer cancel()
			params, err := s.Conn.Client.ElrsParams(ctx, side, settle)
			printParams(c, s, params)
			if err != nil {
				c.Err(err)
			}
		}),
	}

	// ParamsCmd prints decoded parameters, or a single one by ID.
	ParamsCmd = ishell.Cmd{
		Name:    "params",
		Aliases: []string{"p"},
		Help:    "[ID]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			session := s.Conn.Client.Session()
			if len(c.Args) == 0 {
				printParams(c, s, session.Parameters())
				return
			}
			id, err := ParseParamID(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			p, ok := session.Parameter(id)
			if !ok {
				c.Err(fmt.Errorf("parameter %d not found", id))
				return
			}
			printParams(c, s, []*rmlink.Parameter{p})
		}),
	}

	// ResetCmd clears the session state.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.ShellFrom(c).Conn.Client.Session().Reset()
			c.Println("OK")
		}),
	}
)

func init() {
	sh.AddCmds(
		&ElrsCmd,
		&ParamsCmd,
		&ResetCmd,
	)
}
