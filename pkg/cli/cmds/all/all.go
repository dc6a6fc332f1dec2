// Package all registers every shell command package.
package all

import (
	_ "github.com/robotalks/rmlink/pkg/cli/cmds/device"
	_ "github.com/robotalks/rmlink/pkg/cli/cmds/elrs"
)
