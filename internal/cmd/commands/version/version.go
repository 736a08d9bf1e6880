package version

import (
	"fmt"

	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/base"
	"github.com/phillipfoxsmaflex/entitydoc/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the entitydoc version"
}

func (c *Command) Help() string {
	return "Usage: entitydoc version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("entitydoc v%s", version.Version))
	return 0
}
