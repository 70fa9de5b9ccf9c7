// voteclient connects a wallet to a node and votes on an election smart
// contract.
package main

import (
	"os"

	"github.com/urfave/cli"
	"go.dedis.ch/evmvote/wallet"
	"go.dedis.ch/onet/v3/cfgpath"
	"go.dedis.ch/onet/v3/log"
)

var cliApp = cli.NewApp()

// getDataPath is a function pointer so that tests can hook and modify this.
var getDataPath = cfgpath.GetDataPath

// dial and newPrompter are hooked by the tests to replace the node and the
// terminal.
var (
	dial        = wallet.Dial
	newPrompter = newTerminalPrompter
)

var gitTag = "dev"

// configPath is the configuration directory given on the command line.
var configPath string

func init() {
	cliApp.Name = "voteclient"
	cliApp.Usage = "Connect a wallet and vote on an election contract."
	cliApp.Version = gitTag
	cliApp.Commands = cmds // stored in "cmd_def.go"
	cliApp.Action = shell
	cliApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
		cli.StringFlag{
			Name:   "config, c",
			EnvVar: "VOTECLIENT_CONFIG",
			Value:  getDataPath(cliApp.Name),
			Usage:  "path to configuration-directory",
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		configPath = c.String("config")
		return nil
	}
}

func main() {
	err := cliApp.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
