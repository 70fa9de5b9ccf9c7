package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"
	"go.dedis.ch/evmvote/wallet"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

const shellHelp = `Commands:
  candidates    list the candidates
  vote <id>     vote for a candidate
  address       show the connected address
  help          show this help
  quit          leave`

// shell is the interactive session: a "Connect Wallet" prompt until a
// wallet is connected, then a command line reading candidates and votes.
// Failed commands are reported and the shell goes on.
func shell(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	for !cl.session.Connected() {
		fmt.Fprintln(cl.w, "Connect Wallet")
		_, err := cl.prompter.Line("Press enter to connect (Ctrl-D to quit) ")
		if xerrors.Is(err, wallet.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		err = cl.connect()
		if err != nil {
			log.Lvl2("connection failed:", err)
			fmt.Fprintln(cl.w, "Error:", err)
		}
	}

	for {
		line, err := cl.prompter.Line("> ")
		if xerrors.Is(err, wallet.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "candidates", "ls":
			err = cl.candidates()
		case "vote", "v":
			if len(fields) != 2 {
				err = xerrors.New("usage: vote <id>")
				break
			}
			err = cl.vote(fields[1])
		case "address":
			_, err = fmt.Fprintf(cl.w, "Connected: %s\n", cl.session.Account().Hex())
		case "help", "?":
			_, err = fmt.Fprintln(cl.w, shellHelp)
		case "quit", "exit":
			return nil
		default:
			err = xerrors.Errorf("unknown command %q, try help", fields[0])
		}

		if err != nil {
			log.Lvl2("command failed:", err)
			fmt.Fprintln(cl.w, "Error:", err)
		}
	}
}
