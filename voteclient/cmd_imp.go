package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli"
	"go.dedis.ch/evmvote/voteclient/lib"
	"go.dedis.ch/evmvote/wallet"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// client is what the commands share: the session and the dialog that
// connects it.
type client struct {
	session  *wallet.Session
	modal    *wallet.Modal
	prompter prompter
	w        io.Writer
}

func newClient(c *cli.Context) (*client, error) {
	cfg, err := lib.Load(configPath)
	if err != nil {
		return nil, err
	}

	def, err := cfg.Definition()
	if err != nil {
		return nil, err
	}

	w := c.App.Writer
	p := newPrompter(w)

	var notifier wallet.Notifier = wallet.PromptNotifier{W: w, Prompter: p}
	if cfg.Explorer != "" {
		notifier = wallet.BrowserNotifier{Explorer: cfg.Explorer, Next: notifier}
	}

	rpc := cfg.RPC
	modal := &wallet.Modal{
		Options:  cfg.Options(),
		Prompter: p,
		Dial: func(ctx context.Context) (wallet.Backend, error) {
			return dial(ctx, rpc)
		},
		GasLimit: cfg.GasLimit,
	}

	log.Lvl2("using", def, "through", rpc)

	return &client{
		session:  wallet.NewSession(def, notifier),
		modal:    modal,
		prompter: p,
		w:        w,
	}, nil
}

func (cl *client) Close() error {
	if p := cl.session.Provider(); p != nil {
		p.Close()
	}
	return cl.prompter.Close()
}

// interruptible returns a context cancelled by Ctrl-C.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func (cl *client) connect() error {
	ctx, stop := interruptible()
	defer stop()

	err := cl.session.Connect(ctx, cl.modal)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cl.w, "Connected: %s\n", cl.session.Account().Hex())
	return err
}

func (cl *client) candidates() error {
	ctx, stop := interruptible()
	defer stop()

	candidates, err := cl.session.LoadCandidates(ctx)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		_, err = fmt.Fprintf(cl.w, "%+v\n", c)
		if err != nil {
			return err
		}
	}
	return nil
}

func (cl *client) vote(arg string) error {
	id, err := strconv.ParseInt(arg, 0, 64)
	if err != nil {
		return xerrors.Errorf("invalid candidate id %q: %w", arg, err)
	}

	ctx, stop := interruptible()
	defer stop()

	return cl.session.VoteForCandidate(ctx, id)
}

func initConfig(c *cli.Context) error {
	// Retrieve options and arguments

	if c.NArg() != 1 {
		return errors.New("please give: contract address")
	}

	cfg := &lib.Config{
		RPC:      c.String("rpc"),
		Contract: c.Args().First(),
		Abi:      c.String("abi"),
		GasLimit: c.Uint64("gas-limit"),
		Explorer: c.String("explorer"),
	}

	// keep the wallets of a previous configuration
	old, err := lib.Load(configPath)
	if err == nil {
		cfg.Wallets = old.Wallets
	}

	// Perform command

	err = cfg.Save(configPath)
	if err != nil {
		return err
	}

	// check what was written
	_, err = lib.Load(configPath)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "Configuration written to %s\n",
		filepath.Join(configPath, lib.ConfigFile))
	return err
}

func createKey(c *cli.Context) error {
	// Retrieve options and arguments

	name := c.String("name")

	// Perform command

	w, err := wallet.GenerateKeyWallet()
	if err != nil {
		return err
	}

	err = os.MkdirAll(configPath, 0755)
	if err != nil {
		return err
	}

	fn := name + ".key"
	err = keepPrevious(filepath.Join(configPath, fn))
	if err != nil {
		return err
	}
	err = w.Save(filepath.Join(configPath, fn))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "New key \"%s\" created at address: %s\n", name, w.Address().Hex())
	if err != nil {
		return err
	}

	cfg, err := lib.Load(configPath)
	if err != nil {
		log.Lvl1("no configuration to add the wallet to:", err)
		return nil
	}
	for _, wc := range cfg.Wallets {
		if wc.Name == name {
			return nil
		}
	}
	cfg.Wallets = append(cfg.Wallets, lib.WalletConfig{
		Name: name,
		Type: lib.WalletKeyFile,
		Path: fn,
	})
	return cfg.Save(configPath)
}

// keepPrevious renames an existing file so that it is not overwritten.
func keepPrevious(fn string) error {
	fileInfo, err := os.Stat(fn)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	newName := fn + "." + fileInfo.ModTime().Format(time.RFC3339)
	fmt.Fprintf(os.Stderr, "WARNING: Previous file exists and is being renamed to '%s'\n", newName)
	return os.Rename(fn, newName)
}

func connect(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	return cl.connect()
}

func listCandidates(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	err = cl.connect()
	if err != nil {
		return err
	}
	return cl.candidates()
}

func vote(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("please give: candidate id")
	}

	cl, err := newClient(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	err = cl.connect()
	if err != nil {
		return err
	}
	return cl.vote(c.Args().First())
}
