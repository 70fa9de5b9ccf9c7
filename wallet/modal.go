package wallet

import (
	"context"

	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// ErrCancelled is returned by a Prompter when the user dismisses the
// question.
var ErrCancelled = xerrors.New("cancelled by the user")

// Prompter asks the user questions. Every method blocks until the user
// answered.
type Prompter interface {
	// Select returns the index of the chosen item.
	Select(label string, items []string) (int, error)
	// Password reads a secret without echoing it.
	Password(label string) (string, error)
	// Acknowledge shows the message and returns once the user confirmed
	// having seen it.
	Acknowledge(message string) error
}

// Connector is a wallet-connection dialog: it returns a provider once the
// user connected a wallet.
type Connector interface {
	Connect(ctx context.Context) (*Provider, error)
}

// ConnectorFunc is a function usable as a Connector.
type ConnectorFunc func(ctx context.Context) (*Provider, error)

// Connect calls f.
func (f ConnectorFunc) Connect(ctx context.Context) (*Provider, error) {
	return f(ctx)
}

// Option is one entry of the dialog.
type Option struct {
	Name string
	// Open returns the wallet of the entry. It may ask the prompter for a
	// passphrase.
	Open func(ctx context.Context, p Prompter) (Wallet, error)
}

// KeyFileOption is an entry opening a key file written by KeyWallet.Save.
func KeyFileOption(name string, fn string) Option {
	return Option{
		Name: name,
		Open: func(ctx context.Context, p Prompter) (Wallet, error) {
			return LoadKeyWallet(fn)
		},
	}
}

// KeystoreOption is an entry opening an account of a go-ethereum keystore.
// The passphrase is asked when the entry is chosen.
func KeystoreOption(name string, path string, address string) Option {
	return Option{
		Name: name,
		Open: func(ctx context.Context, p Prompter) (Wallet, error) {
			pass, err := p.Password("Passphrase for " + name + ": ")
			if err != nil {
				return nil, err
			}
			return OpenKeystore(path, address, pass)
		},
	}
}

// Modal is the dialog listing the configured wallets.
type Modal struct {
	Options  []Option
	Prompter Prompter
	// Dial opens the connection to the node once a wallet is chosen.
	Dial func(ctx context.Context) (Backend, error)
	// GasLimit given to the providers.
	GasLimit uint64
}

// Connect shows the dialog, opens the chosen wallet and connects it to the
// node.
func (m *Modal) Connect(ctx context.Context) (*Provider, error) {
	if len(m.Options) == 0 {
		return nil, xerrors.New("no wallet configured")
	}

	names := make([]string, len(m.Options))
	for i, opt := range m.Options {
		names[i] = opt.Name
	}

	i, err := m.Prompter.Select("Connect Wallet", names)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(m.Options) {
		return nil, xerrors.Errorf("no wallet at index %d", i)
	}

	opt := m.Options[i]
	log.Lvl2("opening wallet", opt.Name)

	w, err := opt.Open(ctx, m.Prompter)
	if err != nil {
		return nil, xerrors.Errorf("opening wallet %s: %w", opt.Name, err)
	}

	backend, err := m.Dial(ctx)
	if err != nil {
		return nil, err
	}

	p := NewProvider(backend, w)
	p.GasLimit = m.GasLimit
	return p, nil
}
