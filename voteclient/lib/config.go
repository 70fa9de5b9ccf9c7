// Package lib holds the configuration of voteclient.
package lib

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"go.dedis.ch/evmvote"
	"go.dedis.ch/evmvote/contract"
	"go.dedis.ch/evmvote/wallet"
	"golang.org/x/xerrors"
)

// ConfigFile is the name of the configuration file in the configuration
// directory.
const ConfigFile = "voteclient.toml"

// DefaultRPC is the node used when the configuration names none.
const DefaultRPC = "http://127.0.0.1:8545"

// Kinds of wallet entries.
const (
	WalletKeyFile  = "keyfile"
	WalletKeystore = "keystore"
)

// Config is the content of the configuration file.
type Config struct {
	RPC        string `toml:"rpc"`
	Contract   string `toml:"contract"`
	Abi        string `toml:"abi"`
	ListMethod string `toml:"list_method"`
	VoteMethod string `toml:"vote_method"`
	GasLimit   uint64 `toml:"gas_limit"`
	Explorer   string `toml:"explorer"`

	Wallets []WalletConfig `toml:"wallet"`

	dir string
}

// WalletConfig is one entry of the wallet dialog.
type WalletConfig struct {
	Name    string `toml:"name"`
	Type    string `toml:"type"`
	Path    string `toml:"path"`
	Address string `toml:"address"`
}

// Load reads the configuration file of the directory.
func Load(dir string) (*Config, error) {
	fn := filepath.Join(dir, ConfigFile)

	cfg := &Config{}
	md, err := toml.DecodeFile(fn, cfg)
	if err != nil {
		return nil, xerrors.Errorf("reading %s: %w", fn, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, xerrors.Errorf("%s: unknown keys %v", fn, undecoded)
	}

	cfg.dir = dir
	if cfg.RPC == "" {
		cfg.RPC = DefaultRPC
	}

	err = cfg.validate()
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", fn, err)
	}

	return cfg, nil
}

// Save writes the configuration file into the directory.
func (cfg *Config) Save(dir string) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return evmvote.WrapError(err)
	}

	f, err := os.Create(filepath.Join(dir, ConfigFile))
	if err != nil {
		return evmvote.WrapError(err)
	}

	err = toml.NewEncoder(f).Encode(cfg)
	if err != nil {
		f.Close()
		return evmvote.ErrorOrNil(err, "encoding configuration")
	}
	return evmvote.ErrorOrNil(f.Close(), "closing configuration")
}

func (cfg *Config) validate() error {
	if !common.IsHexAddress(cfg.Contract) {
		return xerrors.Errorf("invalid contract address %q", cfg.Contract)
	}

	u, err := url.Parse(cfg.RPC)
	if err != nil {
		return xerrors.Errorf("invalid rpc: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	case "":
		// an IPC socket path
	default:
		return xerrors.Errorf("unsupported rpc scheme %q", u.Scheme)
	}

	names := make(map[string]bool)
	for i, w := range cfg.Wallets {
		if w.Name == "" {
			return xerrors.Errorf("wallet #%d has no name", i)
		}
		if names[w.Name] {
			return xerrors.Errorf("wallet %s is configured twice", w.Name)
		}
		names[w.Name] = true

		switch w.Type {
		case WalletKeyFile, WalletKeystore:
		default:
			return xerrors.Errorf("wallet %s: unknown type %q", w.Name, w.Type)
		}
		if w.Path == "" {
			return xerrors.Errorf("wallet %s has no path", w.Name)
		}
		if w.Address != "" && !common.IsHexAddress(w.Address) {
			return xerrors.Errorf("wallet %s: invalid address %q", w.Name, w.Address)
		}
	}

	return nil
}

// Path resolves a path of the configuration against its directory.
func (cfg *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || cfg.dir == "" {
		return p
	}
	if strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(cfg.dir, p)
}

// Definition returns the contract the configuration points to.
func (cfg *Config) Definition() (*contract.Definition, error) {
	return contract.LoadDefinition(cfg.Contract, cfg.Path(cfg.Abi),
		contract.WithMethods(cfg.ListMethod, cfg.VoteMethod))
}

// Options returns the entries of the wallet dialog.
func (cfg *Config) Options() []wallet.Option {
	opts := make([]wallet.Option, len(cfg.Wallets))
	for i, w := range cfg.Wallets {
		switch w.Type {
		case WalletKeystore:
			opts[i] = wallet.KeystoreOption(w.Name, cfg.Path(w.Path), w.Address)
		default:
			opts[i] = wallet.KeyFileOption(w.Name, cfg.Path(w.Path))
		}
	}
	return opts
}
