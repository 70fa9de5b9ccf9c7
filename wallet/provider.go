package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.dedis.ch/evmvote/contract"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// Backend is the connection to a node. An *ethclient.Client satisfies it.
type Backend interface {
	contract.Backend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to the JSON-RPC endpoint of a node.
func Dial(ctx context.Context, url string) (Backend, error) {
	log.Lvl2("dialing", url)

	cl, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, xerrors.Errorf("dialing %s: %w", url, err)
	}

	return cl, nil
}

// Provider is a wallet connected to a node.
type Provider struct {
	// GasLimit of the transactions. Zero lets the node estimate it.
	GasLimit uint64

	backend Backend
	wallet  Wallet
}

// NewProvider returns the provider of a wallet over a node connection.
func NewProvider(backend Backend, w Wallet) *Provider {
	return &Provider{
		backend: backend,
		wallet:  w,
	}
}

// Wallet returns the wallet of the provider.
func (p *Provider) Wallet() Wallet {
	return p.wallet
}

// ReadOnly returns a handle for the view methods of a contract.
func (p *Provider) ReadOnly() contract.ProviderHandle {
	return contract.NewProviderHandle(p.backend)
}

// Close closes the node connection when it can be closed.
func (p *Provider) Close() {
	if c, ok := p.backend.(interface{ Close() }); ok {
		c.Close()
	}
}

// Signer returns a handle able to sign transactions for the account of the
// wallet. It asks the node for its chain identifier to protect the
// signatures against replay.
func (p *Provider) Signer(ctx context.Context) (contract.SignerHandle, error) {
	chainID, err := p.backend.ChainID(ctx)
	if err != nil {
		return contract.SignerHandle{}, xerrors.Errorf("getting chain id: %w", err)
	}

	opts, err := p.wallet.Transactor(chainID)
	if err != nil {
		return contract.SignerHandle{}, xerrors.Errorf("creating transactor: %w", err)
	}
	opts.GasLimit = p.GasLimit

	return contract.NewSignerHandle(p.backend, opts), nil
}
