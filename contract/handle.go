package contract

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Backend is the chain connection a binding talks through. An
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Handle is what a binding is built from. It is either a ProviderHandle,
// which can only read, or a SignerHandle, which can also send
// transactions. Other packages cannot add variants.
type Handle interface {
	Backend() Backend
	handle()
}

// ProviderHandle is a read-only connection to the chain.
type ProviderHandle struct {
	backend Backend
}

// NewProviderHandle returns a read-only handle over the backend.
func NewProviderHandle(backend Backend) ProviderHandle {
	return ProviderHandle{backend: backend}
}

// Backend returns the connection behind the handle.
func (h ProviderHandle) Backend() Backend {
	return h.backend
}

func (ProviderHandle) handle() {}

// SignerHandle is a connection bound to an account able to sign
// transactions.
type SignerHandle struct {
	backend Backend
	opts    *bind.TransactOpts
}

// NewSignerHandle returns a handle that signs with the given transact
// options.
func NewSignerHandle(backend Backend, opts *bind.TransactOpts) SignerHandle {
	return SignerHandle{backend: backend, opts: opts}
}

// Backend returns the connection behind the handle.
func (h SignerHandle) Backend() Backend {
	return h.backend
}

// Address returns the account the handle signs for.
func (h SignerHandle) Address() common.Address {
	return h.opts.From
}

// ReadOnly drops the signing capability.
func (h SignerHandle) ReadOnly() ProviderHandle {
	return ProviderHandle{backend: h.backend}
}

func (SignerHandle) handle() {}

// Bind returns the generic go-ethereum binding of the contract over the
// connection of the handle.
func Bind(def *Definition, h Handle) *bind.BoundContract {
	b := h.Backend()
	return bind.NewBoundContract(def.Address, def.Abi, b, b, b)
}
