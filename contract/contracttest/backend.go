// Package contracttest provides an in-memory chain backend recording every
// call made to it, for testing bindings without a node.
package contracttest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/xerrors"
)

// Names of the events recorded by the backend.
const (
	EventCall    = "call"
	EventSend    = "send"
	EventReceipt = "receipt"
)

// Backend implements contract.Backend and the ChainID query of a node.
// The zero value is not usable, use NewBackend.
type Backend struct {
	// CallFunc answers read calls. It gets the ABI encoded input.
	CallFunc func(input []byte) ([]byte, error)
	// Code is returned for every address. Empty code makes the bindings
	// fail with bind.ErrNoCode.
	Code []byte
	// SendErr fails SendTransaction.
	SendErr error
	// ReceiptErr fails TransactionReceipt.
	ReceiptErr error
	// ReceiptStatus is the status of every receipt.
	ReceiptStatus uint64
	// ChainIDErr fails ChainID.
	ChainIDErr error

	chainID *big.Int

	sync.Mutex
	calls    []ethereum.CallMsg
	sent     []*types.Transaction
	receipts []common.Hash
	events   []string
	nonce    uint64
	closed   bool
}

// NewBackend returns a backend of the given chain that accepts every
// transaction and confirms it at once.
func NewBackend(chainID int64) *Backend {
	return &Backend{
		Code:          []byte{0x60, 0x80},
		ReceiptStatus: types.ReceiptStatusSuccessful,
		chainID:       big.NewInt(chainID),
	}
}

// Record appends an event to the log of the backend. Tests use it to
// interleave their own events with the calls of the backend.
func (b *Backend) Record(event string) {
	b.Lock()
	defer b.Unlock()
	b.events = append(b.events, event)
}

// Events returns the ordered log of the backend.
func (b *Backend) Events() []string {
	b.Lock()
	defer b.Unlock()
	return append([]string{}, b.events...)
}

// Calls returns the read calls received so far.
func (b *Backend) Calls() []ethereum.CallMsg {
	b.Lock()
	defer b.Unlock()
	return append([]ethereum.CallMsg{}, b.calls...)
}

// Sent returns the transactions received so far.
func (b *Backend) Sent() []*types.Transaction {
	b.Lock()
	defer b.Unlock()
	return append([]*types.Transaction{}, b.sent...)
}

// Receipts returns the hashes of the receipts asked for so far.
func (b *Backend) Receipts() []common.Hash {
	b.Lock()
	defer b.Unlock()
	return append([]common.Hash{}, b.receipts...)
}

// ChainID returns the chain identifier given to NewBackend.
func (b *Backend) ChainID(ctx context.Context) (*big.Int, error) {
	if b.ChainIDErr != nil {
		return nil, b.ChainIDErr
	}
	return new(big.Int).Set(b.chainID), nil
}

// Close marks the backend closed, like ethclient.Client.Close.
func (b *Backend) Close() {
	b.Lock()
	defer b.Unlock()
	b.closed = true
}

// Closed returns true once Close was called.
func (b *Backend) Closed() bool {
	b.Lock()
	defer b.Unlock()
	return b.closed
}

// CodeAt implements bind.ContractCaller.
func (b *Backend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return b.Code, nil
}

// CallContract implements bind.ContractCaller.
func (b *Backend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.Lock()
	b.calls = append(b.calls, call)
	b.events = append(b.events, EventCall)
	b.Unlock()

	if b.CallFunc == nil {
		return nil, xerrors.New("no call handler")
	}
	return b.CallFunc(call.Data)
}

// HeaderByNumber returns a header without base fee, which makes the
// bindings build legacy transactions.
func (b *Backend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

// PendingCodeAt implements bind.ContractTransactor.
func (b *Backend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.Code, nil
}

// PendingNonceAt implements bind.ContractTransactor.
func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.Lock()
	defer b.Unlock()
	return b.nonce, nil
}

// SuggestGasPrice implements bind.ContractTransactor.
func (b *Backend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

// SuggestGasTipCap implements bind.ContractTransactor.
func (b *Backend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

// EstimateGas implements bind.ContractTransactor.
func (b *Backend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 50000, nil
}

// SendTransaction implements bind.ContractTransactor.
func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.Lock()
	defer b.Unlock()

	b.events = append(b.events, EventSend)
	if b.SendErr != nil {
		return b.SendErr
	}
	b.sent = append(b.sent, tx)
	b.nonce++
	return nil
}

// FilterLogs implements bind.ContractFilterer.
func (b *Backend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

// SubscribeFilterLogs implements bind.ContractFilterer. Subscriptions are
// not supported.
func (b *Backend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, xerrors.New("subscriptions are not supported")
}

// TransactionReceipt implements bind.DeployBackend.
func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.Lock()
	defer b.Unlock()

	b.receipts = append(b.receipts, txHash)
	b.events = append(b.events, EventReceipt)
	if b.ReceiptErr != nil {
		return nil, b.ReceiptErr
	}
	return &types.Receipt{
		Status:      b.ReceiptStatus,
		TxHash:      txHash,
		BlockNumber: big.NewInt(2),
	}, nil
}

// ABI describes a contract with simple return types so that tests can
// encode results with abi.Arguments.Pack. Its list method is ListMethod and
// its vote method, VoteMethod, takes an uint8.
const ABI = `[
  {"type": "function", "name": "listNames", "stateMutability": "view", "inputs": [],
   "outputs": [{"name": "names", "type": "string[]"}, {"name": "votes", "type": "uint256[]"}]},
  {"type": "function", "name": "castVote", "stateMutability": "nonpayable",
   "inputs": [{"name": "id", "type": "uint8"}], "outputs": []},
  {"type": "function", "name": "rename", "stateMutability": "nonpayable",
   "inputs": [{"name": "name", "type": "string"}], "outputs": []}
]`

// Method names of ABI.
const (
	ListMethod = "listNames"
	VoteMethod = "castVote"
)
