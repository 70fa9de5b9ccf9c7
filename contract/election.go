package contract

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// ErrReverted is returned by Wait when the transaction was mined but its
// execution failed.
var ErrReverted = xerrors.New("transaction reverted")

// Reader calls the view methods of the election contract.
type Reader struct {
	def   *Definition
	bound *bind.BoundContract
}

// NewReader binds the contract for reading.
func NewReader(def *Definition, h ProviderHandle) *Reader {
	return &Reader{
		def:   def,
		bound: Bind(def, h),
	}
}

// GetAllCandidates calls the list method once and returns the decoded
// outputs as they come out of the ABI decoder. Their shape depends on the
// contract and is not interpreted here.
func (r *Reader) GetAllCandidates(ctx context.Context) ([]interface{}, error) {
	log.Lvl2(">>> Calling view method:", r.def.ListMethod)
	defer log.Lvl2("<<< Calling view method:", r.def.ListMethod)

	var out []interface{}
	err := r.bound.Call(&bind.CallOpts{Context: ctx}, &out, r.def.ListMethod)
	if err != nil {
		return nil, xerrors.Errorf("calling %s on %v: %w", r.def.ListMethod, r.def, err)
	}

	return out, nil
}

// Writer sends transactions to the election contract and waits for them.
type Writer struct {
	def     *Definition
	bound   *bind.BoundContract
	backend Backend
	opts    *bind.TransactOpts
}

// NewWriter binds the contract for sending transactions signed through
// the handle.
func NewWriter(def *Definition, h SignerHandle) *Writer {
	return &Writer{
		def:     def,
		bound:   Bind(def, h),
		backend: h.Backend(),
		opts:    h.opts,
	}
}

// Vote submits one transaction calling the vote method with the candidate
// identifier. It returns as soon as the node accepted the transaction.
func (w *Writer) Vote(ctx context.Context, candidateID int64) (*types.Transaction, error) {
	log.Lvl2(">>> Calling method:", w.def.VoteMethod, candidateID)
	defer log.Lvl2("<<< Calling method:", w.def.VoteMethod, candidateID)

	arg, err := w.def.candidateArg(candidateID)
	if err != nil {
		return nil, err
	}

	opts := *w.opts
	opts.Context = ctx

	tx, err := w.bound.Transact(&opts, w.def.VoteMethod, arg)
	if err != nil {
		return nil, xerrors.Errorf("sending %s(%d) to %v: %w", w.def.VoteMethod, candidateID, w.def, err)
	}

	return tx, nil
}

// Wait blocks until the transaction is included in a block, or until the
// context is done.
func (w *Writer) Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	log.Lvl2("waiting for transaction", tx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, w.backend, tx)
	if err != nil {
		return nil, xerrors.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, xerrors.Errorf("%s in block %v: %w", tx.Hash().Hex(), receipt.BlockNumber, ErrReverted)
	}

	return receipt, nil
}
