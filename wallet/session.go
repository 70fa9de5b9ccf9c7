package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	uuid "github.com/satori/go.uuid"
	"go.dedis.ch/evmvote"
	"go.dedis.ch/evmvote/contract"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// VotedMessage is the message of the notification sent after a vote was
// confirmed.
const VotedMessage = "Voted!"

// ErrAlreadyConnected is returned by Connect on a connected session.
var ErrAlreadyConnected = xerrors.New("session already connected")

// ErrNotificationFailed is the kind of the error VoteForCandidate returns
// when the vote was confirmed but the user could not be notified.
var ErrNotificationFailed = xerrors.New("vote confirmed, notification failed")

// Session holds the wallet connected by the user. It starts empty and is
// populated once by Connect; there is no way back. A session is meant to
// be driven by one user interface loop and is not safe for concurrent
// use.
type Session struct {
	id       uuid.UUID
	def      *contract.Definition
	notifier Notifier

	provider *Provider
	account  common.Address
}

// NewSession returns an empty session for the election contract. A nil
// notifier drops the notifications.
func NewSession(def *contract.Definition, n Notifier) *Session {
	if n == nil {
		n = NotifierFunc(func(Notification) error { return nil })
	}
	return &Session{
		id:       uuid.NewV4(),
		def:      def,
		notifier: n,
	}
}

// ID identifies the session in the logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Connected returns true once a wallet is connected.
func (s *Session) Connected() bool {
	return s.provider != nil
}

// Account returns the address of the connected account, or the zero
// address.
func (s *Session) Account() common.Address {
	return s.account
}

// Provider returns the connected provider, or nil.
func (s *Session) Provider() *Provider {
	return s.provider
}

// Connect runs the dialog and stores the provider and the account it
// yields. On failure the session is left as it was and the error is of
// kind evmvote.ErrWalletConnectionFailed. There is no retry.
func (s *Session) Connect(ctx context.Context, c Connector) error {
	if s.provider != nil {
		return evmvote.NewError(evmvote.ErrWalletConnectionFailed, ErrAlreadyConnected)
	}

	p, err := c.Connect(ctx)
	if err != nil {
		return evmvote.NewError(evmvote.ErrWalletConnectionFailed, err)
	}

	signer, err := p.Signer(ctx)
	if err != nil {
		p.Close()
		return evmvote.NewError(evmvote.ErrWalletConnectionFailed, err)
	}

	s.provider = p
	s.account = signer.Address()
	log.Lvlf1("%s: connected %s", s.id, s.account.Hex())

	return nil
}

// LoadCandidates reads the candidates from the contract. The result is
// returned exactly as the binding decoded it. On an empty session nothing
// is called and nil is returned.
func (s *Session) LoadCandidates(ctx context.Context) ([]interface{}, error) {
	if s.provider == nil {
		log.Lvlf3("%s: not connected, skipping candidates", s.id)
		return nil, nil
	}

	r := contract.NewReader(s.def, s.provider.ReadOnly())
	candidates, err := r.GetAllCandidates(ctx)
	if err != nil {
		return nil, evmvote.NewError(evmvote.ErrContractCallFailed, err)
	}

	log.Lvlf2("%s: candidates: %v", s.id, candidates)
	return candidates, nil
}

// VoteForCandidate sends a vote transaction, waits for it to be mined and
// then notifies the user. Errors of the submission or of the confirmation
// are of kind evmvote.ErrTransactionFailed and nothing is notified. A
// notification failing after the confirmation is of kind
// ErrNotificationFailed: the vote is on chain. On an empty session nothing
// is called and nil is returned.
func (s *Session) VoteForCandidate(ctx context.Context, candidateID int64) error {
	if s.provider == nil {
		log.Lvlf3("%s: not connected, skipping vote", s.id)
		return nil
	}

	signer, err := s.provider.Signer(ctx)
	if err != nil {
		return evmvote.NewError(evmvote.ErrTransactionFailed, err)
	}

	w := contract.NewWriter(s.def, signer)
	tx, err := w.Vote(ctx, candidateID)
	if err != nil {
		return evmvote.NewError(evmvote.ErrTransactionFailed, err)
	}
	log.Lvlf2("%s: sent vote for %d in %s", s.id, candidateID, tx.Hash().Hex())

	receipt, err := w.Wait(ctx, tx)
	if err != nil {
		return evmvote.NewError(evmvote.ErrTransactionFailed, err)
	}
	log.Lvlf1("%s: vote for %d confirmed in block %v", s.id, candidateID, receipt.BlockNumber)

	err = s.notifier.Notify(Notification{
		Message:   VotedMessage,
		Candidate: candidateID,
		Tx:        tx.Hash(),
		Block:     receipt.BlockNumber,
	})
	if err != nil {
		return evmvote.NewError(ErrNotificationFailed, err)
	}
	return nil
}
