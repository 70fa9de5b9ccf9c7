package wallet

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/browser"
	"go.dedis.ch/onet/v3/log"
)

// Notification tells the user that a vote was confirmed.
type Notification struct {
	Message   string
	Candidate int64
	Tx        common.Hash
	Block     *big.Int
}

func (n Notification) String() string {
	return fmt.Sprintf("%s (candidate %d, transaction %s in block %v)",
		n.Message, n.Candidate, n.Tx.Hex(), n.Block)
}

// Notifier shows notifications. Notify blocks until the user saw the
// notification.
type Notifier interface {
	Notify(n Notification) error
}

// NotifierFunc is a function usable as a Notifier.
type NotifierFunc func(n Notification) error

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) error {
	return f(n)
}

// PromptNotifier prints the notification and waits for the user to
// acknowledge it.
type PromptNotifier struct {
	W        io.Writer
	Prompter Prompter
}

// Notify implements Notifier.
func (pn PromptNotifier) Notify(n Notification) error {
	_, err := fmt.Fprintf(pn.W, "%s\nTransaction: %s\n", n.Message, n.Tx.Hex())
	if err != nil {
		return err
	}
	return pn.Prompter.Acknowledge("Press enter to continue")
}

// BrowserNotifier passes the notification on and then opens the
// transaction in a block explorer.
type BrowserNotifier struct {
	// Explorer is the URL prefix the transaction hash is appended to.
	Explorer string
	Next     Notifier
	// Open defaults to browser.OpenURL.
	Open func(url string) error
}

// Notify implements Notifier. A browser that cannot be started is logged
// and does not fail the notification.
func (bn BrowserNotifier) Notify(n Notification) error {
	if bn.Next != nil {
		err := bn.Next.Notify(n)
		if err != nil {
			return err
		}
	}

	open := bn.Open
	if open == nil {
		open = browser.OpenURL
	}

	url := bn.Explorer + n.Tx.Hex()
	err := open(url)
	if err != nil {
		log.Error("couldn't open", url, ":", err)
	}
	return nil
}
