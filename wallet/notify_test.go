package wallet

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

var testNotification = Notification{
	Message:   VotedMessage,
	Candidate: 2,
	Tx:        common.HexToHash("0x01"),
	Block:     big.NewInt(10),
}

func TestPromptNotifier(t *testing.T) {
	b := &bytes.Buffer{}
	p := &testPrompter{}

	err := PromptNotifier{W: b, Prompter: p}.Notify(testNotification)
	require.NoError(t, err)
	require.Contains(t, b.String(), "Voted!")
	require.Contains(t, b.String(), testNotification.Tx.Hex())
	require.Len(t, p.acks, 1)

	require.Contains(t, testNotification.String(), "candidate 2")
	require.Contains(t, testNotification.String(), "block 10")
}

func TestBrowserNotifier(t *testing.T) {
	var urls []string
	var seen []Notification
	bn := BrowserNotifier{
		Explorer: "https://explorer.test/tx/",
		Next: NotifierFunc(func(n Notification) error {
			seen = append(seen, n)
			return nil
		}),
		Open: func(url string) error {
			urls = append(urls, url)
			return nil
		},
	}

	require.NoError(t, bn.Notify(testNotification))
	require.Equal(t, []Notification{testNotification}, seen)
	require.Equal(t, []string{"https://explorer.test/tx/" + testNotification.Tx.Hex()}, urls)

	// a failing browser is not an error
	bn.Open = func(url string) error { return xerrors.New("no display") }
	require.NoError(t, bn.Notify(testNotification))

	// a failing inner notifier is, and the browser is not opened
	errNotify := xerrors.New("closed")
	urls = nil
	bn.Open = func(url string) error {
		urls = append(urls, url)
		return nil
	}
	bn.Next = NotifierFunc(func(n Notification) error { return errNotify })
	require.Equal(t, errNotify, bn.Notify(testNotification))
	require.Empty(t, urls)
}
