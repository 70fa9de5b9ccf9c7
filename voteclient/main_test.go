package main

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/evmvote"
	"go.dedis.ch/evmvote/contract/contracttest"
	"go.dedis.ch/evmvote/voteclient/lib"
	"go.dedis.ch/evmvote/wallet"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

const testContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

const testRPC = "http://node.test:8545"

const testPrivateKey = "ae6ae8e5ccbfb04590405997ee2d52d2b330726137b875053c36d94e974d162f"

// This is required; without it onet/log/testuitl.go:interestingGoroutines will
// call main.main() interesting.
func TestMain(m *testing.M) {
	log.MainTest(m)
}

type cliTest struct {
	dir     string
	backend *contracttest.Backend
	account *wallet.KeyWallet
}

// newCliTest writes a configuration with one key file wallet and routes
// the node connection to an in-memory backend.
func newCliTest(t *testing.T) *cliTest {
	dir, err := ioutil.TempDir("", "voteclient-test")
	require.NoError(t, err)

	ct := &cliTest{
		dir:     dir,
		backend: contracttest.NewBackend(1337),
	}

	ct.account, err = wallet.NewKeyWallet(testPrivateKey)
	require.NoError(t, err)
	require.NoError(t, ct.account.Save(filepath.Join(dir, "main.key")))

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "election.abi"), []byte(contracttest.ABI), 0644))

	cfg := &lib.Config{
		RPC:        testRPC,
		Contract:   testContract,
		Abi:        "election.abi",
		ListMethod: contracttest.ListMethod,
		VoteMethod: contracttest.VoteMethod,
		Wallets: []lib.WalletConfig{
			{Name: "main", Type: lib.WalletKeyFile, Path: "main.key"},
		},
	}
	require.NoError(t, cfg.Save(dir))

	dial = func(ctx context.Context, url string) (wallet.Backend, error) {
		require.Equal(t, testRPC, url)
		return ct.backend, nil
	}

	return ct
}

func (ct *cliTest) Close() {
	os.RemoveAll(ct.dir)
	dial = wallet.Dial
}

// run runs the client with the given terminal input and returns what it
// printed.
func (ct *cliTest) run(input string, args ...string) (string, error) {
	b := &bytes.Buffer{}
	cliApp.Writer = b
	cliApp.ErrWriter = b
	newPrompter = func(w io.Writer) prompter {
		return newReaderPrompter(strings.NewReader(input), w)
	}
	defer func() { newPrompter = newTerminalPrompter }()

	err := cliApp.Run(append([]string{"voteclient", "-c", ct.dir}, args...))
	return b.String(), err
}

func (ct *cliTest) answerCandidates(t *testing.T) {
	def, err := lib.Load(ct.dir)
	require.NoError(t, err)
	d, err := def.Definition()
	require.NoError(t, err)

	list := d.Abi.Methods[contracttest.ListMethod]
	ct.backend.CallFunc = func(input []byte) ([]byte, error) {
		return list.Outputs.Pack([]string{"alice", "bob"}, []*big.Int{big.NewInt(7), big.NewInt(9)})
	}
}

func TestCli_InitAndCreateKey(t *testing.T) {
	dir, err := ioutil.TempDir("", "voteclient-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	ct := &cliTest{dir: dir}

	out, err := ct.run("", "init", "--rpc", testRPC, testContract)
	require.NoError(t, err)
	require.Contains(t, out, "Configuration written")

	cfg, err := lib.Load(dir)
	require.NoError(t, err)
	require.Equal(t, testRPC, cfg.RPC)
	require.Empty(t, cfg.Wallets)

	out, err = ct.run("", "create_key", "--name", "alice")
	require.NoError(t, err)
	require.Contains(t, out, `New key "alice" created at address: 0x`)

	cfg, err = lib.Load(dir)
	require.NoError(t, err)
	require.Equal(t, []lib.WalletConfig{{Name: "alice", Type: lib.WalletKeyFile, Path: "alice.key"}}, cfg.Wallets)

	_, err = wallet.LoadKeyWallet(filepath.Join(dir, "alice.key"))
	require.NoError(t, err)

	// a second key of the same name keeps the first one around
	_, err = ct.run("", "create_key", "--name", "alice")
	require.NoError(t, err)
	files, err := filepath.Glob(filepath.Join(dir, "alice.key*"))
	require.NoError(t, err)
	require.Len(t, files, 2)

	cfg, err = lib.Load(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Wallets, 1)

	// a new init keeps the wallets
	_, err = ct.run("", "init", testContract)
	require.NoError(t, err)
	cfg, err = lib.Load(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Wallets, 1)

	_, err = ct.run("", "init")
	require.Error(t, err)
	_, err = ct.run("", "init", "0x12")
	require.Error(t, err)
}

func TestCli_Connect(t *testing.T) {
	ct := newCliTest(t)
	defer ct.Close()

	out, err := ct.run("1\n", "connect")
	require.NoError(t, err)
	require.Contains(t, out, "[1] main")
	require.Contains(t, out, "Connected: "+ct.account.Address().Hex())
	require.Empty(t, ct.backend.Events())
}

func TestCli_ConnectCancelled(t *testing.T) {
	ct := newCliTest(t)
	defer ct.Close()

	// an invalid choice, then the input ends
	out, err := ct.run("5\n", "connect")
	require.True(t, xerrors.Is(err, evmvote.ErrWalletConnectionFailed))
	require.True(t, xerrors.Is(err, wallet.ErrCancelled))
	require.Contains(t, out, "Please enter a number between 1 and 1")
	require.NotContains(t, out, "Connected:")
}

func TestCli_Candidates(t *testing.T) {
	ct := newCliTest(t)
	defer ct.Close()
	ct.answerCandidates(t)

	out, err := ct.run("1\n", "candidates")
	require.NoError(t, err)
	require.Contains(t, out, "[alice bob]")
	require.Contains(t, out, "[7 9]")
	require.Equal(t, []string{contracttest.EventCall}, ct.backend.Events())
}

func TestCli_Vote(t *testing.T) {
	ct := newCliTest(t)
	defer ct.Close()

	out, err := ct.run("1\n\n", "vote", "2")
	require.NoError(t, err)
	require.Contains(t, out, "Voted!")
	require.Equal(t, []string{contracttest.EventSend, contracttest.EventReceipt}, ct.backend.Events())
	require.Len(t, ct.backend.Sent(), 1)
	require.Contains(t, out, ct.backend.Sent()[0].Hash().Hex())
	require.True(t, ct.backend.Closed())

	_, err = ct.run("1\n", "vote")
	require.Error(t, err)

	_, err = ct.run("1\n", "vote", "two")
	require.Error(t, err)
	require.Len(t, ct.backend.Sent(), 1)

	// castVote takes an uint8
	_, err = ct.run("1\n", "vote", "300")
	require.True(t, xerrors.Is(err, evmvote.ErrTransactionFailed))
	require.Len(t, ct.backend.Sent(), 1)

	ct.backend.SendErr = xerrors.New("insufficient funds")
	_, err = ct.run("1\n", "vote", "2")
	require.True(t, xerrors.Is(err, evmvote.ErrTransactionFailed))
}

func TestCli_Shell(t *testing.T) {
	ct := newCliTest(t)
	defer ct.Close()
	ct.answerCandidates(t)

	input := strings.Join([]string{
		"",  // connect
		"1", // the wallet
		"candidates",
		"vote 2",
		"", // acknowledge
		"vote",
		"ballot",
		"help",
		"address",
		"quit",
	}, "\n") + "\n"

	out, err := ct.run(input)
	require.NoError(t, err)
	require.True(t, strings.Index(out, "Connect Wallet") < strings.Index(out, "Connected:"))
	require.Contains(t, out, "Connected: "+ct.account.Address().Hex())
	require.Contains(t, out, "[alice bob]")
	require.Contains(t, out, "Voted!")
	require.Contains(t, out, "usage: vote <id>")
	require.Contains(t, out, `unknown command "ballot"`)
	require.Contains(t, out, "Commands:")

	require.Equal(t, []string{contracttest.EventCall, contracttest.EventSend, contracttest.EventReceipt},
		ct.backend.Events())
}

func TestCli_ShellNotConnected(t *testing.T) {
	ct := newCliTest(t)
	defer ct.Close()

	// the dialog is dismissed, the shell shows the prompt again and the
	// input ends
	out, err := ct.run("\n", "shell")
	require.NoError(t, err)
	// shell prompt, wallet dialog, shell prompt
	require.Equal(t, 3, strings.Count(out, "Connect Wallet\n"))
	require.Contains(t, out, "Error: wallet connection failed")
	require.NotContains(t, out, "Connected:")
	require.Empty(t, ct.backend.Events())
}

func TestCli_MissingConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "voteclient-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	ct := &cliTest{dir: dir}
	_, err = ct.run("", "connect")
	require.Error(t, err)
}
