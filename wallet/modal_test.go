package wallet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/evmvote/contract/contracttest"
	"golang.org/x/xerrors"
)

type testPrompter struct {
	choice    int
	selectErr error
	password  string
	passErr   error

	labels []string
	items  []string
	acks   []string
}

func (p *testPrompter) Select(label string, items []string) (int, error) {
	p.labels = append(p.labels, label)
	p.items = items
	return p.choice, p.selectErr
}

func (p *testPrompter) Password(label string) (string, error) {
	p.labels = append(p.labels, label)
	return p.password, p.passErr
}

func (p *testPrompter) Acknowledge(message string) error {
	p.acks = append(p.acks, message)
	return nil
}

func TestModal_Connect(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	kw, err := NewKeyWallet(testPrivateKeys[0])
	require.NoError(t, err)
	keyFile := filepath.Join(dir, "main.key")
	require.NoError(t, kw.Save(keyFile))

	acc, err := keystore.StoreKey(dir, "secret", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	backend := contracttest.NewBackend(5)
	dials := 0
	p := &testPrompter{}
	m := &Modal{
		Options: []Option{
			KeyFileOption("main", keyFile),
			KeystoreOption("geth", dir, acc.Address.Hex()),
		},
		Prompter: p,
		Dial: func(ctx context.Context) (Backend, error) {
			dials++
			return backend, nil
		},
		GasLimit: 1e6,
	}

	provider, err := m.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, kw.Address(), provider.Wallet().Address())
	require.Equal(t, uint64(1e6), provider.GasLimit)
	require.Equal(t, []string{"main", "geth"}, p.items)
	require.Equal(t, []string{"Connect Wallet"}, p.labels)

	signer, err := provider.Signer(context.Background())
	require.NoError(t, err)
	require.Equal(t, kw.Address(), signer.Address())

	p.choice = 1
	p.password = "secret"
	provider, err = m.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, acc.Address, provider.Wallet().Address())
	require.Equal(t, "Passphrase for geth: ", p.labels[len(p.labels)-1])
	require.Equal(t, 2, dials)
}

func TestModal_Failures(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	acc, err := keystore.StoreKey(dir, "secret", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	errDial := xerrors.New("no route to host")
	p := &testPrompter{}
	m := &Modal{
		Options: []Option{
			KeyFileOption("missing", filepath.Join(dir, "missing.key")),
			KeystoreOption("geth", dir, acc.Address.Hex()),
		},
		Prompter: p,
		Dial: func(ctx context.Context) (Backend, error) {
			return nil, errDial
		},
	}

	p.selectErr = ErrCancelled
	_, err = m.Connect(context.Background())
	require.True(t, xerrors.Is(err, ErrCancelled))

	p.selectErr = nil
	_, err = m.Connect(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")

	p.choice = 1
	p.passErr = ErrCancelled
	_, err = m.Connect(context.Background())
	require.True(t, xerrors.Is(err, ErrCancelled))

	p.passErr = nil
	p.password = "wrong"
	_, err = m.Connect(context.Background())
	require.Error(t, err)

	p.password = "secret"
	_, err = m.Connect(context.Background())
	require.True(t, xerrors.Is(err, errDial))

	p.choice = 2
	_, err = m.Connect(context.Background())
	require.Error(t, err)

	_, err = (&Modal{Prompter: p}).Connect(context.Background())
	require.Error(t, err)
}

func TestProvider_ReadOnly(t *testing.T) {
	backend := contracttest.NewBackend(5)
	w, err := NewKeyWallet(testPrivateKeys[1])
	require.NoError(t, err)

	p := NewProvider(backend, w)
	require.Equal(t, backend, p.ReadOnly().Backend())

	signer, err := p.Signer(context.Background())
	require.NoError(t, err)
	require.Equal(t, w.Address(), signer.Address())
	require.NotEqual(t, common.Address{}, signer.Address())
}
