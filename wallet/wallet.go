package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/xerrors"
)

// Wallet holds the key of one account and can authorize transactions for
// it.
type Wallet interface {
	Address() common.Address
	// Transactor returns transact options signing for the account on the
	// given chain.
	Transactor(chainID *big.Int) (*bind.TransactOpts, error)
}

// KeyWallet is a wallet holding a raw secp256k1 private key.
type KeyWallet struct {
	address    common.Address
	privateKey *ecdsa.PrivateKey
}

// NewKeyWallet returns the wallet of a hex encoded private key.
func NewKeyWallet(privateKey string) (*KeyWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, xerrors.Errorf("decoding private key: %w", err)
	}

	return newKeyWallet(key), nil
}

// GenerateKeyWallet returns a wallet with a fresh random key.
func GenerateKeyWallet() (*KeyWallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, xerrors.Errorf("generating key: %w", err)
	}

	return newKeyWallet(key), nil
}

func newKeyWallet(key *ecdsa.PrivateKey) *KeyWallet {
	return &KeyWallet{
		address:    crypto.PubkeyToAddress(key.PublicKey),
		privateKey: key,
	}
}

func (w KeyWallet) String() string {
	return fmt.Sprintf("KeyWallet[%s]", w.address.Hex())
}

// Address implements Wallet.
func (w *KeyWallet) Address() common.Address {
	return w.address
}

// Transactor implements Wallet.
func (w *KeyWallet) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(w.privateKey, chainID)
}

type keyFile struct {
	Address    string
	PrivateKey string
}

// Save writes the key of the wallet to a file only readable by the owner.
func (w *KeyWallet) Save(fn string) error {
	tmp := keyFile{
		Address:    w.address.Hex(),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(w.privateKey)),
	}

	jsonData, err := json.Marshal(tmp)
	if err != nil {
		return err
	}

	// perms = 0600 because there is key material inside this file.
	return ioutil.WriteFile(fn, jsonData, 0600)
}

// LoadKeyWallet reads a key file written by Save.
func LoadKeyWallet(fn string) (*KeyWallet, error) {
	jsonData, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, xerrors.Errorf("reading key file: %w", err)
	}

	var tmp keyFile
	err = json.Unmarshal(jsonData, &tmp)
	if err != nil {
		return nil, xerrors.Errorf("unmarshalling key file %s: %w", fn, err)
	}

	w, err := NewKeyWallet(tmp.PrivateKey)
	if err != nil {
		return nil, err
	}
	if tmp.Address != "" && common.HexToAddress(tmp.Address) != w.address {
		return nil, xerrors.Errorf("key file %s: address %s does not match the key", fn, tmp.Address)
	}

	return w, nil
}

// KeystoreWallet is an unlocked account of a go-ethereum keystore. The
// key never leaves the keystore: transactions are signed through it.
type KeystoreWallet struct {
	ks      *keystore.KeyStore
	account accounts.Account
}

func (w KeystoreWallet) String() string {
	return fmt.Sprintf("KeystoreWallet[%s]", w.account.Address.Hex())
}

// Address implements Wallet.
func (w *KeystoreWallet) Address() common.Address {
	return w.account.Address
}

// Transactor implements Wallet.
func (w *KeystoreWallet) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyStoreTransactorWithChainID(w.ks, w.account, chainID)
}

// OpenKeystore unlocks an account of a go-ethereum keystore. The path is
// either a key file or a keystore directory, in which case the account of
// the given address is used. An empty address is accepted when the
// directory holds a single account.
func OpenKeystore(path string, address string, passphrase string) (*KeystoreWallet, error) {
	if address != "" && !common.IsHexAddress(address) {
		return nil, xerrors.Errorf("invalid address %q", address)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, xerrors.Errorf("opening keystore: %w", err)
	}

	keydir := path
	if !fi.IsDir() {
		keydir = filepath.Dir(path)
	}
	ks := keystore.NewKeyStore(keydir, keystore.StandardScryptN, keystore.StandardScryptP)

	var account accounts.Account
	if fi.IsDir() {
		account, err = findAccount(ks, keydir, address)
	} else {
		account, err = fileAccount(ks, path, address)
	}
	if err != nil {
		return nil, err
	}

	err = ks.Unlock(account, passphrase)
	if err != nil {
		return nil, xerrors.Errorf("unlocking %s: %w", account.URL.Path, err)
	}

	return &KeystoreWallet{ks: ks, account: account}, nil
}

func findAccount(ks *keystore.KeyStore, keydir string, address string) (accounts.Account, error) {
	if address != "" {
		account, err := ks.Find(accounts.Account{Address: common.HexToAddress(address)})
		if err != nil {
			return accounts.Account{}, xerrors.Errorf("no key for %s in %s: %w", address, keydir, err)
		}
		return account, nil
	}

	all := ks.Accounts()
	switch len(all) {
	case 1:
		return all[0], nil
	case 0:
		return accounts.Account{}, xerrors.Errorf("no key in %s", keydir)
	default:
		return accounts.Account{}, xerrors.Errorf("%d keys in %s, an address is needed", len(all), keydir)
	}
}

func fileAccount(ks *keystore.KeyStore, fn string, address string) (accounts.Account, error) {
	abs, err := filepath.Abs(fn)
	if err != nil {
		return accounts.Account{}, err
	}

	for _, account := range ks.Accounts() {
		if account.URL.Path != abs {
			continue
		}
		if address != "" && account.Address != common.HexToAddress(address) {
			return accounts.Account{}, xerrors.Errorf("keystore file %s holds %s, not %s",
				fn, account.Address.Hex(), address)
		}
		return account, nil
	}

	return accounts.Account{}, xerrors.Errorf("%s is not a keystore file", fn)
}
