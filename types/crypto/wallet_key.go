package crypto

import (
	"crypto/ecdsa"
	"os"
	"path/filepath"

	"github.com/beatoz/beatoz-factory/types"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	tmos "github.com/tendermint/tendermint/libs/os"
)

const (
	DefaultWalletKeyDir     = "walkeys"
	DefaultWalletKeyDirPerm = 0o700
	DefaultWalletKeyPerm    = 0o600
)

// WalletKey is an unlocked key of a keystore file.
type WalletKey struct {
	Path string
	key  *keystore.Key
}

func (wk *WalletKey) Address() types.Address {
	return wk.key.Address[:]
}

func (wk *WalletKey) PrvKey() *ecdsa.PrivateKey {
	return wk.key.PrivateKey
}

// NewWalletKeyFile generates a key and saves it in `dir`, encrypted with `secret`.
func NewWalletKeyFile(dir string, secret []byte) (*WalletKey, error) {
	return newWalletKeyFile(dir, secret, keystore.StandardScryptN, keystore.StandardScryptP)
}

func newWalletKeyFile(dir string, secret []byte, scryptN, scryptP int) (*WalletKey, error) {
	if err := tmos.EnsureDir(dir, DefaultWalletKeyDirPerm); err != nil {
		return nil, err
	}
	acct, err := keystore.StoreKey(dir, string(secret), scryptN, scryptP)
	if err != nil {
		return nil, err
	}
	return OpenWalletKey(acct.URL.Path, secret)
}

// OpenWalletKey reads the keystore file at `path` and decrypts it with `secret`.
func OpenWalletKey(path string, secret []byte) (*WalletKey, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(bz, string(secret))
	if err != nil {
		return nil, err
	}
	return &WalletKey{Path: path, key: key}, nil
}

// SaveWith encrypts the key with `secret` and overwrites its file.
func (wk *WalletKey) SaveWith(secret []byte) error {
	return wk.saveWith(secret, keystore.StandardScryptN, keystore.StandardScryptP)
}

func (wk *WalletKey) saveWith(secret []byte, scryptN, scryptP int) error {
	bz, err := keystore.EncryptKey(wk.key, string(secret), scryptN, scryptP)
	if err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Dir(wk.Path), DefaultWalletKeyDirPerm); err != nil {
		return err
	}
	return os.WriteFile(wk.Path, bz, DefaultWalletKeyPerm)
}
