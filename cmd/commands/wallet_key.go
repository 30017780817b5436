package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beatoz/beatoz-factory/libs"
	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/types/bytes"
	"github.com/beatoz/beatoz-factory/types/crypto"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

const (
	EnvKeySecret    = "FACTORY_KEY_SECRET"
	EnvNewKeySecret = "FACTORY_NEW_KEY_SECRET"
)

var (
	changePass bool
	newKey     bool
	showPrvKey bool
)

func AddWalletKeyCmdFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(
		&changePass,
		"change-passphrase",
		"c",
		false,
		"Change passphrase of a wallet key file")
	cmd.Flags().BoolVarP(
		&newKey,
		"new",
		"n",
		false,
		"Generate a new wallet key file in the given directory.\n"+
			"without a directory, it is generated in $FACTORYHOME/walkeys.")
	cmd.Flags().BoolVar(
		&showPrvKey,
		"show-private",
		false,
		"Show the private key")
}

func NewWalletKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallet-key [path...]",
		Aliases: []string{"wallet_key"},
		Short:   "Wallet key file management",
		RunE:    handleWalletKey,
	}

	AddWalletKeyCmdFlag(cmd)

	return cmd
}

func handleWalletKey(cmd *cobra.Command, args []string) error {
	if newKey {
		if len(args) == 0 {
			args = []string{filepath.Join(rootConfig.RootDir, crypto.DefaultWalletKeyDir)}
		}
		for _, dir := range args {
			if err := newWalletKeyFile(libs.ExpandPath(dir)); err != nil {
				return err
			}
		}
		return nil
	}

	for _, arg := range args {
		arg = libs.ExpandPath(arg)
		fileInfo, err := os.Stat(arg)
		if err != nil {
			return err
		}

		if changePass {
			if err := resetPassphrase(arg); err != nil {
				return err
			}
		} else if fileInfo.IsDir() {
			if err := showWalletKeyDir(arg); err != nil {
				return err
			}
		} else {
			if err := showWalletKeyFile(arg); err != nil {
				return err
			}
		}
	}
	return nil
}

func newWalletKeyFile(dir string) error {
	s, err := libs.ReadCredentialOrEnv("Passphrase for the new wallet key: ", EnvKeySecret)
	if err != nil {
		return err
	}
	defer libs.ClearCredential(s)

	wk, err := crypto.NewWalletKeyFile(dir, s)
	if err != nil {
		return err
	}
	logger.Info("Generated wallet key file", "address", wk.Address(), "path", wk.Path)
	return nil
}

func showWalletKeyDir(path string) error {
	return filepath.WalkDir(path, func(entry string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := showWalletKeyFile(entry); err != nil {
			return err
		}
		fmt.Println("---")
		return nil
	})
}

func showWalletKeyFile(path string) error {
	wk, err := unlockWalletKey(path)
	if err != nil {
		return err
	}

	tmp := &struct {
		Path    string         `json:"path"`
		Address bytes.HexBytes `json:"address"`
		PrvKey  bytes.HexBytes `json:"prvKey,omitempty"`
	}{
		Path:    wk.Path,
		Address: wk.Address(),
	}
	if showPrvKey {
		tmp.PrvKey = ethcrypto.FromECDSA(wk.PrvKey())
	}

	bz, err := jsonx.MarshalIndent(tmp, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func unlockWalletKey(path string) (*crypto.WalletKey, error) {
	s, err := libs.ReadCredentialOrEnv(fmt.Sprintf("Passphrase for %v: ", filepath.Base(path)), EnvKeySecret)
	if err != nil {
		return nil, err
	}
	defer libs.ClearCredential(s)

	return crypto.OpenWalletKey(path, s)
}

func resetPassphrase(path string) error {
	wk, err := unlockWalletKey(path)
	if err != nil {
		return err
	}

	pass1, err := libs.ReadCredentialOrEnv(fmt.Sprintf("New Passphrase for %v: ", filepath.Base(path)), EnvNewKeySecret)
	if err != nil {
		return err
	}
	defer libs.ClearCredential(pass1)

	return wk.SaveWith(pass1)
}
