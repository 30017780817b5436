package commands

import (
	"fmt"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	"github.com/beatoz/beatoz-factory/genesis"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var (
	factoryChainID = cfg.DefaultChainID

	genesisAdmin       string
	genesisTreasury    string
	genesisBaseFee     = "0"
	genesisMetadataFee = "0"
)

// NewInitFilesCmd returns the command that writes the config file and the genesis file.
func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a factory home",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&factoryChainID,
		"chain_id",
		factoryChainID,
		"the id of chain that every call should be signed for")
	cmd.Flags().StringVar(
		&genesisAdmin,
		"admin",
		genesisAdmin,
		"the admin address of the factory.\n"+
			"if it is empty, the factory is not initialized at genesis and waits for the `initialize` call.")
	cmd.Flags().StringVar(
		&genesisTreasury,
		"treasury",
		genesisTreasury,
		"the treasury address of the factory. it is used only with `--admin`.")
	cmd.Flags().StringVar(
		&genesisBaseFee,
		"base_fee",
		genesisBaseFee,
		"the base fee of the factory. it is used only with `--admin`.")
	cmd.Flags().StringVar(
		&genesisMetadataFee,
		"metadata_fee",
		genesisMetadataFee,
		"the metadata fee of the factory. it is used only with `--admin`.")
}

func initFiles(cmd *cobra.Command, args []string) error {
	var gf *genesis.GenesisFactory
	if genesisAdmin != "" {
		admin, err := types.HexToAddress(genesisAdmin)
		if err != nil {
			return fmt.Errorf("wrong admin: %w", err)
		}
		treasury, err := types.HexToAddress(genesisTreasury)
		if err != nil {
			return fmt.Errorf("wrong treasury: %w", err)
		}
		gf = &genesis.GenesisFactory{
			Admin:       admin,
			Treasury:    treasury,
			BaseFee:     genesisBaseFee,
			MetadataFee: genesisMetadataFee,
		}
	}
	return InitFilesWith(factoryChainID, rootConfig, gf)
}

// InitFilesWith writes the config file and the genesis file under the root of `config`.
// The existing files are kept.
func InitFilesWith(chainID string, config *cfg.Config, gf *genesis.GenesisFactory) error {
	config.SetChainId(chainID)

	cfgFile := cfg.ConfigFilePath(config.RootDir)
	if tmos.FileExists(cfgFile) {
		logger.Info("Found config file", "path", cfgFile)
	} else {
		if err := cfg.WriteConfigFile(config); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", cfgFile)
	}

	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	genDoc := genesis.NewGenesisDoc(chainID, gf)
	if err := genDoc.Validate(); err != nil {
		return err
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile)
	return nil
}
