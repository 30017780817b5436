package commands

import (
	"os"
	"path/filepath"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	"github.com/beatoz/beatoz-factory/libs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/cli"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var (
	rootConfig = cfg.DefaultConfig()
	logger     = log.NewTMLogger(log.NewSyncWriter(os.Stdout))
)

func init() {
	registerFlagsRootCmd(RootCmd)
}

func registerFlagsRootCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log_level", rootConfig.LogLevel, "log level")
}

// ParseConfig retrieves the default environment configuration,
// sets up the root and ensures that the root exists
func ParseConfig() (*cfg.Config, error) {
	conf, err := cfg.LoadConfig(viper.GetString(cli.HomeFlag))
	if err != nil {
		return nil, err
	}
	if lvl := viper.GetString("log_level"); lvl != "" {
		conf.LogLevel = lvl
	}
	if err := tmos.EnsureDir(filepath.Join(conf.RootDir, cfg.DefaultConfigDir), libs.DefaultDirPerm); err != nil {
		return nil, err
	}
	return conf, nil
}

// RootCmd is the root command for the factory.
var RootCmd = &cobra.Command{
	Use:   "factory",
	Short: "BEATOZ token factory",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		rootConfig, err = ParseConfig()
		if err != nil {
			return err
		}

		logger, err = tmflags.ParseLogLevel(rootConfig.LogLevel, logger, tmcfg.DefaultLogLevel)
		if err != nil {
			return err
		}
		if viper.GetBool(cli.TraceFlag) {
			logger = log.NewTracingLogger(logger)
		}

		logger = logger.With("module", "main")
		return nil
	},
}
