package main

import (
	"path/filepath"

	"github.com/beatoz/beatoz-factory/cmd/commands"
	"github.com/beatoz/beatoz-factory/libs"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.NewInitializeCmd(),
		commands.NewUpdateFeesCmd(),
		commands.NewBurnCmd(),
		commands.NewQueryCmd(),
		commands.NewWalletKeyCmd(),
		commands.VersionCmd,
	)

	executor := cli.PrepareBaseCmd(commands.RootCmd, "FACTORY", filepath.Join(libs.GetHome(), ".beatoz-factory"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
