package commands

import (
	"encoding/binary"
	"fmt"

	"github.com/beatoz/beatoz-factory/types"
	"github.com/spf13/cobra"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

var queryHeight int64

// NewQueryCmd returns the command that reads the committed state of the factory.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the factory state",
	}
	cmd.PersistentFlags().Int64Var(&queryHeight, "height", 0, "the height to query. 0 means the latest")

	cmd.AddCommand(
		newQuerySubCmd("state", "Show the admin, the treasury, the fees and the token count", "factory/state", cobra.NoArgs, noData),
		newQuerySubCmd("token-count", "Show the number of the registered tokens", "factory/token_count", cobra.NoArgs, noData),
		newQuerySubCmd("token-info <index>", "Show the token registered at the index", "factory/token_info", cobra.ExactArgs(1),
			func(args []string) ([]byte, error) {
				return []byte(args[0]), nil
			}),
		newQuerySubCmd("token <address>", "Show the registered token", "factory/token", cobra.ExactArgs(1),
			func(args []string) ([]byte, error) {
				return types.HexToAddress(args[0])
			}),
		newQuerySubCmd("tokens", "Show all registered tokens", "factory/tokens", cobra.NoArgs, noData),
		newQuerySubCmd("balance <token> <holder>", "Show the balance of the holder", "token/balance", cobra.ExactArgs(2),
			func(args []string) ([]byte, error) {
				token, err := types.HexToAddress(args[0])
				if err != nil {
					return nil, err
				}
				holder, err := types.HexToAddress(args[1])
				if err != nil {
					return nil, err
				}
				return append(token, holder...), nil
			}),
		newQuerySubCmd("supply <token>", "Show the total supply of the token", "token/supply", cobra.ExactArgs(1),
			func(args []string) ([]byte, error) {
				return types.HexToAddress(args[0])
			}),
		newQuerySubCmd("height", "Show the last committed height", "height", cobra.NoArgs, noData),
	)
	return cmd
}

func noData([]string) ([]byte, error) {
	return nil, nil
}

func newQuerySubCmd(use, short, path string, argsCheck cobra.PositionalArgs, dataOf func([]string) ([]byte, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  argsCheck,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dataOf(args)
			if err != nil {
				return err
			}
			app, err := openFactoryApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			resp := app.Query(abcitypes.RequestQuery{
				Path:   path,
				Data:   data,
				Height: queryHeight,
			})
			if resp.Code != abcitypes.CodeTypeOK {
				return fmt.Errorf("query %s failed (code: %d): %s", path, resp.Code, resp.Log)
			}
			if path == "height" {
				fmt.Println(binary.BigEndian.Uint64(resp.Value))
			} else {
				fmt.Println(string(resp.Value))
			}
			return nil
		},
	}
}
