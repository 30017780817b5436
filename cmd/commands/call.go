package commands

import (
	"fmt"

	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/genesis"
	"github.com/beatoz/beatoz-factory/libs"
	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/node"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/spf13/cobra"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

var (
	keyFile  string
	simulate bool
)

func addCallFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&keyFile, "key", "", "the wallet key file of the signer")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "run the call without committing it")
	_ = cmd.MarkFlagRequired("key")
}

func NewInitializeCmd() *cobra.Command {
	var argAdmin, argTreasury, argBaseFee, argMetadataFee string
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Set the admin, the treasury and the fees of the factory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndExecute(ctrlertypes.METHOD_INITIALIZE, func(signer types.Address) (interface{}, error) {
				admin, err := addressOrSigner(argAdmin, signer)
				if err != nil {
					return nil, err
				}
				treasury, err := types.HexToAddress(argTreasury)
				if err != nil {
					return nil, fmt.Errorf("wrong treasury: %w", err)
				}
				return &ctrlertypes.InitializeParams{
					Admin:       admin,
					Treasury:    treasury,
					BaseFee:     argBaseFee,
					MetadataFee: argMetadataFee,
				}, nil
			})
		},
	}
	addCallFlags(cmd)
	cmd.Flags().StringVar(&argAdmin, "admin", "", "the admin address. the signer is the admin by default")
	cmd.Flags().StringVar(&argTreasury, "treasury", "", "the treasury address")
	cmd.Flags().StringVar(&argBaseFee, "base_fee", "0", "the base fee")
	cmd.Flags().StringVar(&argMetadataFee, "metadata_fee", "0", "the metadata fee")
	_ = cmd.MarkFlagRequired("treasury")
	return cmd
}

func NewUpdateFeesCmd() *cobra.Command {
	var argAdmin, argBaseFee, argMetadataFee string
	cmd := &cobra.Command{
		Use:   "update-fees",
		Short: "Update the fees of the factory. An omitted fee is unchanged",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndExecute(ctrlertypes.METHOD_UPDATE_FEES, func(signer types.Address) (interface{}, error) {
				admin, err := addressOrSigner(argAdmin, signer)
				if err != nil {
					return nil, err
				}
				params := &ctrlertypes.UpdateFeesParams{Admin: admin}
				if cmd.Flags().Changed("base_fee") {
					params.BaseFee = &argBaseFee
				}
				if cmd.Flags().Changed("metadata_fee") {
					params.MetadataFee = &argMetadataFee
				}
				return params, nil
			})
		},
	}
	addCallFlags(cmd)
	cmd.Flags().StringVar(&argAdmin, "admin", "", "the admin address. the signer is the admin by default")
	cmd.Flags().StringVar(&argBaseFee, "base_fee", "", "the new base fee")
	cmd.Flags().StringVar(&argMetadataFee, "metadata_fee", "", "the new metadata fee")
	return cmd
}

func NewBurnCmd() *cobra.Command {
	var argToken, argFrom, argAmount string
	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Burn tokens of the holder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndExecute(ctrlertypes.METHOD_BURN, func(signer types.Address) (interface{}, error) {
				token, err := types.HexToAddress(argToken)
				if err != nil {
					return nil, fmt.Errorf("wrong token: %w", err)
				}
				from, err := addressOrSigner(argFrom, signer)
				if err != nil {
					return nil, err
				}
				return &ctrlertypes.BurnParams{
					Token:  token,
					From:   from,
					Amount: argAmount,
				}, nil
			})
		},
	}
	addCallFlags(cmd)
	cmd.Flags().StringVar(&argToken, "token", "", "the token address")
	cmd.Flags().StringVar(&argFrom, "from", "", "the holder address. the signer is the holder by default")
	cmd.Flags().StringVar(&argAmount, "amount", "", "the amount to burn")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func addressOrSigner(s string, signer types.Address) (types.Address, error) {
	if s == "" {
		return signer, nil
	}
	addr, err := types.HexToAddress(s)
	if err != nil {
		return nil, fmt.Errorf("wrong address %q: %w", s, err)
	}
	return addr, nil
}

// openFactoryApp opens the ledgers under the root and loads the genesis into them if they are empty.
func openFactoryApp() (*node.FactoryApp, error) {
	app, err := node.NewFactoryApp(rootConfig, logger)
	if err != nil {
		return nil, err
	}
	if app.LastHeight() > 0 {
		return app, nil
	}

	genDoc, err := genesis.GenesisDocFromFile(rootConfig.GenesisFile())
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if _, xerr := app.InitChain(genDoc); xerr != nil {
		_ = app.Close()
		return nil, xerr
	}
	return app, nil
}

func signAndExecute(method string, paramsOf func(signer types.Address) (interface{}, error)) error {
	wk, err := unlockWalletKey(libs.ExpandPath(keyFile))
	if err != nil {
		return err
	}

	params, err := paramsOf(wk.Address())
	if err != nil {
		return err
	}

	app, err := openFactoryApp()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("fail to close the factory", "error", err)
		}
	}()

	call, xerr := ctrlertypes.NewCall(rootConfig.ChainID(), app.CallCount(), method, params)
	if xerr != nil {
		return xerr
	}
	if _, xerr := call.SignWith(wk.PrvKey()); xerr != nil {
		return xerr
	}

	ret, xerr := app.Execute(call, !simulate)
	if xerr != nil {
		return xerr
	}
	if !simulate {
		appHash, height, xerr := app.Commit()
		if xerr != nil {
			return xerr
		}
		logger.Info("Committed", "method", method, "height", height, "appHash", appHash)
	}
	return printEvents(ret.Events)
}

func printEvents(events []abcitypes.Event) error {
	type eventJSON struct {
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
	}
	out := make([]*eventJSON, len(events))
	for i, evt := range events {
		out[i] = &eventJSON{Type: evt.Type, Attributes: make(map[string]string)}
		for _, attr := range evt.Attributes {
			out[i].Attributes[string(attr.Key)] = string(attr.Value)
		}
	}
	bz, err := jsonx.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}
