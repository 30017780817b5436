package genesis

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	tmos "github.com/tendermint/tendermint/libs/os"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// GenesisDoc bootstraps the factory ledger and the token ledger.
type GenesisDoc struct {
	ChainID     string          `json:"chain_id"`
	GenesisTime time.Time       `json:"genesis_time"`
	Factory     *GenesisFactory `json:"factory,omitempty"`
	Tokens      []*GenesisToken `json:"tokens"`
}

// GenesisFactory initializes the factory at genesis.
// Without it, the factory waits for the `initialize` call.
type GenesisFactory struct {
	Admin       types.Address `json:"admin"`
	Treasury    types.Address `json:"treasury"`
	BaseFee     string        `json:"base_fee"`
	MetadataFee string        `json:"metadata_fee"`
}

// GenesisToken is a token registered in the factory at genesis.
// Its total supply is the sum of its holders' balances.
type GenesisToken struct {
	Address     types.Address    `json:"address"`
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	Decimals    uint32           `json:"decimals"`
	Creator     types.Address    `json:"creator"`
	MetadataURI string           `json:"metadata_uri,omitempty"`
	Holders     []*GenesisHolder `json:"holders"`
}

func NewGenesisDoc(chainID string, factory *GenesisFactory, tokens ...*GenesisToken) *GenesisDoc {
	return &GenesisDoc{
		ChainID:     chainID,
		GenesisTime: tmtime.Now(),
		Factory:     factory,
		Tokens:      tokens,
	}
}

func (gt *GenesisToken) TotalSupply() *uint256.Int {
	sum := uint256.NewInt(0)
	for _, h := range gt.Holders {
		if h.Balance != nil {
			_ = sum.Add(sum, h.Balance)
		}
	}
	return sum
}

func (doc *GenesisDoc) Validate() error {
	if doc.ChainID == "" {
		return errors.New("chain_id is empty")
	}
	if doc.GenesisTime.IsZero() {
		return errors.New("genesis_time is zero")
	}

	if gf := doc.Factory; gf != nil {
		if !types.IsValidAddress(gf.Admin) {
			return fmt.Errorf("wrong admin address: %v", gf.Admin)
		}
		if !types.IsValidAddress(gf.Treasury) {
			return fmt.Errorf("wrong treasury address: %v", gf.Treasury)
		}
		for _, fee := range []string{gf.BaseFee, gf.MetadataFee} {
			amt, err := types.ParseAmount(fee)
			if err != nil {
				return err
			}
			if _, xerr := types.ToUint256(amt); xerr != nil {
				return fmt.Errorf("wrong fee %q: %w", fee, xerr)
			}
		}
	}

	seen := make(map[string]struct{})
	for i, gt := range doc.Tokens {
		if !types.IsValidAddress(gt.Address) {
			return fmt.Errorf("wrong address of tokens[%d]: %v", i, gt.Address)
		}
		if _, ok := seen[gt.Address.String()]; ok {
			return fmt.Errorf("duplicated token: %v", gt.Address)
		}
		seen[gt.Address.String()] = struct{}{}

		if !types.IsValidAddress(gt.Creator) {
			return fmt.Errorf("wrong creator of tokens[%d]: %v", i, gt.Creator)
		}

		supply := uint256.NewInt(0)
		for j, h := range gt.Holders {
			if !types.IsValidAddress(h.Address) {
				return fmt.Errorf("wrong holder address of tokens[%d].holders[%d]: %v", i, j, h.Address)
			}
			if h.Balance == nil {
				return fmt.Errorf("no balance of tokens[%d].holders[%d]", i, j)
			}
			if _, overflow := supply.AddOverflow(supply, h.Balance); overflow {
				return fmt.Errorf("total supply of %v overflows", gt.Address)
			}
		}
	}
	return nil
}

// Hash is the keccak256 of the JSON encoding of the document.
func (doc *GenesisDoc) Hash() ([]byte, error) {
	bz, err := jsonx.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return ethcrypto.Keccak256(bz), nil
}

func (doc *GenesisDoc) SaveAs(file string) error {
	bz, err := jsonx.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return tmos.WriteFile(file, bz, 0o644)
}

func GenesisDocFromJSON(bz []byte) (*GenesisDoc, error) {
	doc := &GenesisDoc{}
	if err := jsonx.Unmarshal(bz, doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	return doc, nil
}

func GenesisDocFromFile(file string) (*GenesisDoc, error) {
	bz, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("couldn't read genesis file: %w", err)
	}
	return GenesisDocFromJSON(bz)
}
