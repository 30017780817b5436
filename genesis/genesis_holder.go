package genesis

import (
	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/holiman/uint256"
)

// GenesisHolder is the initial balance of a token holder.
type GenesisHolder struct {
	Address types.Address
	Balance *uint256.Int
}

type genesisHolderJSON struct {
	Address types.Address `json:"address"`
	Balance string        `json:"balance"`
}

func (gh *GenesisHolder) MarshalJSON() ([]byte, error) {
	bal := "0"
	if gh.Balance != nil {
		bal = gh.Balance.Dec()
	}
	return jsonx.Marshal(&genesisHolderJSON{
		Address: gh.Address,
		Balance: bal,
	})
}

func (gh *GenesisHolder) UnmarshalJSON(bz []byte) error {
	tm := &genesisHolderJSON{}
	if err := jsonx.Unmarshal(bz, tm); err != nil {
		return err
	}

	bal, err := uint256.FromDecimal(tm.Balance)
	if err != nil {
		return err
	}

	gh.Address = tm.Address
	gh.Balance = bal
	return nil
}
