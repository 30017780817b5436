package types

import (
	"fmt"

	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/bytes"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
)

// TokenInfo is the registry record of a token deployed through the factory.
// TotalSupply mirrors the supply of the token contract and is kept in sync by burning.
type TokenInfo struct {
	Address     types.Address
	Name        string
	Symbol      string
	Decimals    uint32
	TotalSupply *uint256.Int
	Creator     types.Address
	MetadataURI string
	DeployedAt  uint64
}

type tokenInfoJSON struct {
	Address     types.Address `json:"address"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint32        `json:"decimals"`
	TotalSupply string        `json:"total_supply"`
	Creator     types.Address `json:"creator"`
	MetadataURI string        `json:"metadata_uri,omitempty"`
	DeployedAt  uint64        `json:"deployed_at"`
}

func (ti *TokenInfo) Clone() *TokenInfo {
	ret := *ti
	ret.Address = bytes.Copy(ti.Address)
	ret.Creator = bytes.Copy(ti.Creator)
	ret.TotalSupply = new(uint256.Int)
	if ti.TotalSupply != nil {
		ret.TotalSupply.Set(ti.TotalSupply)
	}
	return &ret
}

func (ti *TokenInfo) MarshalJSON() ([]byte, error) {
	supply := "0"
	if ti.TotalSupply != nil {
		supply = ti.TotalSupply.Dec()
	}
	return jsonx.Marshal(&tokenInfoJSON{
		Address:     ti.Address,
		Name:        ti.Name,
		Symbol:      ti.Symbol,
		Decimals:    ti.Decimals,
		TotalSupply: supply,
		Creator:     ti.Creator,
		MetadataURI: ti.MetadataURI,
		DeployedAt:  ti.DeployedAt,
	})
}

func (ti *TokenInfo) UnmarshalJSON(bz []byte) error {
	tmp := &tokenInfoJSON{}
	if err := jsonx.Unmarshal(bz, tmp); err != nil {
		return err
	}
	supply, err := uint256.FromDecimal(tmp.TotalSupply)
	if err != nil {
		return fmt.Errorf("wrong total_supply %q: %w", tmp.TotalSupply, err)
	}

	ti.Address = tmp.Address
	ti.Name = tmp.Name
	ti.Symbol = tmp.Symbol
	ti.Decimals = tmp.Decimals
	ti.TotalSupply = supply
	ti.Creator = tmp.Creator
	ti.MetadataURI = tmp.MetadataURI
	ti.DeployedAt = tmp.DeployedAt
	return nil
}

func (ti *TokenInfo) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(ti)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (ti *TokenInfo) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, ti); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (ti *TokenInfo) String() string {
	bz, err := jsonx.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Sprintf("{error: %v}", err)
	}
	return string(bz)
}
