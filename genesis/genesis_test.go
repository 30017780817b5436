package genesis

import (
	"path/filepath"
	"testing"

	"github.com/beatoz/beatoz-factory/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func testGenesisDoc() *GenesisDoc {
	return NewGenesisDoc("test-chain",
		&GenesisFactory{
			Admin:       types.RandAddress(),
			Treasury:    types.RandAddress(),
			BaseFee:     "100",
			MetadataFee: "50",
		},
		&GenesisToken{
			Address:  types.RandAddress(),
			Name:     "Alpha",
			Symbol:   "ALP",
			Decimals: 18,
			Creator:  types.RandAddress(),
			Holders: []*GenesisHolder{
				{Address: types.RandAddress(), Balance: uint256.NewInt(50)},
				{Address: types.RandAddress(), Balance: uint256.NewInt(70)},
			},
		},
	)
}

func TestGenesisDoc_SaveAndLoad(t *testing.T) {
	doc := testGenesisDoc()
	require.NoError(t, doc.Validate())
	require.Equal(t, uint64(120), doc.Tokens[0].TotalSupply().Uint64())

	file := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, doc.SaveAs(file))

	loaded, err := GenesisDocFromFile(file)
	require.NoError(t, err)
	require.Equal(t, doc.ChainID, loaded.ChainID)
	require.True(t, doc.GenesisTime.Equal(loaded.GenesisTime))
	require.Equal(t, doc.Factory, loaded.Factory)
	require.Equal(t, doc.Tokens, loaded.Tokens)

	h0, err := doc.Hash()
	require.NoError(t, err)
	h1, err := loaded.Hash()
	require.NoError(t, err)
	require.Equal(t, h0, h1)
}

func TestGenesisDoc_Validate(t *testing.T) {
	doc := testGenesisDoc()
	doc.Factory.BaseFee = "-1"
	require.Error(t, doc.Validate())

	doc = testGenesisDoc()
	doc.Factory.Admin = doc.Factory.Admin[:10]
	require.Error(t, doc.Validate())

	doc = testGenesisDoc()
	doc.Tokens = append(doc.Tokens, doc.Tokens[0])
	require.ErrorContains(t, doc.Validate(), "duplicated token")

	doc = testGenesisDoc()
	doc.Tokens[0].Holders[0].Balance = new(uint256.Int).SetAllOne()
	require.ErrorContains(t, doc.Validate(), "overflows")

	doc = testGenesisDoc()
	doc.Factory = nil
	require.NoError(t, doc.Validate())
}

func TestGenesisDoc_NilBalance(t *testing.T) {
	doc := testGenesisDoc()
	doc.Tokens[0].Holders[1].Balance = nil

	require.ErrorContains(t, doc.Validate(), "no balance")
	require.Equal(t, uint64(50), doc.Tokens[0].TotalSupply().Uint64())

	_, err := doc.Hash()
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "genesis.json")
	require.NotPanics(t, func() {
		require.NoError(t, doc.SaveAs(file))
	})
}

func TestGenesisDocFromJSON_Invalid(t *testing.T) {
	_, err := GenesisDocFromJSON([]byte(`{"chain_id":""}`))
	require.Error(t, err)

	_, err = GenesisDocFromJSON([]byte(`{"chain_id":"c","genesis_time":"2024-01-01T00:00:00Z","tokens":[{"address":"0x01","holders":[]}]}`))
	require.ErrorContains(t, err, "wrong address")
}
