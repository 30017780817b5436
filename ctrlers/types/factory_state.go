package types

import (
	"github.com/beatoz/beatoz-factory/types"
	"github.com/holiman/uint256"
)

// FactoryState is the snapshot of the factory's configuration and counters.
type FactoryState struct {
	Admin       types.Address
	Treasury    types.Address
	BaseFee     *uint256.Int
	MetadataFee *uint256.Int
	TokenCount  uint32
}

func (fs *FactoryState) IsInitialized() bool {
	return fs.Admin != nil
}
