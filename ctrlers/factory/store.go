package factory

import (
	"bytes"
	"math/big"

	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	v1 "github.com/beatoz/beatoz-factory/ledger/v1"
	"github.com/beatoz/beatoz-factory/types"
	btzbytes "github.com/beatoz/beatoz-factory/types/bytes"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
)

// newFactoryItemFor returns an empty item of the type stored under `key`.
func newFactoryItemFor(key v1.LedgerKey) v1.ILedgerItem {
	switch {
	case bytes.Equal(key, v1.LedgerKeyAdmin()), bytes.Equal(key, v1.LedgerKeyTreasury()):
		return &ctrlertypes.AddressItem{}
	case bytes.Equal(key, v1.LedgerKeyBaseFee()), bytes.Equal(key, v1.LedgerKeyMetadataFee()):
		return &ctrlertypes.AmountItem{}
	case bytes.Equal(key, v1.LedgerKeyTokenCount()):
		return &ctrlertypes.Uint32Item{}
	case bytes.HasPrefix(key, v1.KeyPrefixTokenIndex):
		return &ctrlertypes.Uint32Item{}
	case bytes.HasPrefix(key, v1.KeyPrefixTokenInfo):
		return &ctrlertypes.TokenInfo{}
	}
	panic("unknown key of factory ledger")
}

// FactoryStore is the key-addressed storage of the factory.
// It has no logic; absence is reported by nil or false and only ledger faults are errors.
type FactoryStore struct {
	ledger v1.IKVState
}

func NewFactoryStore(ledger v1.IKVState) *FactoryStore {
	return &FactoryStore{ledger: ledger}
}

func (s *FactoryStore) HasAdmin(exec bool) bool {
	return s.GetAdmin(exec) != nil
}

func (s *FactoryStore) GetAdmin(exec bool) types.Address {
	return s.getAddress(v1.LedgerKeyAdmin(), exec)
}

func (s *FactoryStore) SetAdmin(addr types.Address, exec bool) xerrors.XError {
	return s.ledger.Set(v1.LedgerKeyAdmin(), ctrlertypes.NewAddressItem(addr), exec)
}

func (s *FactoryStore) GetTreasury(exec bool) types.Address {
	return s.getAddress(v1.LedgerKeyTreasury(), exec)
}

func (s *FactoryStore) SetTreasury(addr types.Address, exec bool) xerrors.XError {
	return s.ledger.Set(v1.LedgerKeyTreasury(), ctrlertypes.NewAddressItem(addr), exec)
}

func (s *FactoryStore) GetBaseFee(exec bool) *uint256.Int {
	return s.getAmount(v1.LedgerKeyBaseFee(), exec)
}

func (s *FactoryStore) SetBaseFee(fee *uint256.Int, exec bool) xerrors.XError {
	return s.ledger.Set(v1.LedgerKeyBaseFee(), ctrlertypes.NewAmountItem(fee), exec)
}

func (s *FactoryStore) GetMetadataFee(exec bool) *uint256.Int {
	return s.getAmount(v1.LedgerKeyMetadataFee(), exec)
}

func (s *FactoryStore) SetMetadataFee(fee *uint256.Int, exec bool) xerrors.XError {
	return s.ledger.Set(v1.LedgerKeyMetadataFee(), ctrlertypes.NewAmountItem(fee), exec)
}

func (s *FactoryStore) GetTokenCount(exec bool) uint32 {
	item, xerr := s.ledger.Get(v1.LedgerKeyTokenCount(), exec)
	if xerr != nil {
		return 0
	}
	return item.(*ctrlertypes.Uint32Item).Value
}

// GetTokenInfo returns a copy of the record at `idx`.
func (s *FactoryStore) GetTokenInfo(idx uint32, exec bool) (*ctrlertypes.TokenInfo, bool) {
	if idx >= s.GetTokenCount(exec) {
		return nil, false
	}
	item, xerr := s.ledger.Get(v1.LedgerKeyTokenInfo(idx), exec)
	if xerr != nil {
		return nil, false
	}
	return item.(*ctrlertypes.TokenInfo).Clone(), true
}

// FindTokenInfo looks the record up by the token's address.
func (s *FactoryStore) FindTokenInfo(tokenAddr types.Address, exec bool) (*ctrlertypes.TokenInfo, uint32, bool) {
	item, xerr := s.ledger.Get(v1.LedgerKeyTokenIndex(tokenAddr), exec)
	if xerr != nil {
		return nil, 0, false
	}
	idx := item.(*ctrlertypes.Uint32Item).Value
	ti, ok := s.GetTokenInfo(idx, exec)
	return ti, idx, ok
}

// AddTokenInfo appends `ti` to the registry and returns its index.
func (s *FactoryStore) AddTokenInfo(ti *ctrlertypes.TokenInfo, exec bool) (uint32, xerrors.XError) {
	if !types.IsValidAddress(ti.Address) {
		return 0, xerrors.ErrInvalidAddress.Wrapf("token address: %v", ti.Address)
	}
	if _, _, ok := s.FindTokenInfo(ti.Address, exec); ok {
		return 0, xerrors.ErrDuplicatedKey.Wrapf("token address: %v", ti.Address)
	}

	idx := s.GetTokenCount(exec)
	if xerr := s.ledger.Set(v1.LedgerKeyTokenInfo(idx), ti.Clone(), exec); xerr != nil {
		return 0, xerr
	}
	if xerr := s.ledger.Set(v1.LedgerKeyTokenIndex(ti.Address), ctrlertypes.NewUint32Item(idx), exec); xerr != nil {
		return 0, xerr
	}
	if xerr := s.ledger.Set(v1.LedgerKeyTokenCount(), ctrlertypes.NewUint32Item(idx+1), exec); xerr != nil {
		return 0, xerr
	}
	return idx, nil
}

// UpdateTokenSupply adds the signed `delta` to the recorded supply of the token.
// It returns false if the token is not registered.
// The supply does not go below zero.
func (s *FactoryStore) UpdateTokenSupply(tokenAddr types.Address, delta *big.Int, exec bool) (bool, xerrors.XError) {
	ti, idx, ok := s.FindTokenInfo(tokenAddr, exec)
	if !ok {
		return false, nil
	}

	supply := ti.TotalSupply.ToBig()
	supply.Add(supply, delta)
	if supply.Sign() < 0 {
		supply.SetInt64(0)
	}
	newSupply, overflow := uint256.FromBig(supply)
	if overflow {
		return false, xerrors.ErrOverFlow.Wrapf("supply of %v", tokenAddr)
	}
	ti.TotalSupply = newSupply

	if xerr := s.ledger.Set(v1.LedgerKeyTokenInfo(idx), ti, exec); xerr != nil {
		return false, xerr
	}
	return true, nil
}

// IterateTokenInfos visits the records in index order.
func (s *FactoryStore) IterateTokenInfos(cb func(uint32, *ctrlertypes.TokenInfo) xerrors.XError, exec bool) xerrors.XError {
	return s.ledger.Seek(v1.KeyPrefixTokenInfo, true, func(key v1.LedgerKey, item v1.ILedgerItem) xerrors.XError {
		idx := v1.TokenIndexOf(key)
		return cb(idx, item.(*ctrlertypes.TokenInfo).Clone())
	}, exec)
}

func (s *FactoryStore) GetFactoryState(exec bool) *ctrlertypes.FactoryState {
	return &ctrlertypes.FactoryState{
		Admin:       s.GetAdmin(exec),
		Treasury:    s.GetTreasury(exec),
		BaseFee:     s.GetBaseFee(exec),
		MetadataFee: s.GetMetadataFee(exec),
		TokenCount:  s.GetTokenCount(exec),
	}
}

func (s *FactoryStore) getAddress(key v1.LedgerKey, exec bool) types.Address {
	item, xerr := s.ledger.Get(key, exec)
	if xerr != nil {
		return nil
	}
	return btzbytes.Copy(item.(*ctrlertypes.AddressItem).Addr)
}

// getAmount returns zero if nothing is stored under `key`.
func (s *FactoryStore) getAmount(key v1.LedgerKey, exec bool) *uint256.Int {
	item, xerr := s.ledger.Get(key, exec)
	if xerr != nil {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(item.(*ctrlertypes.AmountItem).Amount)
}
