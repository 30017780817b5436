package types

import (
	"encoding/binary"

	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/bytes"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
)

// AddressItem, AmountItem and Uint32Item are the scalar values stored in the ledgers.

type AddressItem struct {
	Addr types.Address
}

func NewAddressItem(addr types.Address) *AddressItem {
	return &AddressItem{Addr: bytes.Copy(addr)}
}

func (item *AddressItem) Encode() ([]byte, xerrors.XError) {
	return bytes.Copy(item.Addr), nil
}

func (item *AddressItem) Decode(bz []byte) xerrors.XError {
	if len(bz) != types.AddrSize {
		return xerrors.ErrInvalidAddress.Wrapf("wrong length: %d", len(bz))
	}
	item.Addr = bytes.Copy(bz)
	return nil
}

type AmountItem struct {
	Amount *uint256.Int
}

func NewAmountItem(amt *uint256.Int) *AmountItem {
	return &AmountItem{Amount: new(uint256.Int).Set(amt)}
}

func (item *AmountItem) Encode() ([]byte, xerrors.XError) {
	bz := item.Amount.Bytes32()
	return bz[:], nil
}

func (item *AmountItem) Decode(bz []byte) xerrors.XError {
	if len(bz) > 32 {
		return xerrors.ErrOverFlow.Wrapf("amount of %d bytes", len(bz))
	}
	item.Amount = new(uint256.Int).SetBytes(bz)
	return nil
}

type Uint32Item struct {
	Value uint32
}

func NewUint32Item(v uint32) *Uint32Item {
	return &Uint32Item{Value: v}
}

func (item *Uint32Item) Encode() ([]byte, xerrors.XError) {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, item.Value)
	return bz, nil
}

func (item *Uint32Item) Decode(bz []byte) xerrors.XError {
	if len(bz) != 4 {
		return xerrors.ErrCommon.Wrapf("wrong uint32 length: %d", len(bz))
	}
	item.Value = binary.BigEndian.Uint32(bz)
	return nil
}
