package v1

import (
	"encoding/binary"

	"github.com/beatoz/beatoz-factory/types"
)

var (
	KeyPrefixFactory    = []byte{0x40}
	KeyPrefixTokenInfo  = []byte{0x41}
	KeyPrefixTokenIndex = []byte{0x42}
	KeyPrefixBalance    = []byte{0x50}
	KeyPrefixSupply     = []byte{0x51}
)

const (
	factoryFieldAdmin byte = iota + 1
	factoryFieldTreasury
	factoryFieldBaseFee
	factoryFieldMetadataFee
	factoryFieldTokenCount
)

func factoryKey(field byte) LedgerKey {
	k := make([]byte, len(KeyPrefixFactory)+1)
	copy(k, KeyPrefixFactory)
	k[len(KeyPrefixFactory)] = field
	return k
}

func LedgerKeyAdmin() LedgerKey {
	return factoryKey(factoryFieldAdmin)
}

func LedgerKeyTreasury() LedgerKey {
	return factoryKey(factoryFieldTreasury)
}

func LedgerKeyBaseFee() LedgerKey {
	return factoryKey(factoryFieldBaseFee)
}

func LedgerKeyMetadataFee() LedgerKey {
	return factoryKey(factoryFieldMetadataFee)
}

func LedgerKeyTokenCount() LedgerKey {
	return factoryKey(factoryFieldTokenCount)
}

func LedgerKeyTokenInfo(idx uint32) LedgerKey {
	k := make([]byte, len(KeyPrefixTokenInfo)+4)
	copy(k, KeyPrefixTokenInfo)
	binary.BigEndian.PutUint32(k[len(KeyPrefixTokenInfo):], idx)
	return k
}

func LedgerKeyTokenIndex(tokenAddr types.Address) LedgerKey {
	k := make([]byte, len(KeyPrefixTokenIndex)+len(tokenAddr))
	copy(k, KeyPrefixTokenIndex)
	copy(k[len(KeyPrefixTokenIndex):], tokenAddr)
	return k
}

func LedgerKeyBalance(tokenAddr, holder types.Address) LedgerKey {
	k := make([]byte, len(KeyPrefixBalance)+len(tokenAddr)+len(holder))
	copy(k, KeyPrefixBalance)
	copy(k[len(KeyPrefixBalance):], tokenAddr)
	copy(k[len(KeyPrefixBalance)+len(tokenAddr):], holder)
	return k
}

func LedgerKeySupply(tokenAddr types.Address) LedgerKey {
	k := make([]byte, len(KeyPrefixSupply)+len(tokenAddr))
	copy(k, KeyPrefixSupply)
	copy(k[len(KeyPrefixSupply):], tokenAddr)
	return k
}

// prefixEnd returns the smallest key which is greater than all keys having `prefix`.
// It returns nil if there is no such key.
func prefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// TokenIndexOf returns the registry index encoded in the key made by LedgerKeyTokenInfo.
func TokenIndexOf(key LedgerKey) uint32 {
	return binary.BigEndian.Uint32(key[len(KeyPrefixTokenInfo):])
}
