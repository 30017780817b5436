package types

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/beatoz/beatoz-factory/types/bytes"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const AddrSize = 20

// Address identifies an account, a token contract or the factory's admin and treasury.
type Address = bytes.HexBytes

func ZeroAddress() Address {
	return make([]byte, AddrSize)
}

func RandAddress() Address {
	return bytes.RandBytes(AddrSize)
}

func PubKeyToAddress(pub *ecdsa.PublicKey) Address {
	addr := ethcrypto.PubkeyToAddress(*pub)
	return addr[:]
}

func HexToAddress(s string) (Address, error) {
	addr, err := bytes.FromHex(s)
	if err != nil {
		return nil, err
	}
	if len(addr) != AddrSize {
		return nil, fmt.Errorf("wrong address length: %d", len(addr))
	}
	return addr, nil
}

func IsValidAddress(addr Address) bool {
	return len(addr) == AddrSize
}
