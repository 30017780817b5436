package bytes

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	tmrand "github.com/tendermint/tendermint/libs/rand"
	"strings"
)

// HexBytes enables HEX-encoding for json/encoding.
type HexBytes []byte

// This is the point of Bytes.
func (hb HexBytes) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(hb))
	jbz := make([]byte, len(s)+2)
	jbz[0] = '"'
	copy(jbz[1:], s)
	jbz[len(jbz)-1] = '"'
	return jbz, nil
}

// This is the point of Bytes.
func (hb *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid hex string: %s", data)
	}

	// escape double quote
	val := data[1 : len(data)-1]
	if isHex(string(val)) {
		bz, err := hex.DecodeString(strings.TrimPrefix(string(val), "0x"))
		if err != nil {
			return err
		}
		*hb = bz
	} else {
		// base64
		bz, err := base64.StdEncoding.DecodeString(string(val))
		if err != nil {
			return err
		}
		*hb = bz
	}
	return nil
}

// Bytes fulfills various interfaces in light-web3, etc...
func (hb HexBytes) Bytes() []byte {
	return hb
}

func (hb HexBytes) Copy() HexBytes {
	return Copy(hb)
}

func (hb HexBytes) Compare(o HexBytes) int {
	return Compare(hb, o)
}

func (hb HexBytes) Equal(o HexBytes) bool {
	return Equal(hb, o)
}

func Compare(h1, h2 HexBytes) int {
	return bytes.Compare(h1, h2)
}

func Equal(h1, h2 HexBytes) bool {
	return bytes.Equal(h1, h2)
}

func Copy(s HexBytes) HexBytes {
	if s == nil {
		return nil
	}
	ret := make(HexBytes, len(s))
	copy(ret, s)
	return ret
}

func (hb HexBytes) String() string {
	return strings.ToUpper(hex.EncodeToString(hb))
}

// Format writes either address of 0th element in a slice in base 16 notation,
// with leading 0x (%p), or casts HexBytes to bytes and writes as hexadecimal
// string to s.
func (hb HexBytes) Format(s fmt.State, verb rune) {
	switch verb {
	case 'p':
		s.Write([]byte(fmt.Sprintf("%p", hb)))
	default:
		s.Write([]byte(fmt.Sprintf("%X", []byte(hb))))
	}
}

// FromHex decodes `s`, which may have the prefix "0x".
func FromHex(s string) (HexBytes, error) {
	bz, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, err
	}
	return bz, nil
}

func RandBytes(n int) []byte {
	return tmrand.Bytes(n)
}

func RandInt64N(n int64) int64 {
	return tmrand.Int63n(n)
}

func ClearBytes(bz []byte) {
	for i := range bz {
		bz[i] = 0
	}
}

func isHex(s string) bool {
	v := s
	if len(v)%2 != 0 {
		return false
	}
	if strings.HasPrefix(v, "0x") {
		v = v[2:]
	}
	for _, b := range []byte(v) {
		if !(b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F') {
			return false
		}
	}
	return true
}
