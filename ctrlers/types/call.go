package types

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/bytes"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	METHOD_INITIALIZE  = "initialize"
	METHOD_UPDATE_FEES = "update_fees"
	METHOD_BURN        = "burn"
)

// Call is the envelope of a state-changing invocation of the factory.
// Params is the JSON encoding of the method's parameters.
// Sigs are the signatures over the preimage of the call,
// and each recovered signer is regarded as a principal that authorized the call.
type Call struct {
	ChainID string           `json:"chain_id"`
	Nonce   uint64           `json:"nonce"`
	Method  string           `json:"method"`
	Params  bytes.HexBytes   `json:"params"`
	Sigs    []bytes.HexBytes `json:"sigs"`
}

type callPreimage struct {
	ChainID string
	Nonce   uint64
	Method  string
	Params  []byte
}

func NewCall(chainId string, nonce uint64, method string, params interface{}) (*Call, xerrors.XError) {
	bz, err := jsonx.Marshal(params)
	if err != nil {
		return nil, xerrors.ErrInvalidParams.Wrap(err)
	}
	return &Call{
		ChainID: chainId,
		Nonce:   nonce,
		Method:  method,
		Params:  bz,
	}, nil
}

// Preimage returns the message that is hashed and signed.
// Sigs are excluded.
func (call *Call) Preimage() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(&callPreimage{
		ChainID: call.ChainID,
		Nonce:   call.Nonce,
		Method:  call.Method,
		Params:  call.Params,
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	prefix := fmt.Sprintf("\x19BEATOZ-FACTORY(%s) Signed Message:\n%d", call.ChainID, len(bz))
	return append([]byte(prefix), bz...), nil
}

func (call *Call) Hash() ([]byte, xerrors.XError) {
	preimg, xerr := call.Preimage()
	if xerr != nil {
		return nil, xerr
	}
	return ethcrypto.Keccak256(preimg), nil
}

// SignWith appends the signature of `prvKey` to Sigs.
func (call *Call) SignWith(prvKey *ecdsa.PrivateKey) (bytes.HexBytes, xerrors.XError) {
	hmsg, xerr := call.Hash()
	if xerr != nil {
		return nil, xerr
	}
	sig, err := ethcrypto.Sign(hmsg, prvKey)
	if err != nil {
		return nil, xerrors.From(err)
	}
	// [R || S || V] where V is 27 or 28
	sig[64] += 27
	call.Sigs = append(call.Sigs, sig)
	return sig, nil
}

// RecoverSigners returns the addresses of all signers.
func (call *Call) RecoverSigners() ([]types.Address, xerrors.XError) {
	if len(call.Sigs) == 0 {
		return nil, nil
	}

	hmsg, xerr := call.Hash()
	if xerr != nil {
		return nil, xerr
	}

	var signers []types.Address
	for _, sig := range call.Sigs {
		if len(sig) != ethcrypto.SignatureLength {
			return nil, xerrors.ErrInvalidSignature.Wrapf("invalid signature length - expected: %d, actual: %d", ethcrypto.SignatureLength, len(sig))
		}
		v := sig[64]
		if v != 27 && v != 28 {
			return nil, xerrors.ErrInvalidSignature.Wrapf("invalid signature v - expected: 27 or 28, actual: %d", v)
		}

		_sig := bytes.Copy(sig)
		_sig[64] = v - 27
		pubKey, err := ethcrypto.SigToPub(hmsg, _sig)
		if err != nil {
			return nil, xerrors.ErrInvalidSignature.Wrap(err)
		}
		signers = append(signers, types.PubKeyToAddress(pubKey))
	}
	return signers, nil
}

// DecodeParams unmarshals Params into `params`.
func (call *Call) DecodeParams(params interface{}) xerrors.XError {
	if err := jsonx.Unmarshal(call.Params, params); err != nil {
		return xerrors.ErrInvalidParams.Wrap(err)
	}
	return nil
}

func (call *Call) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(call)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (call *Call) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, call); err != nil {
		return xerrors.ErrInvalidCall.Wrap(err)
	}
	return nil
}

func DecodeCall(bz []byte) (*Call, xerrors.XError) {
	call := &Call{}
	if xerr := call.Decode(bz); xerr != nil {
		return nil, xerr
	}
	return call, nil
}
