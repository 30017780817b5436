package types

import (
	"testing"

	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func newTestCall(t *testing.T) *Call {
	call, xerr := NewCall("test-chain", 1, METHOD_BURN, &BurnParams{
		Token:  types.RandAddress(),
		From:   types.RandAddress(),
		Amount: "30",
	})
	require.NoError(t, xerr)
	return call
}

func TestCall_SignAndRecover(t *testing.T) {
	prv0, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	prv1, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	call := newTestCall(t)
	_, xerr := call.SignWith(prv0)
	require.NoError(t, xerr)
	_, xerr = call.SignWith(prv1)
	require.NoError(t, xerr)
	require.Len(t, call.Sigs, 2)

	signers, xerr := call.RecoverSigners()
	require.NoError(t, xerr)
	require.Len(t, signers, 2)
	require.Equal(t, types.PubKeyToAddress(&prv0.PublicKey), signers[0])
	require.Equal(t, types.PubKeyToAddress(&prv1.PublicKey), signers[1])
}

func TestCall_TamperedParams(t *testing.T) {
	prv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	call := newTestCall(t)
	_, xerr := call.SignWith(prv)
	require.NoError(t, xerr)

	call.Params = append(call.Params[:len(call.Params)-1], ' ', '}')
	signers, xerr := call.RecoverSigners()
	require.NoError(t, xerr)
	require.Len(t, signers, 1)
	require.NotEqual(t, types.PubKeyToAddress(&prv.PublicKey), signers[0])
}

func TestCall_WrongChainID(t *testing.T) {
	prv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	call := newTestCall(t)
	_, xerr := call.SignWith(prv)
	require.NoError(t, xerr)

	call.ChainID = "other-chain"
	signers, xerr := call.RecoverSigners()
	require.NoError(t, xerr)
	require.NotEqual(t, types.PubKeyToAddress(&prv.PublicKey), signers[0])
}

func TestCall_InvalidSig(t *testing.T) {
	call := newTestCall(t)

	call.Sigs = append(call.Sigs, make([]byte, 10))
	_, xerr := call.RecoverSigners()
	require.ErrorContains(t, xerr, xerrors.ErrInvalidSignature.Error())

	sig := make([]byte, ethcrypto.SignatureLength)
	sig[64] = 1
	call.Sigs = append(call.Sigs[:0], sig)
	_, xerr = call.RecoverSigners()
	require.ErrorContains(t, xerr, xerrors.ErrInvalidSignature.Error())
}

func TestCall_EncodeDecode(t *testing.T) {
	prv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	call := newTestCall(t)
	_, xerr := call.SignWith(prv)
	require.NoError(t, xerr)

	bz, xerr := call.Encode()
	require.NoError(t, xerr)

	decoded, xerr := DecodeCall(bz)
	require.NoError(t, xerr)
	require.Equal(t, call.ChainID, decoded.ChainID)
	require.Equal(t, call.Nonce, decoded.Nonce)
	require.Equal(t, call.Method, decoded.Method)
	require.Equal(t, call.Params, decoded.Params)

	signers, xerr := decoded.RecoverSigners()
	require.NoError(t, xerr)
	require.Equal(t, types.PubKeyToAddress(&prv.PublicKey), signers[0])

	params := &BurnParams{}
	require.NoError(t, decoded.DecodeParams(params))
	require.Equal(t, "30", params.Amount)

	_, xerr = DecodeCall([]byte{0x01, 0x02})
	require.True(t, xerr.Contains(xerrors.ErrInvalidCall))
}

func TestAuthorizedSigners(t *testing.T) {
	prv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	signer := types.PubKeyToAddress(&prv.PublicKey)

	call := newTestCall(t)
	auth, xerr := AuthorizedSignersOf(call)
	require.NoError(t, xerr)
	require.Equal(t, 0, auth.Len())
	require.True(t, auth.RequireAuth(signer).Contains(xerrors.ErrAuthRequired))

	_, xerr = call.SignWith(prv)
	require.NoError(t, xerr)
	auth, xerr = AuthorizedSignersOf(call)
	require.NoError(t, xerr)
	require.NoError(t, auth.RequireAuth(signer))
	require.True(t, auth.RequireAuth(types.RandAddress()).Contains(xerrors.ErrAuthRequired))
}
