package types

import (
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
)

// AuthorizedSigners is the set of principals that signed the current call.
type AuthorizedSigners struct {
	signers map[string]struct{}
}

var _ IAuthorizer = (*AuthorizedSigners)(nil)

func NewAuthorizedSigners(addrs ...types.Address) *AuthorizedSigners {
	ret := &AuthorizedSigners{
		signers: make(map[string]struct{}),
	}
	for _, addr := range addrs {
		ret.signers[addr.String()] = struct{}{}
	}
	return ret
}

// AuthorizedSignersOf recovers the signers of `call`.
func AuthorizedSignersOf(call *Call) (*AuthorizedSigners, xerrors.XError) {
	addrs, xerr := call.RecoverSigners()
	if xerr != nil {
		return nil, xerr
	}
	return NewAuthorizedSigners(addrs...), nil
}

func (as *AuthorizedSigners) RequireAuth(addr types.Address) xerrors.XError {
	if _, ok := as.signers[addr.String()]; !ok {
		return xerrors.ErrAuthRequired.Wrapf("address: %v", addr)
	}
	return nil
}

func (as *AuthorizedSigners) Len() int {
	return len(as.signers)
}
