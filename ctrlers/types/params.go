package types

import (
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
)

// The amounts in the params are decimal strings.
// They are signed so that a negative value reaches the factory and is rejected there.

type InitializeParams struct {
	Admin       types.Address `json:"admin"`
	Treasury    types.Address `json:"treasury"`
	BaseFee     string        `json:"base_fee"`
	MetadataFee string        `json:"metadata_fee"`
}

// UpdateFeesParams leaves a fee unchanged when it is omitted.
type UpdateFeesParams struct {
	Admin       types.Address `json:"admin"`
	BaseFee     *string       `json:"base_fee,omitempty"`
	MetadataFee *string       `json:"metadata_fee,omitempty"`
}

func (p *UpdateFeesParams) FeeUpdate() (FeeUpdate, xerrors.XError) {
	ret := FeeUpdate{}
	if p.BaseFee != nil {
		v, err := types.ParseAmount(*p.BaseFee)
		if err != nil {
			return ret, xerrors.ErrInvalidParams.Wrap(err)
		}
		ret.BaseFee = SetTo(v)
	}
	if p.MetadataFee != nil {
		v, err := types.ParseAmount(*p.MetadataFee)
		if err != nil {
			return ret, xerrors.ErrInvalidParams.Wrap(err)
		}
		ret.MetadataFee = SetTo(v)
	}
	return ret, nil
}

type BurnParams struct {
	Token  types.Address `json:"token_address"`
	From   types.Address `json:"from"`
	Amount string        `json:"amount"`
}
