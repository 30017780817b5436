package types

import (
	"time"

	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	EVENT_ATTR_TOKEN     = "token_address"
	EVENT_ATTR_FROM      = "from"
	EVENT_ATTR_AMOUNT    = "amount"
	EVENT_ATTR_TIMESTAMP = "timestamp"
)

// CallContext carries what the host provides to a call:
// the ledger height and time, the authorized principals, the token contracts
// and the events emitted so far.
type CallContext struct {
	ChainID string
	Height  int64
	Time    time.Time
	Exec    bool

	Call         *Call
	Authorizer   IAuthorizer
	TokenHandler ITokenHandler

	Events []abcitypes.Event
}

func NewCallContext(chainId string, height int64, tm time.Time, exec bool, call *Call, auth IAuthorizer, token ITokenHandler) *CallContext {
	return &CallContext{
		ChainID:      chainId,
		Height:       height,
		Time:         tm,
		Exec:         exec,
		Call:         call,
		Authorizer:   auth,
		TokenHandler: token,
	}
}

// Timestamp returns the ledger timestamp in seconds.
func (ctx *CallContext) Timestamp() uint64 {
	return uint64(ctx.Time.Unix())
}

func (ctx *CallContext) RequireAuth(addr types.Address) xerrors.XError {
	if ctx.Authorizer == nil {
		return xerrors.ErrAuthRequired.Wrapf("no authorizer")
	}
	return ctx.Authorizer.RequireAuth(addr)
}

func (ctx *CallContext) EmitEvent(evt abcitypes.Event) {
	ctx.Events = append(ctx.Events, evt)
}

// FindEvents returns the events of type `typ` emitted in this call.
func (ctx *CallContext) FindEvents(typ string) []abcitypes.Event {
	var ret []abcitypes.Event
	for _, evt := range ctx.Events {
		if evt.Type == typ {
			ret = append(ret, evt)
		}
	}
	return ret
}

// EventAttr returns the value of the attribute `key` of `evt`.
func EventAttr(evt abcitypes.Event, key string) (string, bool) {
	for _, attr := range evt.Attributes {
		if string(attr.Key) == key {
			return string(attr.Value), true
		}
	}
	return "", false
}
