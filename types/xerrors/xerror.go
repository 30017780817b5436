package xerrors

import (
	"errors"
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeOrdinary
	ErrCodeInitLedger
	ErrCodeCall
	ErrCodeCommit
	ErrCodeInvalidCall
	ErrCodeAuthRequired
	ErrCodeNotInitialized
)

// The factory error codes.
// They are numbered after the `error` values of the on-chain factory,
// so that clients can map them back one to one.
const (
	ErrCodeAlreadyInitialized uint32 = 100 + iota + 1
	ErrCodeUnauthorized
	ErrCodeInvalidParameters
	ErrCodeTokenNotFound
	ErrCodeInvalidBurnAmount
	ErrCodeBurnAmountExceedsBalance
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryPath
	ErrCodeInvalidQueryParams
	ErrCodeNotFoundResult
	ErrLast
)

var (
	ErrCommon         = New(ErrCodeOrdinary, "factory error")
	ErrOverFlow       = New(ErrCodeOrdinary, "overflow")
	ErrInitLedger     = New(ErrCodeInitLedger, "InitLedger failed")
	ErrCall           = New(ErrCodeCall, "call failed")
	ErrCommit         = New(ErrCodeCommit, "Commit failed")
	ErrInvalidCall    = New(ErrCodeInvalidCall, "invalid call")
	ErrAuthRequired   = New(ErrCodeAuthRequired, "authorization required")
	ErrNotInitialized = New(ErrCodeNotInitialized, "factory not initialized")
	ErrQuery          = New(ErrCodeQuery, "query failed")

	ErrInvalidAddress   = ErrInvalidCall.Wrap(NewOrdinary("invalid address"))
	ErrInvalidSignature = ErrInvalidCall.Wrap(NewOrdinary("invalid signature"))
	ErrUnknownMethod    = ErrInvalidCall.Wrap(NewOrdinary("unknown method"))
	ErrInvalidParams    = ErrInvalidCall.Wrap(NewOrdinary("invalid params of call"))
	ErrInvalidNonce     = ErrInvalidCall.Wrap(NewOrdinary("invalid nonce"))

	ErrAlreadyInitialized       = New(ErrCodeAlreadyInitialized, "already initialized")
	ErrUnauthorized             = New(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidParameters        = New(ErrCodeInvalidParameters, "invalid parameters")
	ErrTokenNotFound            = New(ErrCodeTokenNotFound, "token not found")
	ErrInvalidBurnAmount        = New(ErrCodeInvalidBurnAmount, "invalid burn amount")
	ErrBurnAmountExceedsBalance = New(ErrCodeBurnAmountExceedsBalance, "burn amount exceeds balance")

	ErrInvalidQueryPath   = New(ErrCodeInvalidQueryPath, "invalid query path")
	ErrInvalidQueryParams = New(ErrCodeInvalidQueryParams, "invalid query parameters")

	ErrNotFoundResult = New(ErrCodeNotFoundResult, "not found result")

	ErrInsufficientFund = NewOrdinary("insufficient fund")
	ErrDuplicatedKey    = NewOrdinary("already existed key")
)

type XError interface {
	Code() uint32
	Cause() error
	Error() string
	Msg() string
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Contains(XError) bool
	Equal(XError) bool
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(code uint32, msg string) XError {
	return &xerror{
		code: code,
		msg:  msg,
	}
}

func NewOrdinary(msg string) XError {
	return &xerror{
		code: ErrCodeOrdinary,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xerr, ok := err.(XError); ok {
		return xerr
	}
	return NewOrdinary(err.Error())
}

func Wrap(err error, msg string) XError {
	return &xerror{
		code:  ErrCodeOrdinary,
		msg:   msg,
		cause: err,
	}
}

func (xerr *xerror) Code() uint32 {
	return xerr.code
}

func (xerr *xerror) Error() string {
	msg := xerr.msg

	if xerr.cause != nil {
		msg += "\n\t" + xerr.cause.Error()
	}

	return msg

}

func (xerr *xerror) Msg() string {
	return xerr.msg
}

func (xerr *xerror) Cause() error {
	return xerr.cause
}

func (xerr *xerror) Wrap(err error) XError {
	if xerr.cause != nil {
		if cerr, ok := xerr.cause.(*xerror); ok {
			return &xerror{
				code:  xerr.code,
				msg:   xerr.msg,
				cause: cerr.Wrap(err),
			}
		}
	}
	return &xerror{
		code:  xerr.code,
		msg:   xerr.msg,
		cause: err,
	}
}

func (xerr *xerror) Wrapf(format string, args ...any) XError {
	return xerr.Wrap(New(ErrCodeOrdinary, fmt.Sprintf(format, args...)))
}

func (xerr *xerror) Contains(other XError) bool {
	if xerr.code == other.Code() && xerr.msg == other.Msg() {
		return true
	} else if xerr.cause != nil {
		if _xerr, ok := xerr.cause.(*xerror); ok {
			return _xerr.Contains(other)
		} else {
			return errors.Is(xerr.cause, other)
		}
	}
	return false
}

func (xerr *xerror) Equal(other XError) bool {
	return xerr.code == other.Code()
}
