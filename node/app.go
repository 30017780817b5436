package node

import (
	"encoding/binary"
	"strings"
	"sync"
	"time"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	"github.com/beatoz/beatoz-factory/ctrlers/factory"
	"github.com/beatoz/beatoz-factory/ctrlers/token"
	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/genesis"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/bytes"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// CallResult is what a successful call leaves behind.
type CallResult struct {
	Height int64
	Events []abcitypes.Event
}

// FactoryApp executes the calls to the factory one at a time.
// A call either takes effect on every ledger or, if it fails, on none of them.
type FactoryApp struct {
	metaDB        *MetaDB
	factoryCtrler *factory.FactoryCtrler
	tokenCtrler   *token.TokenCtrler

	rootConfig *cfg.Config
	clock      func() time.Time

	logger log.Logger
	mtx    sync.Mutex
}

func NewFactoryApp(config *cfg.Config, logger log.Logger) (*FactoryApp, error) {
	metaDB, err := OpenMetaDB("factory_app", config.DBDir())
	if err != nil {
		return nil, err
	}

	factoryCtrler, xerr := factory.NewFactoryCtrler(config, logger)
	if xerr != nil {
		_ = metaDB.Close()
		return nil, xerr
	}

	tokenCtrler, xerr := token.NewTokenCtrler(config, logger)
	if xerr != nil {
		_ = factoryCtrler.Close()
		_ = metaDB.Close()
		return nil, xerr
	}

	if xerr := alignLedgers(metaDB.LastHeight(), logger, factoryCtrler, tokenCtrler); xerr != nil {
		_ = tokenCtrler.Close()
		_ = factoryCtrler.Close()
		_ = metaDB.Close()
		return nil, xerr
	}

	return &FactoryApp{
		metaDB:        metaDB,
		factoryCtrler: factoryCtrler,
		tokenCtrler:   tokenCtrler,
		rootConfig:    config,
		clock:         tmtime.Now,
		logger:        logger.With("module", "factory_FactoryApp"),
	}, nil
}

// alignLedgers rolls back every ledger committed beyond `height`, the last height recorded in the meta DB.
// Such a ledger is left by a commit that failed after some ledgers had been saved.
func alignLedgers(height int64, logger log.Logger, ledgers ...ctrlertypes.IVersionedLedger) xerrors.XError {
	for _, l := range ledgers {
		ver := l.Version()
		if ver == height {
			continue
		} else if ver < height {
			return xerrors.ErrInitLedger.Wrapf("ledger version %d is behind the last height %d", ver, height)
		} else if height == 0 {
			return xerrors.ErrInitLedger.Wrapf("ledger version %d without genesis commit, remove the data directory", ver)
		}

		if xerr := l.Rollback(height); xerr != nil {
			return xerrors.ErrInitLedger.Wrap(xerr)
		}
		logger.Info("roll back ledger", "from", ver, "to", height)
	}
	return nil
}

// SetClock replaces the source of the ledger timestamp.
func (app *FactoryApp) SetClock(clock func() time.Time) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	app.clock = clock
}

func (app *FactoryApp) LastHeight() int64 {
	return app.metaDB.LastHeight()
}

func (app *FactoryApp) LastAppHash() bytes.HexBytes {
	return app.metaDB.LastAppHash()
}

// CallCount is the number of the calls executed successfully.
func (app *FactoryApp) CallCount() uint64 {
	return app.metaDB.CallCount()
}

// InitChain loads the genesis into the ledgers and commits them.
// It works only on the empty ledgers.
func (app *FactoryApp) InitChain(genDoc *genesis.GenesisDoc) ([]byte, xerrors.XError) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.metaDB.LastHeight() > 0 {
		return nil, xerrors.ErrInitLedger.Wrapf("already initialized at height %d", app.metaDB.LastHeight())
	}
	if genDoc.ChainID != app.rootConfig.ChainID() {
		return nil, xerrors.ErrInitLedger.Wrapf("wrong chain id - expected: %s, actual: %s", app.rootConfig.ChainID(), genDoc.ChainID)
	}
	if err := genDoc.Validate(); err != nil {
		return nil, xerrors.ErrInitLedger.Wrap(err)
	}

	if xerr := app.factoryCtrler.InitLedger(genDoc); xerr != nil {
		return nil, xerr
	}
	if xerr := app.tokenCtrler.InitLedger(genDoc); xerr != nil {
		return nil, xerr
	}

	appHash, height, xerr := app.commit(genDoc.GenesisTime)
	if xerr != nil {
		return nil, xerr
	}
	app.logger.Info("InitChain", "chainId", genDoc.ChainID, "height", height, "appHash", bytes.HexBytes(appHash))
	return appHash, nil
}

// Execute runs `call`.
// If `exec` is false, the call runs on the imitable ledgers and nothing of it is ever committed.
func (app *FactoryApp) Execute(call *ctrlertypes.Call, exec bool) (*CallResult, xerrors.XError) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if call.ChainID != app.rootConfig.ChainID() {
		return nil, xerrors.ErrInvalidCall.Wrapf("wrong chain id - expected: %s, actual: %s", app.rootConfig.ChainID(), call.ChainID)
	}
	// the nonce of a call is the number of the calls executed before it,
	// so a signed call can be executed at most once.
	if expected := app.metaDB.CallCount(); call.Nonce != expected {
		return nil, xerrors.ErrInvalidNonce.Wrapf("expected: %d, actual: %d", expected, call.Nonce)
	}

	auth, xerr := ctrlertypes.AuthorizedSignersOf(call)
	if xerr != nil {
		return nil, xerr
	}

	ctx := ctrlertypes.NewCallContext(
		call.ChainID,
		app.metaDB.LastHeight()+1,
		app.clock(),
		exec,
		call,
		auth,
		app.tokenCtrler,
	)

	snapFactory := app.factoryCtrler.Snapshot(exec)
	snapToken := app.tokenCtrler.Snapshot(exec)

	if xerr := app.dispatch(ctx); xerr != nil {
		if rerr := app.factoryCtrler.RevertToSnapshot(snapFactory, exec); rerr != nil {
			app.logger.Error("fail to revert factory ledger", "error", rerr)
		}
		if rerr := app.tokenCtrler.RevertToSnapshot(snapToken, exec); rerr != nil {
			app.logger.Error("fail to revert token ledger", "error", rerr)
		}
		app.logger.Debug("call failed", "method", call.Method, "exec", exec, "error", xerr)
		return nil, xerr
	}

	if exec {
		if err := app.metaDB.PutCallCount(app.metaDB.CallCount() + 1); err != nil {
			app.logger.Error("fail to put the call count", "error", err)
		}
	}
	return &CallResult{
		Height: ctx.Height,
		Events: ctx.Events,
	}, nil
}

func (app *FactoryApp) dispatch(ctx *ctrlertypes.CallContext) xerrors.XError {
	switch ctx.Call.Method {
	case ctrlertypes.METHOD_INITIALIZE:
		params := &ctrlertypes.InitializeParams{}
		if xerr := ctx.Call.DecodeParams(params); xerr != nil {
			return xerr
		}
		baseFee, err := types.ParseAmount(params.BaseFee)
		if err != nil {
			return xerrors.ErrInvalidParams.Wrap(err)
		}
		metadataFee, err := types.ParseAmount(params.MetadataFee)
		if err != nil {
			return xerrors.ErrInvalidParams.Wrap(err)
		}
		return app.factoryCtrler.Initialize(ctx, params.Admin, params.Treasury, baseFee, metadataFee)
	case ctrlertypes.METHOD_UPDATE_FEES:
		params := &ctrlertypes.UpdateFeesParams{}
		if xerr := ctx.Call.DecodeParams(params); xerr != nil {
			return xerr
		}
		upd, xerr := params.FeeUpdate()
		if xerr != nil {
			return xerr
		}
		return app.factoryCtrler.UpdateFees(ctx, params.Admin, upd)
	case ctrlertypes.METHOD_BURN:
		params := &ctrlertypes.BurnParams{}
		if xerr := ctx.Call.DecodeParams(params); xerr != nil {
			return xerr
		}
		amount, err := types.ParseAmount(params.Amount)
		if err != nil {
			return xerrors.ErrInvalidParams.Wrap(err)
		}
		return app.factoryCtrler.Burn(ctx, params.Token, params.From, amount)
	default:
		return xerrors.ErrUnknownMethod.Wrapf("method: %s", ctx.Call.Method)
	}
}

// Commit saves the executed calls as a new version of every ledger.
// The app hash is the keccak256 of the ledgers' root hashes.
func (app *FactoryApp) Commit() ([]byte, int64, xerrors.XError) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	return app.commit(app.clock())
}

func (app *FactoryApp) commit(tm time.Time) ([]byte, int64, xerrors.XError) {
	factoryHash, ver0, xerr := app.factoryCtrler.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}
	tokenHash, ver1, xerr := app.tokenCtrler.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}
	if ver0 != ver1 {
		return nil, 0, xerrors.ErrCommit.Wrapf("ledger versions mismatch - factory: %d, token: %d", ver0, ver1)
	}

	appHash := ethcrypto.Keccak256(factoryHash, tokenHash)
	if err := app.metaDB.PutLastBlock(ver0, appHash, tm); err != nil {
		return nil, 0, xerrors.ErrCommit.Wrap(err)
	}

	app.logger.Debug("Commit", "height", ver0, "appHash", bytes.HexBytes(appHash))
	return appHash, ver0, nil
}

// Query routes `req` by the first element of its path.
//
//	chain_id, height, call_count
//	factory/<path>  see FactoryCtrler.Query
//	token/<path>    see TokenCtrler.Query
func (app *FactoryApp) Query(req abcitypes.RequestQuery) abcitypes.ResponseQuery {
	if req.Height == 0 {
		req.Height = app.metaDB.LastHeight()
	}

	response := abcitypes.ResponseQuery{
		Code:   abcitypes.CodeTypeOK,
		Key:    req.Data,
		Height: req.Height,
	}

	var xerr xerrors.XError
	route, subPath, _ := strings.Cut(req.Path, "/")
	switch route {
	case "chain_id":
		response.Value = []byte(app.rootConfig.ChainID())
	case "height":
		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, uint64(app.metaDB.LastHeight()))
		response.Value = val
	case "call_count":
		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, app.metaDB.CallCount())
		response.Value = val
	case "factory":
		req.Path = subPath
		response.Value, xerr = app.factoryCtrler.Query(req)
	case "token":
		req.Path = subPath
		response.Value, xerr = app.tokenCtrler.Query(req)
	default:
		response.Value, xerr = nil, xerrors.ErrInvalidQueryPath
	}

	if xerr != nil {
		app.logger.Error("FactoryApp - Query returns error", "error", xerr, "path", req.Path)
		response.Code = xerr.Code()
		response.Log = xerr.Error()
	}
	return response
}

func (app *FactoryApp) Close() error {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if err := app.factoryCtrler.Close(); err != nil {
		return err
	}
	if err := app.tokenCtrler.Close(); err != nil {
		return err
	}
	return app.metaDB.Close()
}
