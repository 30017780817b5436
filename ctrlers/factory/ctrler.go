package factory

import (
	"math/big"
	"sync"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/genesis"
	v1 "github.com/beatoz/beatoz-factory/ledger/v1"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type FactoryCtrler struct {
	factoryState v1.IStateLedger
	store        *FactoryStore

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewFactoryCtrler(config *cfg.Config, logger tmlog.Logger) (*FactoryCtrler, xerrors.XError) {
	lg := logger.With("module", "factory_FactoryCtrler")

	_state, xerr := v1.NewStateLedger("factory", config.DBDir(), config.CacheSize, newFactoryItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &FactoryCtrler{
		factoryState: _state,
		store:        NewFactoryStore(_state),
		logger:       lg,
	}, nil
}

// InitLedger bootstraps the factory from the genesis document.
// The factory is initialized only if the document has the `factory` section.
func (ctrler *FactoryCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genDoc, ok := req.(*genesis.GenesisDoc)
	if !ok {
		return xerrors.ErrInitLedger.Wrapf("wrong parameter: FactoryCtrler::InitLedger requires *genesis.GenesisDoc")
	}

	if gf := genDoc.Factory; gf != nil {
		baseFee, err := types.ParseAmount(gf.BaseFee)
		if err != nil {
			return xerrors.ErrInitLedger.Wrap(err)
		}
		metadataFee, err := types.ParseAmount(gf.MetadataFee)
		if err != nil {
			return xerrors.ErrInitLedger.Wrap(err)
		}
		if xerr := ctrler.initialize(gf.Admin, gf.Treasury, baseFee, metadataFee, true); xerr != nil {
			return xerrors.ErrInitLedger.Wrap(xerr)
		}
	}

	deployedAt := uint64(genDoc.GenesisTime.Unix())
	for _, gt := range genDoc.Tokens {
		ti := &ctrlertypes.TokenInfo{
			Address:     gt.Address,
			Name:        gt.Name,
			Symbol:      gt.Symbol,
			Decimals:    gt.Decimals,
			TotalSupply: gt.TotalSupply(),
			Creator:     gt.Creator,
			MetadataURI: gt.MetadataURI,
			DeployedAt:  deployedAt,
		}
		idx, xerr := ctrler.store.AddTokenInfo(ti, true)
		if xerr != nil {
			return xerrors.ErrInitLedger.Wrap(xerr)
		}
		ctrler.logger.Debug("register token", "index", idx, "address", ti.Address, "symbol", ti.Symbol)
	}
	return nil
}

// Initialize records the admin, the treasury and both fees.
// It succeeds only once per ledger and requires no authorization.
func (ctrler *FactoryCtrler) Initialize(ctx *ctrlertypes.CallContext, admin, treasury types.Address, baseFee, metadataFee *big.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if xerr := ctrler.initialize(admin, treasury, baseFee, metadataFee, ctx.Exec); xerr != nil {
		return xerr
	}

	ctrler.logger.Info("factory initialized",
		"admin", admin, "treasury", treasury,
		"baseFee", baseFee, "metadataFee", metadataFee,
		"height", ctx.Height)
	return nil
}

func (ctrler *FactoryCtrler) initialize(admin, treasury types.Address, baseFee, metadataFee *big.Int, exec bool) xerrors.XError {
	if ctrler.store.HasAdmin(exec) {
		return xerrors.ErrAlreadyInitialized
	}
	if !types.IsValidAddress(admin) {
		return xerrors.ErrInvalidParameters.Wrapf("admin address: %v", admin)
	}
	if !types.IsValidAddress(treasury) {
		return xerrors.ErrInvalidParameters.Wrapf("treasury address: %v", treasury)
	}
	_baseFee, xerr := toFee(baseFee)
	if xerr != nil {
		return xerr
	}
	_metadataFee, xerr := toFee(metadataFee)
	if xerr != nil {
		return xerr
	}

	if xerr := ctrler.store.SetAdmin(admin, exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.store.SetTreasury(treasury, exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.store.SetBaseFee(_baseFee, exec); xerr != nil {
		return xerr
	}
	return ctrler.store.SetMetadataFee(_metadataFee, exec)
}

func (ctrler *FactoryCtrler) GetState(exec bool) *ctrlertypes.FactoryState {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.store.GetFactoryState(exec)
}

// UpdateFees replaces the fees set in `upd`.
// `admin` must have authorized the call and must be the recorded admin.
// Nothing is written unless every present fee is valid.
func (ctrler *FactoryCtrler) UpdateFees(ctx *ctrlertypes.CallContext, admin types.Address, upd ctrlertypes.FeeUpdate) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if xerr := ctx.RequireAuth(admin); xerr != nil {
		return xerr
	}

	stored := ctrler.store.GetAdmin(ctx.Exec)
	if stored == nil {
		return xerrors.ErrNotInitialized
	}
	if !stored.Equal(admin) {
		return xerrors.ErrUnauthorized.Wrapf("address: %v", admin)
	}

	var baseFee, metadataFee *uint256.Int
	if upd.BaseFee.IsSet() {
		fee, xerr := toFee(upd.BaseFee.Value())
		if xerr != nil {
			return xerr
		}
		baseFee = fee
	}
	if upd.MetadataFee.IsSet() {
		fee, xerr := toFee(upd.MetadataFee.Value())
		if xerr != nil {
			return xerr
		}
		metadataFee = fee
	}

	if baseFee != nil {
		if xerr := ctrler.store.SetBaseFee(baseFee, ctx.Exec); xerr != nil {
			return xerr
		}
	}
	if metadataFee != nil {
		if xerr := ctrler.store.SetMetadataFee(metadataFee, ctx.Exec); xerr != nil {
			return xerr
		}
	}

	ctrler.logger.Debug("update fees", "baseFee", upd.BaseFee, "metadataFee", upd.MetadataFee, "height", ctx.Height)
	return nil
}

func (ctrler *FactoryCtrler) GetTokenCount(exec bool) uint32 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.store.GetTokenCount(exec)
}

func (ctrler *FactoryCtrler) GetTokenInfo(idx uint32, exec bool) (*ctrlertypes.TokenInfo, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	ti, ok := ctrler.store.GetTokenInfo(idx, exec)
	if !ok {
		return nil, xerrors.ErrTokenNotFound.Wrapf("index: %d", idx)
	}
	return ti, nil
}

func (ctrler *FactoryCtrler) FindTokenInfo(tokenAddr types.Address, exec bool) (*ctrlertypes.TokenInfo, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	ti, _, ok := ctrler.store.FindTokenInfo(tokenAddr, exec)
	if !ok {
		return nil, xerrors.ErrTokenNotFound.Wrapf("address: %v", tokenAddr)
	}
	return ti, nil
}

func (ctrler *FactoryCtrler) Snapshot(exec bool) int {
	return ctrler.factoryState.Snapshot(exec)
}

func (ctrler *FactoryCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.factoryState.RevertToSnapshot(snap, exec)
}

func (ctrler *FactoryCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.factoryState.Commit()
	if xerr != nil {
		return nil, 0, xerrors.ErrCommit.Wrap(xerr)
	}
	ctrler.logger.Debug("commit factory ledger", "height", v, "hash", h)
	return h, v, nil
}

func (ctrler *FactoryCtrler) Version() int64 {
	return ctrler.factoryState.Version()
}

func (ctrler *FactoryCtrler) Rollback(ver int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.factoryState.Rollback(ver)
}

func (ctrler *FactoryCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.factoryState != nil {
		if xerr := ctrler.factoryState.Close(); xerr != nil {
			ctrler.logger.Error("factoryState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.factoryState = nil
	}
	return nil
}

// toFee rejects nil, negative and too large amounts.
func toFee(fee *big.Int) (*uint256.Int, xerrors.XError) {
	if fee == nil || fee.Sign() < 0 {
		return nil, xerrors.ErrInvalidParameters.Wrapf("fee must be non-negative: %v", fee)
	}
	ret, overflow := uint256.FromBig(fee)
	if overflow {
		return nil, xerrors.ErrInvalidParameters.Wrapf("fee is too large: %v", fee)
	}
	return ret, nil
}

var _ ctrlertypes.ILedgerHandler = (*FactoryCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*FactoryCtrler)(nil)
