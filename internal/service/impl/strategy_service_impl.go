package impl

import (
	"context"
	"fmt"

	"retrosync/internal/domain"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

var _ service.StrategyService = (*StrategyServiceImpl)(nil)

type StrategyServiceImpl struct {
	store        *store.Store
	entitlements service.EntitlementService
}

func NewStrategyServiceImpl(st *store.Store, ent service.EntitlementService) *StrategyServiceImpl {
	return &StrategyServiceImpl{store: st, entitlements: ent}
}

// SetStrategy flips a save between shared and per_device. Switching to shared
// counts against the free plan's shared-save quota; the save being switched is
// excluded from the count so re-applying the current strategy is a no-op.
func (s *StrategyServiceImpl) SetStrategy(ctx context.Context, userID domain.UserID, saveID domain.SaveID, strategy domain.SyncStrategy) (*domain.Save, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: unknown sync strategy %q", ErrInvalidRequest, strategy)
	}

	save, err := s.store.Saves().Get(ctx, saveID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.ErrSaveNotFound
		}
		return nil, err
	}
	if save.UserID != userID {
		return nil, domain.ErrNotOwner
	}

	if strategy == domain.StrategyShared && save.SyncStrategy != domain.StrategyShared {
		decision, err := s.entitlements.CanEnableSharedSave(ctx, userID, saveID)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlanLimit, decision.Reason)
		}
	}

	if err := s.store.Saves().SetStrategy(ctx, saveID, strategy); err != nil {
		return nil, err
	}
	save.SyncStrategy = strategy
	return save, nil
}

// SetSyncMode updates one location's mode. disabled also clears sync_enabled so
// the admission controller's cheap flag check stays consistent with the mode.
func (s *StrategyServiceImpl) SetSyncMode(ctx context.Context, userID domain.UserID, locationID domain.SaveID, mode domain.SyncMode) (*domain.SaveLocation, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown sync mode %q", ErrInvalidRequest, mode)
	}

	loc, err := s.store.Locations().Get(ctx, locationID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	if loc.Save == nil || loc.Save.UserID != userID {
		return nil, domain.ErrNotOwner
	}

	if err := s.store.Locations().SetMode(ctx, locationID, mode); err != nil {
		return nil, err
	}
	loc.SyncMode = mode
	loc.SyncEnabled = mode != domain.ModeDisabled
	return loc, nil
}
