package impl

import (
	"context"
	"fmt"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

const (
	// Free-tier quotas. Paid tiers are unlimited.
	FreeMaxDevices     = 2
	FreeMaxSharedSaves = 3
)

var _ service.EntitlementService = (*EntitlementServiceImpl)(nil)

type EntitlementServiceImpl struct {
	store *store.Store
}

func NewEntitlementServiceImpl(st *store.Store) *EntitlementServiceImpl {
	return &EntitlementServiceImpl{store: st}
}

func (e *EntitlementServiceImpl) CanAddDevice(ctx context.Context, userID domain.UserID) (dto.PlanDecision, error) {
	user, err := e.store.Users().Get(ctx, userID)
	if err != nil {
		return dto.PlanDecision{}, err
	}
	if user.IsPaidTier() {
		return dto.PlanDecision{Allowed: true}, nil
	}

	count, err := e.store.Devices().CountByUser(ctx, userID)
	if err != nil {
		return dto.PlanDecision{}, err
	}
	if count >= FreeMaxDevices {
		return dto.PlanDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("free plan allows up to %d devices", FreeMaxDevices),
			Count:   count,
		}, nil
	}
	return dto.PlanDecision{Allowed: true, Count: count}, nil
}

func (e *EntitlementServiceImpl) CanEnableSharedSave(ctx context.Context, userID domain.UserID, excludeSaveID domain.SaveID) (dto.PlanDecision, error) {
	user, err := e.store.Users().Get(ctx, userID)
	if err != nil {
		return dto.PlanDecision{}, err
	}
	if user.IsPaidTier() {
		return dto.PlanDecision{Allowed: true}, nil
	}

	count, err := e.store.Saves().CountSharedByUser(ctx, userID, excludeSaveID)
	if err != nil {
		return dto.PlanDecision{}, err
	}
	if count >= FreeMaxSharedSaves {
		return dto.PlanDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("free plan allows up to %d shared saves", FreeMaxSharedSaves),
			Count:   count,
		}, nil
	}
	return dto.PlanDecision{Allowed: true, Count: count}, nil
}
