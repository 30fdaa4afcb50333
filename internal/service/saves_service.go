package service

import (
	"context"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
)

// StrategyService owns the per-save shared/per_device toggle and per-location
// sync modes. Enabling shared is gated by the entitlement service.
type StrategyService interface {
	SetStrategy(ctx context.Context, userID domain.UserID, saveID domain.SaveID, strategy domain.SyncStrategy) (*domain.Save, error)
	SetSyncMode(ctx context.Context, userID domain.UserID, locationID domain.SaveID, mode domain.SyncMode) (*domain.SaveLocation, error)
}

type SaveService interface {
	List(ctx context.Context, userID domain.UserID) (*dto.SavesResponse, error)
	Delete(ctx context.Context, userID domain.UserID, saveID domain.SaveID) (*dto.DeleteSaveResponse, error)
}

// EntitlementService answers plan-limit questions. Consulted by the strategy
// policy and device registration, never by the admission controller.
type EntitlementService interface {
	CanAddDevice(ctx context.Context, userID domain.UserID) (dto.PlanDecision, error)
	CanEnableSharedSave(ctx context.Context, userID domain.UserID, excludeSaveID domain.SaveID) (dto.PlanDecision, error)
}
