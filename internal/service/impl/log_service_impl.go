package impl

import (
	"context"
	"fmt"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

const defaultLogPageSize = 50

var _ service.LogService = (*LogServiceImpl)(nil)

type LogServiceImpl struct {
	store *store.Store
}

func NewLogServiceImpl(st *store.Store) *LogServiceImpl {
	return &LogServiceImpl{store: st}
}

// Record persists a client-reported sync event. The server's own terminal logs
// come from the admission pipeline; this path is for client-side outcomes
// (downloads applied, local conflicts) the server can't observe.
func (l *LogServiceImpl) Record(ctx context.Context, device *domain.Device, req dto.LogEventRequest) (*dto.LogEventResponse, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: device is required", ErrInvalidRequest)
	}
	action := domain.LogAction(req.Action)
	if !action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, req.Action)
	}
	status := domain.LogStatus(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, req.Status)
	}
	if req.FilePath == "" {
		return nil, fmt.Errorf("%w: filePath is required", ErrInvalidRequest)
	}

	entry := &domain.SyncLog{
		DeviceID: device.ID,
		Action:   action,
		FilePath: req.FilePath,
		FileSize: req.FileSize,
		Status:   status,
		ErrorMsg: req.ErrorMsg,
		Metadata: req.Metadata,
	}
	if err := l.store.SyncLogs().Create(ctx, entry); err != nil {
		return nil, err
	}
	return &dto.LogEventResponse{LogID: entry.ID.String(), CreatedAt: entry.CreatedAt}, nil
}

func (l *LogServiceImpl) List(ctx context.Context, userID domain.UserID, deviceID *domain.DeviceID, limit, offset int) (*dto.LogListResponse, error) {
	if limit <= 0 {
		limit = defaultLogPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var filter store.LogFilter
	if deviceID != nil {
		device, err := l.store.Devices().Get(ctx, *deviceID)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, domain.ErrDeviceNotFound
			}
			return nil, err
		}
		if device.UserID != userID {
			return nil, domain.ErrNotOwner
		}
		filter = store.ByDevice{DeviceID: device.ID}
	} else {
		ids, err := l.store.Devices().IDsForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		filter = store.ByUserDevices{DeviceIDs: ids}
	}

	logs, total, err := l.store.SyncLogs().List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.SyncLog{}
	}
	return &dto.LogListResponse{Logs: logs, Total: total, Limit: limit, Offset: offset}, nil
}
