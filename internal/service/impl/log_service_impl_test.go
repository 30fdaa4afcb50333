package impl_test

import (
	"context"
	"errors"
	"testing"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service/impl"
)

func TestRecordAndListLogs(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewLogServiceImpl(st)

	user := createUser(t, st, domain.TierFree)
	miyoo := createDevice(t, st, user.ID, "miyoo")
	steamdeck := createDevice(t, st, user.ID, "steamdeck")

	if _, err := svc.Record(context.Background(), miyoo, dto.LogEventRequest{
		Action:   "download",
		FilePath: "/saves/gb/pokemon.srm",
		Status:   "success",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := svc.Record(context.Background(), steamdeck, dto.LogEventRequest{
		Action:   "conflict",
		FilePath: "/saves/gb/pokemon.srm",
		Status:   "pending",
		ErrorMsg: "local file differs from manifest",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	all, err := svc.List(context.Background(), user.ID, nil, 0, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Total != 2 || len(all.Logs) != 2 {
		t.Fatalf("expected 2 logs, got %+v", all)
	}
	if all.Limit != 50 {
		t.Fatalf("expected default limit 50, got %d", all.Limit)
	}

	one, err := svc.List(context.Background(), user.ID, &miyoo.ID, 10, 0)
	if err != nil {
		t.Fatalf("list by device: %v", err)
	}
	if one.Total != 1 || one.Logs[0].DeviceID != miyoo.ID {
		t.Fatalf("expected only miyoo logs, got %+v", one)
	}
}

func TestRecordRejectsUnknownEnums(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewLogServiceImpl(st)

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	if _, err := svc.Record(context.Background(), device, dto.LogEventRequest{
		Action:   "teleport",
		FilePath: "/x",
		Status:   "success",
	}); !errors.Is(err, impl.ErrInvalidRequest) {
		t.Fatalf("expected invalid action error, got %v", err)
	}
	if _, err := svc.Record(context.Background(), device, dto.LogEventRequest{
		Action:   "upload",
		FilePath: "/x",
		Status:   "maybe",
	}); !errors.Is(err, impl.ErrInvalidRequest) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestListLogsOwnership(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewLogServiceImpl(st)

	owner := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, owner.ID, "miyoo")
	stranger := createUser(t, st, domain.TierFree)

	_, err := svc.List(context.Background(), stranger.ID, &device.ID, 0, 0)
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// A user with no devices sees an empty page, not an error.
	empty, err := svc.List(context.Background(), stranger.ID, nil, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty.Total != 0 || len(empty.Logs) != 0 {
		t.Fatalf("expected empty result, got %+v", empty)
	}
}
