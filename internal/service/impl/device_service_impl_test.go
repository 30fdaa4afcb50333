package impl_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service/impl"
)

func TestRegisterDeviceQuota(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewDeviceServiceImpl(st, impl.NewEntitlementServiceImpl(st))

	user := createUser(t, st, domain.TierFree)

	first, err := svc.Register(context.Background(), user.ID, dto.RegisterDeviceRequest{Name: "miyoo", DeviceType: "handheld"})
	if err != nil {
		t.Fatalf("register first: %v", err)
	}
	if !strings.HasPrefix(first.APIKey, "rsk_") {
		t.Fatalf("expected api key with prefix, got %q", first.APIKey)
	}

	if _, err := svc.Register(context.Background(), user.ID, dto.RegisterDeviceRequest{Name: "steamdeck", DeviceType: "pc"}); err != nil {
		t.Fatalf("register second: %v", err)
	}

	_, err = svc.Register(context.Background(), user.ID, dto.RegisterDeviceRequest{Name: "anbernic", DeviceType: "handheld"})
	if !errors.Is(err, domain.ErrPlanLimit) {
		t.Fatalf("expected ErrPlanLimit on third device, got %v", err)
	}

	paid := createUser(t, st, domain.TierPaid)
	for _, name := range []string{"a", "b", "c", "d"} {
		if _, err := svc.Register(context.Background(), paid.ID, dto.RegisterDeviceRequest{Name: name, DeviceType: "handheld"}); err != nil {
			t.Fatalf("paid register %s: %v", name, err)
		}
	}
}

func TestHeartbeatMarksDeviceSeen(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewDeviceServiceImpl(st, impl.NewEntitlementServiceImpl(st))

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	res, err := svc.Heartbeat(context.Background(), device)
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if res.DeviceID != device.ID.String() {
		t.Fatalf("unexpected device id %s", res.DeviceID)
	}

	stored, err := st.Devices().Get(context.Background(), device.ID)
	if err != nil {
		t.Fatalf("reload device: %v", err)
	}
	if stored.LastSyncAt == nil || !stored.IsActive {
		t.Fatalf("expected active device with last_sync_at, got %+v", stored)
	}
}
