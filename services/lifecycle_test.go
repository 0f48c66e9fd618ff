package services

import (
	"context"
	"testing"

	"pushbridge/models"
)

func TestLogoutDisablesAllDevices(t *testing.T) {
	gw := newFakeGateway()
	db := testDB(t)
	reg := NewRegistryService(db, gw, testLogger())
	disp := NewDispatchService(db, gw, nil, testLogger())
	defer disp.Close()
	adapter := NewLifecycleAdapter(reg, disp, testLogger())
	ctx := context.Background()

	if _, err := reg.Register(ctx, 1, "tok-1", "ios", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := reg.Register(ctx, 1, "tok-2", "android", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	adapter.UserLoggedOut(1)

	var subs []models.Subscription
	if err := db.Where("user_id = ?", 1).Find(&subs).Error; err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	for _, sub := range subs {
		if sub.Status != models.StatusDisabled {
			t.Errorf("subscription %d status = %q, want disabled", sub.ID, sub.Status)
		}
	}
}

func TestAuthenticatedTakesNoRegistryAction(t *testing.T) {
	gw := newFakeGateway()
	db := testDB(t)
	reg := NewRegistryService(db, gw, testLogger())
	disp := NewDispatchService(db, gw, nil, testLogger())
	defer disp.Close()
	adapter := NewLifecycleAdapter(reg, disp, testLogger())

	if _, err := reg.Register(context.Background(), 1, "tok-1", "ios", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	adapter.UserAuthenticated(1)

	var sub models.Subscription
	if err := db.Where("device_token = ?", "tok-1").First(&sub).Error; err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if sub.Status != models.StatusEnabled {
		t.Errorf("status = %q, login must not touch subscriptions", sub.Status)
	}
	if gw.createCalls != 1 || gw.deleteCalls != 0 {
		t.Errorf("gateway calls changed on login: create=%d delete=%d", gw.createCalls, gw.deleteCalls)
	}
}
