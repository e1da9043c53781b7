package sqlite

import (
	"context"
	"testing"
	"time"
)

func TestConsumeState_SingleUse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	if err := db.PutState(ctx, "state-abc", now.Add(5*time.Minute)); err != nil {
		t.Fatalf("PutState() error = %v", err)
	}

	ok, err := db.ConsumeState(ctx, "state-abc", now)
	if err != nil {
		t.Fatalf("ConsumeState() error = %v", err)
	}
	if !ok {
		t.Fatal("ConsumeState() = false for a fresh state")
	}

	// A replayed state must not verify a second time.
	ok, err = db.ConsumeState(ctx, "state-abc", now)
	if err != nil {
		t.Fatalf("second ConsumeState() error = %v", err)
	}
	if ok {
		t.Error("ConsumeState() = true on replay, states must be single use")
	}
}

func TestConsumeState_Unknown(t *testing.T) {
	db := newTestDB(t)

	ok, err := db.ConsumeState(context.Background(), "never-issued", time.Now())
	if err != nil {
		t.Fatalf("ConsumeState() error = %v", err)
	}
	if ok {
		t.Error("ConsumeState() = true for a state that was never stored")
	}
}

func TestConsumeState_Expired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	if err := db.PutState(ctx, "state-old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("PutState() error = %v", err)
	}

	ok, err := db.ConsumeState(ctx, "state-old", now)
	if err != nil {
		t.Fatalf("ConsumeState() error = %v", err)
	}
	if ok {
		t.Error("ConsumeState() = true for an expired state")
	}

	// The failed consume sweeps expired rows.
	var remaining int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM oauth_states`).Scan(&remaining); err != nil {
		t.Fatalf("counting states: %v", err)
	}
	if remaining != 0 {
		t.Errorf("%d expired states left after sweep, want 0", remaining)
	}
}

func TestPurgeExpiredStates_KeepsLiveRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	if err := db.PutState(ctx, "live", now.Add(5*time.Minute)); err != nil {
		t.Fatalf("PutState() error = %v", err)
	}
	if err := db.PutState(ctx, "dead", now.Add(-5*time.Minute)); err != nil {
		t.Fatalf("PutState() error = %v", err)
	}

	if err := db.PurgeExpiredStates(ctx, now); err != nil {
		t.Fatalf("PurgeExpiredStates() error = %v", err)
	}

	ok, err := db.ConsumeState(ctx, "live", now)
	if err != nil {
		t.Fatalf("ConsumeState() error = %v", err)
	}
	if !ok {
		t.Error("live state should survive a purge")
	}
}
