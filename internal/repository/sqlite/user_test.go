package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
)

func TestUpsertUser_Insert(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		CognitoID: "sub-1",
		Email:     "alice@example.com",
		Username:  "alice",
	}
	if err := db.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	got, err := db.GetUserByID(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != "alice@example.com" || got.Username != "alice" {
		t.Errorf("persisted user = %+v", got)
	}
	if got.ProfileComplete {
		t.Error("new user without display name and instrument should not be profile complete")
	}
}

func TestUpsertUser_FillsOnlyEmptyFields(t *testing.T) {
	db := newTestDB(t)

	// First login: provider supplies email and username only.
	first := &model.User{CognitoID: "sub-1", Email: "alice@example.com", Username: "alice"}
	if err := db.UpsertUser(context.Background(), first); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	// User edits their profile.
	first.DisplayName = "Alice A."
	first.Instrument = "guitar"
	if err := db.UpdateUser(context.Background(), first); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	// Second login: provider claims carry a different display name and a
	// new avatar. Only the empty avatar gets filled in.
	second := &model.User{
		CognitoID:   "sub-1",
		Email:       "other@example.com",
		Username:    "alice2",
		DisplayName: "alice-from-provider",
		AvatarURL:   "https://pics.example.com/alice.png",
	}
	if err := db.UpsertUser(context.Background(), second); err != nil {
		t.Fatalf("second UpsertUser() error = %v", err)
	}

	got, err := db.GetUserByID(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, existing value should survive relogin", got.Email)
	}
	if got.DisplayName != "Alice A." {
		t.Errorf("DisplayName = %q, user edit should win over provider claim", got.DisplayName)
	}
	if got.AvatarURL != "https://pics.example.com/alice.png" {
		t.Errorf("AvatarURL = %q, empty field should be filled", got.AvatarURL)
	}
	if !got.ProfileComplete {
		t.Error("user with display name and instrument should be profile complete")
	}

	// The pointer passed in reflects the merged row.
	if second.DisplayName != "Alice A." {
		t.Errorf("in-place merge DisplayName = %q", second.DisplayName)
	}
}

func TestUpdateUser_RecomputesProfileComplete(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{CognitoID: "sub-2", Username: "bob"}
	if err := db.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	user.DisplayName = "Bob"
	user.Instrument = "drums"
	if err := db.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if !user.ProfileComplete {
		t.Error("ProfileComplete should flip to true once both fields are set")
	}

	user.Instrument = ""
	if err := db.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if user.ProfileComplete {
		t.Error("ProfileComplete should flip back to false when instrument is cleared")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateUser(context.Background(), &model.User{CognitoID: "ghost"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateUser() error = %v, want ErrNotFound", err)
	}
}
