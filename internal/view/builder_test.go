// Package view tests for the reconciled list builder.
package view

import (
	"reflect"
	"testing"

	"github.com/harvestlane/contactsync/internal/models"
)

func pendingFixture() []*models.Submission {
	return []*models.Submission{
		{ID: 1, Name: "Ana", Email: "a@b.com", Phone: "5551234567", Message: "first", CreatedAt: 100},
		{ID: 2, Name: "Ben", Email: "b@b.com", Phone: "5550000000", Message: "second", CreatedAt: 200},
	}
}

func remoteFixture() []*models.RemoteSubmission {
	return []*models.RemoteSubmission{
		{ID: "r2", Name: "Cleo", Email: "c@b.com", Phone: "5551111111", Message: "newer", CreatedAt: 400},
		{ID: "r1", Name: "Dan", Email: "d@b.com", Phone: "5552222222", Message: "older", CreatedAt: 300},
	}
}

// TestBuild_pendingFirst verifies group ordering and flags.
func TestBuild_pendingFirst(t *testing.T) {
	rows := Build(pendingFixture(), remoteFixture())

	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	for i := 0; i < 2; i++ {
		if !rows[i].IsPending {
			t.Errorf("rows[%d].IsPending = false, want true", i)
		}
	}
	for i := 2; i < 4; i++ {
		if rows[i].IsPending {
			t.Errorf("rows[%d].IsPending = true, want false", i)
		}
	}

	// Source ordering preserved in each group.
	if rows[0].LocalID != 1 || rows[1].LocalID != 2 {
		t.Errorf("pending order = [%d %d], want [1 2]", rows[0].LocalID, rows[1].LocalID)
	}
	if rows[2].RemoteID != "r2" || rows[3].RemoteID != "r1" {
		t.Errorf("remote order = [%s %s], want [r2 r1]", rows[2].RemoteID, rows[3].RemoteID)
	}
}

// TestBuild_deterministic verifies the same inputs always produce the same
// output sequence.
func TestBuild_deterministic(t *testing.T) {
	first := Build(pendingFixture(), remoteFixture())
	second := Build(pendingFixture(), remoteFixture())

	if !reflect.DeepEqual(first, second) {
		t.Error("Build() must be order-stable for identical inputs")
	}
}

// TestBuild_emptyInputs verifies empty groups are tolerated.
func TestBuild_emptyInputs(t *testing.T) {
	if rows := Build(nil, nil); len(rows) != 0 {
		t.Errorf("Build(nil, nil) = %d rows, want 0", len(rows))
	}

	rows := Build(nil, remoteFixture())
	if len(rows) != 2 || rows[0].IsPending {
		t.Errorf("Build(nil, remote) = %+v, want remote-only rows", rows)
	}

	rows = Build(pendingFixture(), nil)
	if len(rows) != 2 || !rows[1].IsPending {
		t.Errorf("Build(pending, nil) = %+v, want pending-only rows", rows)
	}
}

// TestBuild_duplicationTolerated verifies an item present in both groups is
// kept twice: the snapshot refresh, not the builder, resolves it.
func TestBuild_duplicationTolerated(t *testing.T) {
	pending := []*models.Submission{
		{ID: 1, Name: "Ana", Email: "a@b.com", Phone: "5551234567", Message: "dup", CreatedAt: 100},
	}
	remote := []*models.RemoteSubmission{
		{ID: "r9", Name: "Ana", Email: "a@b.com", Phone: "5551234567", Message: "dup", CreatedAt: 100},
	}

	rows := Build(pending, remote)
	if len(rows) != 2 {
		t.Errorf("len(rows) = %d, want 2 (transient duplication accepted)", len(rows))
	}
}
