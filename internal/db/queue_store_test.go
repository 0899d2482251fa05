// Package db tests for the pending submission queue store.
package db

import (
	"testing"
	"time"

	"github.com/harvestlane/contactsync/internal/models"
)

// newTestQueueStore returns a QueueStore on a fresh migrated database.
func newTestQueueStore(t *testing.T) *QueueStore {
	t.Helper()
	return NewQueueStore(openTestDB(t).DB)
}

// testSubmission returns a valid submission for queue tests.
func testSubmission() *models.Submission {
	return &models.Submission{
		Name:               "Ana",
		Email:              "a@b.com",
		Phone:              "5551234567",
		Message:            "hi",
		InterestedProducts: models.StringList{"eggs", "honey"},
	}
}

// TestQueueStore_Enqueue verifies id assignment and stamping.
func TestQueueStore_Enqueue(t *testing.T) {
	store := newTestQueueStore(t)

	sub := testSubmission()
	id, err := store.Enqueue(sub)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if id == 0 {
		t.Error("Enqueue() should assign a non-zero local id")
	}
	if sub.ID != id {
		t.Errorf("sub.ID = %d, want %d", sub.ID, id)
	}
	if sub.CreatedAt == 0 {
		t.Error("Enqueue() should stamp CreatedAt")
	}
	if sub.Synced {
		t.Error("Enqueue() should reset Synced to false")
	}
}

// TestQueueStore_Enqueue_assignsIncreasingIDs verifies autoincrement ids.
func TestQueueStore_Enqueue_assignsIncreasingIDs(t *testing.T) {
	store := newTestQueueStore(t)

	id1, err := store.Enqueue(testSubmission())
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	id2, err := store.Enqueue(testSubmission())
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if id2 <= id1 {
		t.Errorf("second id = %d, want > %d", id2, id1)
	}
}

// TestQueueStore_ListAll verifies round-trip and creation ordering.
func TestQueueStore_ListAll(t *testing.T) {
	store := newTestQueueStore(t)

	older := testSubmission()
	older.CreatedAt = time.Now().Unix() - 60
	if _, err := store.Enqueue(older); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	newer := testSubmission()
	newer.Name = "Ben"
	if _, err := store.Enqueue(newer); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	subs, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}

	if len(subs) != 2 {
		t.Fatalf("ListAll() = %d submissions, want 2", len(subs))
	}
	if subs[0].Name != "Ana" || subs[1].Name != "Ben" {
		t.Errorf("ListAll() order = [%s %s], want [Ana Ben]", subs[0].Name, subs[1].Name)
	}
	if subs[0].Synced {
		t.Error("stored submission should have synced = false")
	}
	if len(subs[0].InterestedProducts) != 2 {
		t.Errorf("InterestedProducts = %v, want 2 entries", subs[0].InterestedProducts)
	}
}

// TestQueueStore_ListAll_empty verifies an empty queue lists as empty.
func TestQueueStore_ListAll_empty(t *testing.T) {
	store := newTestQueueStore(t)

	subs, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("ListAll() = %d submissions, want 0", len(subs))
	}
}

// TestQueueStore_Remove verifies deletion and idempotence.
func TestQueueStore_Remove(t *testing.T) {
	store := newTestQueueStore(t)

	id, err := store.Enqueue(testSubmission())
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if err := store.Remove(id); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d after remove, want 0", count)
	}

	// Removing again, or removing an id that never existed, is not an error.
	if err := store.Remove(id); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}
	if err := store.Remove(9999); err != nil {
		t.Errorf("Remove(missing) error = %v, want nil", err)
	}
}

// TestQueueStore_MarkSynced verifies the intermediate synced marker.
func TestQueueStore_MarkSynced(t *testing.T) {
	store := newTestQueueStore(t)

	id, err := store.Enqueue(testSubmission())
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if err := store.MarkSynced(id); err != nil {
		t.Fatalf("MarkSynced() error = %v", err)
	}

	sub, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !sub.Synced {
		t.Error("submission should be marked synced")
	}

	// Missing id is not an error.
	if err := store.MarkSynced(9999); err != nil {
		t.Errorf("MarkSynced(missing) error = %v, want nil", err)
	}
}
