// Package memory holds memory profiling tests for the local queue: a
// long-lived offline queue must not leak while records churn through it.
package memory

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/harvestlane/contactsync/internal/db"
	"github.com/harvestlane/contactsync/internal/models"
)

func setupQueue(t testing.TB) *db.QueueStore {
	t.Helper()

	database, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.NewMigrator(database.DB).Up(); err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	return db.NewQueueStore(database.DB)
}

func record(i int) *models.Submission {
	return &models.Submission{
		Name:    fmt.Sprintf("Customer %d", i),
		Email:   fmt.Sprintf("customer%d@example.com", i),
		Phone:   "5551234567",
		Message: "A message long enough to be representative of real inquiries.",
	}
}

func heapAlloc() uint64 {
	runtime.GC()
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}

// TestQueueChurn_noLeak enqueues and removes records repeatedly and checks
// heap growth stays bounded.
func TestQueueChurn_noLeak(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping memory profile in short mode")
	}

	queue := setupQueue(t)
	before := heapAlloc()

	for cycle := 0; cycle < 50; cycle++ {
		var ids []int64
		for i := 0; i < 20; i++ {
			id, err := queue.Enqueue(record(i))
			if err != nil {
				t.Fatalf("Enqueue() error = %v", err)
			}
			ids = append(ids, id)
		}
		if _, err := queue.ListAll(); err != nil {
			t.Fatalf("ListAll() error = %v", err)
		}
		for _, id := range ids {
			if err := queue.Remove(id); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
		}
	}

	after := heapAlloc()
	// Allow slack for the driver's page cache; a leak of 1000 records would
	// far exceed this.
	const limit = 8 << 20
	if after > before && after-before > limit {
		t.Errorf("heap grew by %d bytes after churn, limit %d", after-before, limit)
	}

	count, err := queue.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("queue count = %d after churn, want 0", count)
	}
}

// BenchmarkEnqueue measures allocation per enqueue.
func BenchmarkEnqueue(b *testing.B) {
	queue := setupQueue(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := queue.Enqueue(record(i)); err != nil {
			b.Fatalf("Enqueue() error = %v", err)
		}
	}
}
