package badger

import (
	"bytes"
	"context"
	"testing"
)

func TestBlobPutAndGet(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	id, err := blobs.Put(ctx, payload, "note-1", 0)
	if err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated blob id")
	}

	data, err := blobs.Get(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get blob: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("Payload mismatch: got %v, want %v", data, payload)
	}
}

func TestBlobGetMissing(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	data, err := blobs.Get(context.Background(), "note-x_0_123")
	if err != nil {
		t.Fatalf("Get on missing blob should not error: %v", err)
	}
	if data != nil {
		t.Fatalf("Expected nil for missing blob, got %v", data)
	}
}

func TestBlobPutManyPreservesOrder(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	payloads := [][]byte{{0x01}, {0x02}, {0x03}}
	ids, err := blobs.PutMany(ctx, payloads, "note-1")
	if err != nil {
		t.Fatalf("Failed to put blobs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("Expected 3 ids, got %d", len(ids))
	}

	data, err := blobs.GetAllForNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("GetAllForNote failed: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("Expected 3 payloads, got %d", len(data))
	}
	for i := range payloads {
		if !bytes.Equal(data[i], payloads[i]) {
			t.Fatalf("Payload %d mismatch: got %v, want %v", i, data[i], payloads[i])
		}
	}
}

func TestBlobDeleteIdempotent(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	id, err := blobs.Put(ctx, []byte{0x01}, "note-1", 0)
	if err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}

	if err := blobs.Delete(ctx, id); err != nil {
		t.Fatalf("First delete failed: %v", err)
	}
	if err := blobs.Delete(ctx, id); err != nil {
		t.Fatalf("Second delete should be a no-op: %v", err)
	}

	data, err := blobs.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if data != nil {
		t.Fatal("Blob should be gone after delete")
	}
}

func TestBlobDeleteAllForNote(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := blobs.PutMany(ctx, [][]byte{{0x01}, {0x02}}, "note-1"); err != nil {
		t.Fatalf("Failed to put blobs: %v", err)
	}
	keepID, err := blobs.Put(ctx, []byte{0x03}, "note-2", 0)
	if err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}

	if err := blobs.DeleteAllForNote(ctx, "note-1"); err != nil {
		t.Fatalf("DeleteAllForNote failed: %v", err)
	}

	gone, err := blobs.GetAllForNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("GetAllForNote failed: %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("Expected no blobs for note-1, got %d", len(gone))
	}

	// Other notes' blobs are untouched.
	kept, err := blobs.Get(ctx, keepID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if kept == nil {
		t.Fatal("note-2 blob should survive note-1's delete")
	}
}

func TestBlobRapidPutsSamePosition(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	// Back-to-back puts for the same (note, index) pair must get distinct
	// ids, not overwrite each other.
	first, err := blobs.Put(ctx, []byte{0x01}, "note-1", 0)
	if err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}
	second, err := blobs.Put(ctx, []byte{0x02}, "note-1", 0)
	if err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}
	if first == second {
		t.Fatalf("Blob ids collided: %q", first)
	}

	all, err := blobs.GetAllForNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("GetAllForNote failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected both blobs stored, got %d", len(all))
	}
}

func TestBlobDeleteAllForNotePrefixedIDs(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	// Snapshot imports keep caller-supplied ids, so one note's id may be a
	// prefix of another's. The index must still keep their blob sets apart.
	if _, err := blobs.Put(ctx, []byte{0x01}, "a", 0); err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}
	if _, err := blobs.Put(ctx, []byte{0x02}, "a:b", 0); err != nil {
		t.Fatalf("Failed to put blob: %v", err)
	}

	if err := blobs.DeleteAllForNote(ctx, "a"); err != nil {
		t.Fatalf("DeleteAllForNote failed: %v", err)
	}

	gone, err := blobs.GetAllForNote(ctx, "a")
	if err != nil {
		t.Fatalf("GetAllForNote failed: %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("Expected no blobs for note a, got %d", len(gone))
	}

	kept, err := blobs.GetAllForNote(ctx, "a:b")
	if err != nil {
		t.Fatalf("GetAllForNote failed: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("Deleting note a must not touch note a:b: want 1 blob kept, got %d", len(kept))
	}
}

func TestBlobEstimateTotalSize(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	size, err := blobs.EstimateTotalSize(ctx)
	if err != nil {
		t.Fatalf("EstimateTotalSize failed: %v", err)
	}
	if size != 0 {
		t.Fatalf("Expected 0 for empty store, got %d", size)
	}

	if _, err := blobs.PutMany(ctx, [][]byte{make([]byte, 100), make([]byte, 28)}, "note-1"); err != nil {
		t.Fatalf("Failed to put blobs: %v", err)
	}

	size, err = blobs.EstimateTotalSize(ctx)
	if err != nil {
		t.Fatalf("EstimateTotalSize failed: %v", err)
	}
	if size != 128 {
		t.Fatalf("Expected 128 bytes, got %d", size)
	}
}

func TestBlobSweepOrphans(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := blobs.PutMany(ctx, [][]byte{{0x01}, {0x02}}, "kept-note"); err != nil {
		t.Fatalf("Failed to put blobs: %v", err)
	}
	if _, err := blobs.PutMany(ctx, [][]byte{{0x03}, {0x04}, {0x05}}, "deleted-note"); err != nil {
		t.Fatalf("Failed to put blobs: %v", err)
	}

	removed, err := blobs.SweepOrphans(ctx, []string{"kept-note"})
	if err != nil {
		t.Fatalf("SweepOrphans failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("Expected 3 orphans removed, got %d", removed)
	}

	kept, err := blobs.GetAllForNote(ctx, "kept-note")
	if err != nil {
		t.Fatalf("GetAllForNote failed: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("Valid note's blobs should survive, got %d", len(kept))
	}

	gone, err := blobs.GetAllForNote(ctx, "deleted-note")
	if err != nil {
		t.Fatalf("GetAllForNote failed: %v", err)
	}
	if len(gone) != 0 {
		t.Fatalf("Orphans should be gone, got %d", len(gone))
	}
}

func TestBlobSweepOrphansEmptyValidSet(t *testing.T) {
	_, blobs, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { blobs.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := blobs.PutMany(ctx, [][]byte{{0x01}, {0x02}}, "any-note"); err != nil {
		t.Fatalf("Failed to put blobs: %v", err)
	}

	// nil valid set means nothing is valid: everything goes.
	removed, err := blobs.SweepOrphans(ctx, nil)
	if err != nil {
		t.Fatalf("SweepOrphans failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("Expected 2 removed, got %d", removed)
	}

	size, err := blobs.EstimateTotalSize(ctx)
	if err != nil {
		t.Fatalf("EstimateTotalSize failed: %v", err)
	}
	if size != 0 {
		t.Fatalf("Expected empty store after full sweep, got %d bytes", size)
	}
}
