package keystore

import (
	"context"
	"errors"
	"testing"

	"github.com/keyward/keyward/internal/crypto"
	"github.com/keyward/keyward/internal/validate"
)

func TestCreateAndGetRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !validate.ID(id) {
		t.Fatalf("malformed key id %q", id)
	}

	record, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.ID != id || record.EncryptionKey == "" {
		t.Fatalf("unexpected record %+v", record)
	}

	again, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.EncryptionKey != record.EncryptionKey {
		t.Fatalf("key material changed between reads")
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, crypto.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRemoveRejectsMalformedID(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	if err := svc.Remove(context.Background(), "not-a-uuid"); !errors.Is(err, crypto.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if n := WriteCount(repo); n != 0 {
		t.Fatalf("malformed remove reached the repository (%d writes)", n)
	}
}

func TestGetMissing(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Get(context.Background(), svc.DecoyID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Remove(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(ctx, id); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestDecoyIDWritesNothing(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	id := svc.DecoyID()
	if !validate.ID(id) {
		t.Fatalf("malformed decoy id %q", id)
	}
	if n := WriteCount(repo); n != 0 {
		t.Fatalf("decoy issuance performed %d writes", n)
	}
}
