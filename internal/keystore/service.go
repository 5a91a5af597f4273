package keystore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/keyward/keyward/internal/crypto"
	"github.com/keyward/keyward/internal/validate"
)

// Service manages the custody of encryption-key records.
type Service struct {
	repo Repository
}

// NewService creates a new key custody service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create generates a fresh key record, persists it, and returns its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	material, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}
	if err := s.repo.Put(ctx, KeyRecord{ID: id, EncryptionKey: material}); err != nil {
		return "", fmt.Errorf("persist key: %w", err)
	}
	return id, nil
}

// DecoyID returns a well-formed key id without persisting anything. Issued
// in place of a real id when the phone is already claimed, so response
// shape does not reveal registration status.
func (s *Service) DecoyID() string {
	return uuid.NewString()
}

// Get returns the key record for id, ErrNotFound when absent.
func (s *Service) Get(ctx context.Context, id string) (KeyRecord, error) {
	if !validate.ID(id) {
		return KeyRecord{}, crypto.ErrInvalidArgument
	}
	return s.repo.Get(ctx, id)
}

// Remove deletes the key record for id. Removal of an absent record
// succeeds.
func (s *Service) Remove(ctx context.Context, id string) error {
	if !validate.ID(id) {
		return crypto.ErrInvalidArgument
	}
	return s.repo.Remove(ctx, id)
}
