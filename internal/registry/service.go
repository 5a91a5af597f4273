package registry

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/keyward/keyward/internal/crypto"
	"github.com/keyward/keyward/internal/validate"
)

// Service owns the per-phone verification state machine. Records are keyed
// by the salted hash of the phone number; lookups that fail any
// precondition on the read and challenge paths collapse into ErrNotFound so
// callers cannot tell an unknown phone from an unverified one or a key-id
// mismatch.
type Service struct {
	repo Repository
	salt string
}

// NewService creates an identity registry using the deployment salt
// resolved at startup.
func NewService(repo Repository, salt string) *Service {
	return &Service{repo: repo, salt: salt}
}

func (s *Service) hash(phone string) (string, error) {
	return crypto.HashIdentity(phone, s.salt)
}

// RegisterPendingVerification writes a fresh unverified identity for phone
// carrying a "verify" challenge and returns the code for out-of-band
// delivery. Any existing record for the phone is replaced outright, so a
// repeated issuance request invalidates the earlier code: last write wins
// and exactly one code is ever valid.
func (s *Service) RegisterPendingVerification(ctx context.Context, phone, keyID string) (string, error) {
	if !validate.Phone(phone) || !validate.ID(keyID) {
		return "", crypto.ErrInvalidArgument
	}
	code, err := crypto.GenerateCode()
	if err != nil {
		return "", err
	}
	id, err := s.hash(phone)
	if err != nil {
		return "", err
	}
	identity := Identity{
		ID:       id,
		KeyID:    keyID,
		Op:       validate.OpVerify,
		Code:     code,
		Verified: false,
	}
	if err := s.repo.Put(ctx, identity); err != nil {
		return "", fmt.Errorf("persist identity: %w", err)
	}
	return code, nil
}

// Lookup returns the identity record for phone without mutating it.
func (s *Service) Lookup(ctx context.Context, phone string) (Identity, error) {
	if !validate.Phone(phone) {
		return Identity{}, crypto.ErrInvalidArgument
	}
	id, err := s.hash(phone)
	if err != nil {
		return Identity{}, err
	}
	return s.repo.Get(ctx, id)
}

// LookupVerified returns the record only when it has completed
// verification. This is the "is this phone already claimed" predicate that
// selects between real and decoy issuance.
func (s *Service) LookupVerified(ctx context.Context, phone string) (Identity, error) {
	identity, err := s.Lookup(ctx, phone)
	if err != nil {
		return Identity{}, err
	}
	if !identity.Verified {
		return Identity{}, ErrNotFound
	}
	return identity, nil
}

// IssueChallenge scopes a new code to op for a verified identity whose
// stored key id matches. Missing, unverified and mismatched records all
// yield ErrNotFound.
func (s *Service) IssueChallenge(ctx context.Context, phone, keyID, op string) (string, error) {
	if !validate.Phone(phone) || !validate.ID(keyID) || !validate.Op(op) {
		return "", crypto.ErrInvalidArgument
	}
	identity, err := s.Lookup(ctx, phone)
	if err != nil {
		return "", err
	}
	if !identity.Verified || identity.KeyID != keyID {
		return "", ErrNotFound
	}
	code, err := crypto.GenerateCode()
	if err != nil {
		return "", err
	}
	identity.Op = op
	identity.Code = code
	if err := s.repo.Put(ctx, identity); err != nil {
		return "", fmt.Errorf("persist identity: %w", err)
	}
	return code, nil
}

// ResolveChallenge checks code against the pending challenge for (phone,
// keyID, op). A record, key-id or op mismatch rejects without mutation; a
// wrong code likewise leaves the record untouched. On a full match the
// challenge is cleared, the record becomes verified and the code is
// rotated so the spent one can never be replayed.
func (s *Service) ResolveChallenge(ctx context.Context, phone, keyID, code, op string) (Identity, error) {
	if !validate.Phone(phone) || !validate.ID(keyID) || !validate.Code(code) || !validate.Op(op) {
		return Identity{}, crypto.ErrInvalidArgument
	}
	identity, err := s.Lookup(ctx, phone)
	if err != nil {
		return Identity{}, err
	}
	if identity.KeyID != keyID || identity.Op != op {
		return Identity{}, ErrNotFound
	}
	if subtle.ConstantTimeCompare([]byte(identity.Code), []byte(code)) != 1 {
		return Identity{}, ErrNotFound
	}
	next, err := crypto.GenerateCode()
	if err != nil {
		return Identity{}, err
	}
	identity.Op = ""
	identity.Verified = true
	identity.Code = next
	if err := s.repo.Put(ctx, identity); err != nil {
		return Identity{}, fmt.Errorf("persist identity: %w", err)
	}
	return identity, nil
}

// DeleteIdentity removes the record for phone after checking that keyID
// matches the stored one. Unlike the challenge paths the mismatch is
// surfaced distinctly: deletion is only reached after a successful remove
// challenge, so a mismatch here is a caller bug, not a probe.
func (s *Service) DeleteIdentity(ctx context.Context, phone, keyID string) error {
	if !validate.Phone(phone) || !validate.ID(keyID) {
		return crypto.ErrInvalidArgument
	}
	identity, err := s.Lookup(ctx, phone)
	if err != nil {
		return err
	}
	if identity.KeyID != keyID {
		return ErrOwnershipMismatch
	}
	return s.repo.Remove(ctx, identity.ID)
}
