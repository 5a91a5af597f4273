package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/keyward/keyward/internal/crypto"
	"github.com/keyward/keyward/internal/keystore"
	"github.com/keyward/keyward/internal/notification"
	"github.com/keyward/keyward/internal/registry"
	"github.com/keyward/keyward/internal/validate"
)

// Service orchestrates the custody protocol: it wires identity
// verification, key custody and out-of-band code delivery together.
type Service struct {
	registry *registry.Service
	keys     *keystore.Service
	notifier notification.Notifier
}

// NewService creates the protocol orchestrator.
func NewService(reg *registry.Service, keys *keystore.Service, notifier notification.Notifier) *Service {
	return &Service{registry: reg, keys: keys, notifier: notifier}
}

// IssueKey creates a key for phone and registers a pending verification,
// sending the code out-of-band. When the phone is already claimed by a
// verified identity it returns a decoy id instead, with the same response
// shape, so issuance cannot be used to probe registration status. An
// optional pin is validated and accepted but not yet enforced anywhere;
// the parameter keeps the wire contract stable for when enforcement lands.
func (s *Service) IssueKey(ctx context.Context, phone, pin string) (string, error) {
	if pin != "" && !validate.PIN(pin) {
		return "", crypto.ErrInvalidArgument
	}
	_, err := s.registry.LookupVerified(ctx, phone)
	switch {
	case err == nil:
		return s.keys.DecoyID(), nil
	case !errors.Is(err, registry.ErrNotFound):
		return "", err
	}

	id, err := s.keys.Create(ctx)
	if err != nil {
		return "", err
	}
	code, err := s.registry.RegisterPendingVerification(ctx, phone, id)
	if err != nil {
		return "", err
	}
	if err := s.notifier.SendCode(ctx, phone, code); err != nil {
		return "", fmt.Errorf("deliver code: %w", err)
	}
	return id, nil
}

// RequestChallenge scopes a fresh code to op for an already-verified
// identity and delivers it out-of-band. op must be read or remove; the
// initial verify challenge is created by IssueKey.
func (s *Service) RequestChallenge(ctx context.Context, phone, keyID, op string) error {
	code, err := s.registry.IssueChallenge(ctx, phone, keyID, op)
	if err != nil {
		return err
	}
	if err := s.notifier.SendCode(ctx, phone, code); err != nil {
		return fmt.Errorf("deliver code: %w", err)
	}
	return nil
}

// ResolveChallenge proves phone ownership with code for op. For read and
// verify it returns the custodied key record. For remove it destroys the
// identity and the key and returns a zero record.
func (s *Service) ResolveChallenge(ctx context.Context, phone, keyID, code, op string) (keystore.KeyRecord, error) {
	identity, err := s.registry.ResolveChallenge(ctx, phone, keyID, code, op)
	if err != nil {
		return keystore.KeyRecord{}, err
	}

	if op == validate.OpRemove {
		if err := s.registry.DeleteIdentity(ctx, phone, keyID); err != nil {
			return keystore.KeyRecord{}, fmt.Errorf("delete identity: %w", err)
		}
		if err := s.keys.Remove(ctx, keyID); err != nil {
			return keystore.KeyRecord{}, fmt.Errorf("delete key: %w", err)
		}
		return keystore.KeyRecord{}, nil
	}

	return s.keys.Get(ctx, identity.KeyID)
}
