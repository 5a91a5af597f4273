package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/scrypt"
)

const (
	// KeyBytes is the size of generated key material and of the global salt.
	KeyBytes = 32
	// CodeDigits is the length of a one-time challenge code.
	CodeDigits = 6

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// ErrInvalidArgument is returned when an input fails a precondition before
// any work is done.
var ErrInvalidArgument = errors.New("invalid argument")

// GenerateKey returns 256 bits of cryptographically random material,
// base64-encoded. Used for encryption keys and for the global salt.
func GenerateKey() (string, error) {
	buf := make([]byte, KeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateCode returns a 6-digit numeric one-time code, zero-padded.
// The code is the low six decimal digits of 32 bits of randomness, which
// is not perfectly uniform over all 6-digit strings but is fine for a
// short-lived OTP.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<32))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()%1000000), nil
}

// GenerateSalt returns a fresh candidate value for the global hashing salt.
func GenerateSalt() (string, error) {
	return GenerateKey()
}

// HashIdentity derives a deterministic, slow one-way hash of secret under
// the base64-encoded salt. The output is 256 bits, base64-encoded. It
// returns ErrInvalidArgument when secret is empty or salt does not decode
// to exactly 256 bits.
func HashIdentity(secret, salt string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("%w: salt is not base64", ErrInvalidArgument)
	}
	if secret == "" || len(raw) != KeyBytes {
		return "", fmt.Errorf("%w: empty secret or bad salt length", ErrInvalidArgument)
	}
	sum, err := scrypt.Key([]byte(secret), raw, scryptN, scryptR, scryptP, KeyBytes)
	if err != nil {
		return "", fmt.Errorf("hash identity: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sum), nil
}
