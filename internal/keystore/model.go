package keystore

// KeyRecord holds custodied encryption-key material.
type KeyRecord struct {
	ID            string
	EncryptionKey string
}
