package registry

// Identity is the per-phone verification record. ID is the salted hash of
// the phone number, so at most one record can exist per phone.
type Identity struct {
	ID       string
	KeyID    string
	Op       string // challenge the pending code is scoped to, "" when none
	Code     string
	Verified bool
}
