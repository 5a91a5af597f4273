package validate

import "regexp"

// Ops a challenge can be scoped to.
const (
	OpRead   = "read"
	OpVerify = "verify"
	OpRemove = "remove"
)

var (
	phoneRe = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	codeRe  = regexp.MustCompile(`^\d{6}$`)
	idRe    = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	pinRe   = regexp.MustCompile(`^.{4,256}$`)
)

// Phone reports whether s is an E.164 international phone number.
func Phone(s string) bool { return phoneRe.MatchString(s) }

// Code reports whether s is exactly six ASCII digits.
func Code(s string) bool { return codeRe.MatchString(s) }

// ID reports whether s is a lower-case UUID string.
func ID(s string) bool { return idRe.MatchString(s) }

// Op reports whether s names a known challenge operation.
func Op(s string) bool {
	switch s {
	case OpRead, OpVerify, OpRemove:
		return true
	default:
		return false
	}
}

// PIN reports whether s is an acceptable PIN (4 to 256 characters).
func PIN(s string) bool {
	if s == "" {
		return false
	}
	return pinRe.MatchString(s)
}
