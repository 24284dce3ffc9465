package enums

// SessionStatus tracks the auth session lifecycle.
type SessionStatus string

const (
	SessionUninitialized SessionStatus = "uninitialized"
	SessionValidating    SessionStatus = "validating"
	SessionValid         SessionStatus = "valid"
	SessionInvalid       SessionStatus = "invalid"
)

// String implements fmt.Stringer.
func (s SessionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionStatus.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionUninitialized, SessionValidating, SessionValid, SessionInvalid:
		return true
	}
	return false
}
