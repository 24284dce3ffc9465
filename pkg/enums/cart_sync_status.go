package enums

// CartSyncStatus reflects whether the local cart view is settled, mid-fetch,
// or diverged from server truth after a failed operation.
type CartSyncStatus string

const (
	CartSyncIdle    CartSyncStatus = "idle"
	CartSyncLoading CartSyncStatus = "loading"
	CartSyncError   CartSyncStatus = "error"
)

// String implements fmt.Stringer.
func (s CartSyncStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CartSyncStatus.
func (s CartSyncStatus) IsValid() bool {
	switch s {
	case CartSyncIdle, CartSyncLoading, CartSyncError:
		return true
	}
	return false
}
