package domain

// Profile is the human identity behind a ledger entry. Profiles are owned by
// an external identity system and read-only here.
type Profile struct {
	ID       string
	FullName *string
	Email    *string
}
