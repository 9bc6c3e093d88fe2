package domain

// OwnerKind discriminates the identity variant that owns an account.
type OwnerKind string

const (
	OwnerClient OwnerKind = "CLIENT"
	OwnerAdmin  OwnerKind = "ADMIN"
)

// OwnerRef is a tagged reference to the identity owning an account.
// The identity itself (client or administrator record) lives outside the
// ledger core; only the back-reference is stored here.
type OwnerRef struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// IsAdmin reports whether the referenced identity is an administrator.
func (o OwnerRef) IsAdmin() bool {
	return o.Kind == OwnerAdmin
}

// Owns reports whether this reference owns the given account.
func (o OwnerRef) Owns(account *Account) bool {
	return account != nil && account.Owner.Kind == o.Kind && account.Owner.ID == o.ID
}
