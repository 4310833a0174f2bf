package identity

// Account is the authenticated identity handed to the resolver by the
// external auth provider. It is immutable here; the resolver never creates
// or modifies accounts.
type Account struct {
	ID    string // opaque, stable provider identifier
	Email string // optional
	Role  string // role claim asserted by the provider, may be empty
}

// Options controls resolution side effects.
type Options struct {
	// PersistLinks enables writes: lazy profile creation, link write-back and
	// bootstrap. When false the resolution is strictly read-only and reports
	// what would match.
	PersistLinks bool

	// AllowBootstrap permits creating a brand new student record when every
	// matching strategy fails. Only honored for student-role profiles and
	// only when PersistLinks is set.
	AllowBootstrap bool
}
