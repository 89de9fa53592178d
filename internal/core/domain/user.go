package domain

// A User is an account record. Password holds the stored credential,
// never the clear text.
type User struct {
	ID       int64
	Username string
	Password string
	IsAdmin  bool
}
