package entity

// Session identifies the caller of a use case. It is built from a verified
// ID token by the auth middleware and passed explicitly.
type Session struct {
	UserID        string
	EmailVerified bool
}

// AuthTokens is what a successful password sign-in yields.
type AuthTokens struct {
	UserID       string
	IDToken      string
	RefreshToken string
}
