package auth

// Identity is what an identity provider knows about a signed in user.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}
