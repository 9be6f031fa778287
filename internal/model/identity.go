package model

// FederatedProfile is the canonical shape every identity provider profile is
// normalized to before it reaches the directory.
type FederatedProfile struct {
	Provider AuthProvider
	Name     string
	Email    string
	Image    string
}
