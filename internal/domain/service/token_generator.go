package service

// TokenGenerator issues cryptographically random opaque tokens.
// Confirmation and recovery tokens share this format but occupy logically
// separate account fields and are looked up independently, so a token of one
// kind can never satisfy the other.
type TokenGenerator interface {
	// Generate returns a fresh opaque token string.
	Generate() (string, error)
}
