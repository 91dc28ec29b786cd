package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted one-way hash from the given password.
// bcrypt picks a fresh random salt on every call, so hashing the same
// password twice yields two different opaque values. Empty passwords are
// weak but valid input.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword reports whether password matches the given hash. The
// comparison runs in constant time; malformed hashes simply fail the
// check instead of surfacing a distinct error.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
