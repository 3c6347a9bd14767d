package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades verification latency for brute-force resistance.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The salt is
// generated per call and embedded in the output string.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
