package service

import "golang.org/x/crypto/bcrypt"

// Costo bcrypt heredado del esquema original; ~100ms por verificación en
// hardware común.
const bcryptCost = 10

// HashPassword genera un digest bcrypt con salt aleatorio por contraseña.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compara una contraseña en claro contra su digest.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
