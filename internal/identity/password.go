package identity

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordLength = 16

	lower   = "abcdefghijklmnopqrstuvwxyz"
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!@#$%^&*-_=+"
)

// GeneratePassword returns a random password from a cryptographically secure
// source. The result always contains at least one lowercase letter, one
// uppercase letter, one digit and one symbol.
func GeneratePassword() (string, error) {
	alphabet := lower + upper + digits + symbols

	for {
		buf := make([]byte, passwordLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				return "", err
			}
			buf[i] = alphabet[n.Int64()]
		}
		pw := string(buf)
		if meetsPolicy(pw) {
			return pw, nil
		}
		// Rare miss on one of the classes; redraw.
	}
}

func meetsPolicy(pw string) bool {
	return containsAny(pw, lower) && containsAny(pw, upper) &&
		containsAny(pw, digits) && containsAny(pw, symbols)
}

func containsAny(s, set string) bool {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(set); j++ {
			if s[i] == set[j] {
				return true
			}
		}
	}
	return false
}

// HashPassword hashes a plaintext credential for persistence.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext credential against a stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
