package utils

import (
	"crypto/rand"
	"math/big"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

// GenerateRandomPassword draws from crypto/rand; the result is mailed to new users.
func GenerateRandomPassword(length int) (string, error) {
	max := big.NewInt(int64(len(letters)))

	password := make([]rune, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		password[i] = letters[n.Int64()]
	}
	return string(password), nil
}
