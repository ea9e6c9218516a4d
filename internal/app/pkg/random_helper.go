package pkg

import (
	"math/rand"
)

func RandomString(n int) string {
	runes := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	b := make([]rune, n)
	for i := range b {
		b[i] = runes[rand.Intn(len(runes))]
	}
	return string(b)
}

func RandomNumberString(n int) string {
	runes := []rune("0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = runes[rand.Intn(len(runes))]
	}
	return string(b)
}

// RandomEmailCode returns a 4-digit verification code, first digit nonzero.
func RandomEmailCode() string {
	return string(rune('1'+rand.Intn(9))) + RandomNumberString(3)
}
