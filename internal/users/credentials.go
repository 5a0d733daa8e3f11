package users

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const loginAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateLogin returns four uppercase letters followed by a number in
// [10, 99], e.g. "QWRT42".
func GenerateLogin() (string, error) {
	var b strings.Builder
	for range 4 {
		n, err := randomInt(0, int64(len(loginAlphabet)-1))
		if err != nil {
			return "", err
		}
		b.WriteByte(loginAlphabet[n])
	}

	n, err := randomInt(10, 99)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "%d", n)
	return b.String(), nil
}

// GeneratePIN returns a six-digit PIN in [100000, 999999].
func GeneratePIN() (string, error) {
	n, err := randomInt(100000, 999999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n), nil
}

// randomInt returns a uniform integer in [lo, hi].
func randomInt(lo, hi int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
	if err != nil {
		return 0, fmt.Errorf("random: %w", err)
	}
	return lo + n.Int64(), nil
}
