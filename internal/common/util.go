package common

import (
	"crypto/rand"
	"math/big"
)

const digits = "0123456789"

// MakeRandDigitString returns a string of n random decimal digits drawn from
// crypto/rand. It is used for one-time activation codes.
func MakeRandDigitString(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(digits)))
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = digits[v.Int64()]
	}
	return string(b), nil
}
