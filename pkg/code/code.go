package code

import (
	"crypto/rand"
	"math/big"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 6
)

// Generate returns a 6-character upper-case alphanumeric family code.
// Codes are short enough to type from a paper invite or embed in a QR link.
// Uniqueness is not checked against existing codes; with 36^6 possible values
// collisions are unlikely at wedding scale, but the caller owns that risk.
func Generate() string {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// nothing sensible to do but stop.
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}
