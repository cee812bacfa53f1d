package utils

import (
	"crypto/rand"
	"math"
	"math/big"
	"time"
)

// Ambiguous characters (0/O, 1/I) are excluded so codes can be read out loud
const otpCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOTPCode generates a random access code of the given length.
// Codes must stay unguessable, so a failing entropy source is an error.
func GenerateOTPCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(otpCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = otpCharset[n.Int64()]
	}
	return string(code), nil
}

// GenerateOrderCode builds a numeric order code for the payment gateway:
// unix seconds plus a 3-digit random suffix keeps codes unique and sortable
func GenerateOrderCode() int64 {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		suffix = big.NewInt(time.Now().UnixNano() % 1000)
	}
	return time.Now().Unix()*1000 + suffix.Int64()
}

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
