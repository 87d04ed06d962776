package auth

import (
	"crypto/rand"
	"math/big"
)

// Charset without 0/O and 1/I so codes survive being read aloud
const referralCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const referralCodeLength = 8

func newReferralCode() (string, error) {
	code := make([]byte, referralCodeLength)
	max := big.NewInt(int64(len(referralCodeCharset)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = referralCodeCharset[n.Int64()]
	}

	return string(code), nil
}
