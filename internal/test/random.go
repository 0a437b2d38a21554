package test

import (
	"fmt"
	"math/rand/v2"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns an alphanumeric string of minLen to maxLen bytes.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomRegistration returns a Kenyan style plate such as "KDA 123A".
func RandomRegistration() string {
	letter := func() byte { return byte('A' + rand.IntN(26)) }
	return fmt.Sprintf("K%c%c %03d%c", letter(), letter(), rand.IntN(1000), letter())
}
