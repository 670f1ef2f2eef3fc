package util

import (
	"math/rand/v2"
)

const upperAlnumCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomUpperAlnum 產生長度為n的大寫英數亂數字串
func RandomUpperAlnum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = upperAlnumCharset[rand.IntN(len(upperAlnumCharset))]
	}
	return string(b)
}
