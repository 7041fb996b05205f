// Package idgen generates the fixed-length alphanumeric identifiers used
// for room codes, external user IDs, and API/bot tokens.
package idgen

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Default lengths for the identifier kinds.
const (
	RoomCodeLength = 8
	UserIDLength   = 10
	APITokenLength = 32
	BotTokenLength = 32
)

// Code returns a random alphanumeric string of length n.
func Code(n int) string {
	if n <= 0 {
		return ""
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// only possible when the platform entropy source is broken
			panic(err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}

// RoomCode returns a new 8-character room join code.
func RoomCode() string { return Code(RoomCodeLength) }

// UserID returns a new 10-character external user ID.
func UserID() string { return Code(UserIDLength) }

// APIToken returns a new 32-character API token.
func APIToken() string { return Code(APITokenLength) }

// BotToken returns a new 32-character bot token.
func BotToken() string { return Code(BotTokenLength) }

// RoomLink composes a public room URL from the configured base URL and
// a room code.
func RoomLink(baseURL, code string) string {
	return baseURL + "/" + code
}
