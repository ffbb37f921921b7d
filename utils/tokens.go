package utils

import (
	"crypto/rand"
	"os"

	"github.com/kataras/iris/v12/context"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// AccessToken is the claims payload of the HS256 access token. Session
// issuance lives outside this service; we only verify.
type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}

// AccessTokenVerifier builds the iris JWT middleware from ACCESS_TOKEN_SECRET.
func AccessTokenVerifier() context.Handler {
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	return verifier.Verify(func() interface{} {
		return new(AccessToken)
	})
}

// GenerateShortToken returns a URL-safe random string of the given length (bytes*2 hex).
func GenerateShortToken(n int) string {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	// hex encoding doubles length; that's fine for uniqueness and safety
	const hex = "0123456789abcdef"
	out := make([]byte, n*2)
	for i, v := range b {
		out[i*2] = hex[v>>4]
		out[i*2+1] = hex[v&0x0f]
	}
	return string(out)
}
