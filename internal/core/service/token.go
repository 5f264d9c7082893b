package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// tokenExpired reads the exp claim from the middle segment of a bearer token
// without verifying it. The token is expired iff floor(now) >= exp.
// Anything that cannot be decoded, or a missing exp, counts as not expired.
func tokenExpired(token string, now time.Time) bool {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return false
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return false
	}

	// exp is compared as sent: jwt.NumericDate would truncate a fractional
	// value to whole seconds.
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return float64(now.Unix()) >= exp
}
