// internal/utils/crypto.go
package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// SignParams returns the hex SHA-1 of "k1=v1&k2=v2..." (keys sorted) followed
// by secret. This is the image host's request signature.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
