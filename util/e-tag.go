package util

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// GenerateETag returns a strong, quoted ETag: the SHA-1 of content, where
// []byte and string are hashed as-is and anything else as its JSON encoding.
func GenerateETag(content any) string {
	var data []byte

	switch v := content.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(content)
		if err != nil {
			data = fmt.Appendf(nil, "%v", content)
		}
	}

	hash := sha1.Sum(data)
	return `"` + hex.EncodeToString(hash[:]) + `"`
}

// MatchETag reports whether an If-None-Match header value matches etag.
// Comparison is weak: a W/ prefix on either side is ignored.
func MatchETag(ifNoneMatch, etag string) bool {
	ifNoneMatch = strings.TrimSpace(ifNoneMatch)
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
