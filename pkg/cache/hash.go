package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short abbreviates a hash for log output.
func Short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// hashKey builds "kind:<sha256>" over the JSON encoding of parts.
// Struct fields encode in declaration order, so equal inputs give equal keys.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p) // strings and flat structs
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
