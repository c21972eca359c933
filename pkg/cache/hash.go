package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<namespace>:<sha256>", hashing each part as one JSON
// document so that adjacent parts cannot run together.
func hashKey(namespace string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// keyType returns the namespace of key: everything before the first colon.
func keyType(key string) string {
	ns, _, _ := strings.Cut(key, ":")
	return ns
}
