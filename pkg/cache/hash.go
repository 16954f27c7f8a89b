package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// Hash returns the hex SHA-256 of data. Layout keys hash the adjacency-list
// text with it; artifact keys hash the settled node-link document.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey derives "prefix:<hash>" from the JSON encoding of parts, so any
// option that changes a stage's output changes its key.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
