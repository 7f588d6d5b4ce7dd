package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// keyPrefix versions every answer key so a format change invalidates
// old entries implicitly.
const keyPrefix = "kb:v1:"

// Cache defines the interface for caching synthesized answers.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	// DeleteMatching removes every entry whose key starts with prefix.
	DeleteMatching(prefix string) error
	Clear() error
}

// AnswerKey generates the deterministic cache key for a requirement query.
// The context is canonically serialized so identical queries hit the same
// entry regardless of call site.
func AnswerKey(requirementType string, context any) string {
	ctxJSON, err := json.Marshal(context)
	if err != nil {
		ctxJSON = []byte("{}")
	}
	hash := sha256.Sum256([]byte(requirementType + "|" + string(ctxJSON)))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// AnswerKeyPrefix returns the prefix shared by all requirement-query
// entries, for broad invalidation after a document update.
func AnswerKeyPrefix() string {
	return keyPrefix
}
