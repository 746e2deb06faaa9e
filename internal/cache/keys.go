package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "mockanytime"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ExtractionResultKey keys a cached question set by the uploaded document's
// content hash plus the topic/subtopic the caller attached.
func ExtractionResultKey(document []byte, topicID, subtopicID string) string {
	sum := sha256.Sum256(document)
	return GenerateCacheKey("extraction", "questions", hex.EncodeToString(sum[:]), topicID, subtopicID)
}
