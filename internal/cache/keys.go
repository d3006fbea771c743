package cache

import "strings"

const (
	GlobalKeyPrefix = "mathsquest"
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

// SessionKey is where a quiz session lives between requests.
func SessionKey(sessionID string) string {
	return GenerateCacheKey("quiz", "session", sessionID)
}

// QuestionPoolKey caches the questions of one topic in one theme.
func QuestionPoolKey(topicID, theme string) string {
	return GenerateCacheKey("quiz", "pool", topicID, theme)
}

// TopicListKey caches the topic catalogue.
func TopicListKey() string {
	return GenerateCacheKey("topic", "list", "all")
}
