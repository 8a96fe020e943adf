package cache

import "strings"

const (
	GlobalKeyPrefix = "quizarena"
)

// GenerateCacheKey builds "quizarena:<service>:<object>:<id>[:<p1_p2...>]".
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}
