package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RefreshTokenKey returns the key holding the admin id for a refresh token.
func (r *CacheKeyStruct) RefreshTokenKey(token string) string {
	return fmt.Sprintf("refresh:%s", token)
}

// AssembledQuizKey returns the hash key caching assembled payloads of a quiz.
// Each hash field is one version/seed combination so invalidation is a single DEL.
func (r *CacheKeyStruct) AssembledQuizKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:assembled", quizID)
}

// AssembledQuizField returns the hash field for a version label and seed.
func (r *CacheKeyStruct) AssembledQuizField(versionLabel, seed string) string {
	return fmt.Sprintf("%s|%s", versionLabel, seed)
}

// StepLayoutChannel returns the Redis PubSub channel for layout changes on a step.
func (r *CacheKeyStruct) StepLayoutChannel(stepID string) string {
	return fmt.Sprintf("step:%s:layout", stepID)
}

var CacheKey = NewCacheKeyStruct()
