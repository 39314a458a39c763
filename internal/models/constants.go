// Package models contains data types and constants for the nearby assistant API.
package models

// DefaultEndpoint is the assistant endpoint used when none is configured
const DefaultEndpoint = "http://localhost:8000/ai"

// Role identifies who produced a chat turn. The values are the wire values.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Fallback texts used when a result card omits a field
const (
	FallbackValue = "N/A"
	DistanceUnit  = "km"
)

// LoadingText is shown while a reply is outstanding
const LoadingText = "Searching nearby..."

// DefaultHeaders returns the headers sent with every assistant request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "nearbychat/0.1",
	}
}
