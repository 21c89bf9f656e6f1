package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a standard v4 UUID.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateConnectionID returns a compact identifier assigned to each
// accepted websocket connection.
func GenerateConnectionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
