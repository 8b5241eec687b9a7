package core

import (
	"strings"

	"github.com/google/uuid"
)

// NewIdentifier returns a random identifier used to tell loaded assets apart
// in logs. The prefix is optional.
func NewIdentifier(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// ShortIdentifier trims an identifier down to its first uuid group, which is
// enough to correlate log lines.
func ShortIdentifier(id string) string {
	// prefix-xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx -> prefix-xxxxxxxx
	parts := strings.Split(id, "-")
	if len(parts) < 5 {
		return id
	}
	return strings.Join(parts[:len(parts)-4], "-")
}
