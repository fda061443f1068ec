package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID mints a 32-char hex id (uuid v4 without dashes), the primary key
// format for all tables.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
