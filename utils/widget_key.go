package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateWidgetKey returns a new widget API key using a stable tablo_ prefix
// followed by the uppercase UUID without dashes. Keys issued when a widget is
// first published use the same format so rotations stay compatible.
func GenerateWidgetKey() string {
	key := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "tablo_" + key
}
