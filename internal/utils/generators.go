package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewRecordID returns a fresh identifier for a stored record.
func NewRecordID() string {
	return uuid.NewString()
}

// RandomObjectName builds a collision-safe storage object name that
// preserves the original file's extension ("photo.JPG" -> "<uuid>.jpg").
// Files without an extension get a bare UUID name.
func RandomObjectName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.NewString() + ext
}
