package domain

import (
	"path"
	"strings"
	"time"
)

// BucketObject is a read-only view of one object in the bucket.
type BucketObject struct {
	Key      string
	Size     int64
	Uploaded time.Time
}

// FileName returns the last path segment of the key.
func (o BucketObject) FileName() string {
	return path.Base(o.Key)
}

// Ext returns the lower-cased extension of the key, including the dot.
func (o BucketObject) Ext() string {
	return strings.ToLower(path.Ext(o.Key))
}

// TitleFromFileName turns "chapter_01-intro.pdf" into "chapter 01 intro".
func TitleFromFileName(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}
