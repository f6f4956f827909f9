package domain

import "time"

// ObjectInfo is simplified metadata for one stored bucket object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectContent is the payload and content type of a downloaded object.
type ObjectContent struct {
	Data        []byte
	ContentType string
}
