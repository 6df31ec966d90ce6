package storage

import "io"

// ObjectStorage is what the services depend on; S3Storage is the production
// implementation.
type ObjectStorage interface {
	Upload(key string, src io.Reader, contentType string) error
	Delete(key string) error
	PublicURL(key string) string
	PublicEndpoint() string
	ObjectKeyFromURL(raw string) string
}
