package dashboard

import "context"

// ArtifactStore port (where exported reports go)
type ArtifactStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
