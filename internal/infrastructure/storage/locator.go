// Package storage resolves document storage paths into short-lived
// presigned URLs and submits uploads to them.
package storage

import (
	"context"

	"contract-workspace/internal/infrastructure/session"
)

// UploadTarget is a presigned POST: the form fields must be sent verbatim
// ahead of the file part.
type UploadTarget struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// Key returns the object key the target writes to, if the signer exposed it
func (t *UploadTarget) Key() string {
	if t == nil {
		return ""
	}
	return t.Fields["key"]
}

// Locator mints presigned URLs. Calls are never retried and every call may
// return a different URL for the same path.
type Locator interface {
	// DownloadURL returns a time-limited GET URL for path
	DownloadURL(ctx context.Context, sess *session.Session, path string) (string, error)

	// UploadTarget returns a presigned POST for path. An empty path asks for
	// a fresh object key. contentType is the type the object is stored
	// with; signers that pin their own type ignore it.
	UploadTarget(ctx context.Context, sess *session.Session, path, contentType string) (*UploadTarget, error)
}

// Credentials checks that a session still carries a usable token
type Credentials interface {
	AccessToken(ctx context.Context, sess *session.Session) (string, error)
}
