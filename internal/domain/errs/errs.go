// Package errs holds the sentinel errors shared by the gateway layers.
//
// Infrastructure wraps these with fmt.Errorf("...: %w", errs.ErrX) so the
// delivery layer can translate them with errors.Is.
package errs

import "errors"

var (
	// ErrAuth means the session carries no usable credential.
	ErrAuth = errors.New("authentication required")
	// ErrNotFound means the backend reported the resource unknown.
	ErrNotFound = errors.New("not found")
	// ErrDownload means fetching bytes from a located resource failed.
	ErrDownload = errors.New("download failed")
	// ErrUpload means a direct upload submission was rejected.
	ErrUpload = errors.New("upload failed")
	// ErrUpstream covers any other non-success backend response.
	ErrUpstream = errors.New("upstream error")
	// ErrSerialization means an operation lacks the state it needs.
	ErrSerialization = errors.New("serialization error")
	// ErrValidation is a request-level validation failure.
	ErrValidation = errors.New("validation error")
	// ErrNoRecipients means neither explicit input nor counterparties name a signer.
	ErrNoRecipients = errors.New("no recipients")
	// ErrMalformedResponse means the backend answered with a record we cannot accept.
	ErrMalformedResponse = errors.New("malformed response")
)
