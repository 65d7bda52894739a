// Package session keeps the browser's backend credentials server-side.
//
// A Session is the explicit handle passed to every API-calling function;
// tokens themselves stay in a Store and are read fresh on each call.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store for unknown session ids
var ErrNotFound = errors.New("session not found")

// Session identifies an authenticated browser session
type Session struct {
	ID    string
	Email string
}

// Record is what a Store keeps per session
type Record struct {
	Email     string    `json:"email"`
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Load(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, id string, rec *Record) error
	Delete(ctx context.Context, id string) error
}
