// Package credstore persists the single Credential record the client keeps
// between runs. One record, one key: absence means logged out.
package credstore

import (
	"context"
	"errors"

	"github.com/brickbid/brickbid-go/models"
)

// ErrNotFound reports that no credential record is stored. Callers treat it
// as "logged out", not as a failure.
var ErrNotFound = errors.New("credstore: no stored credential")

// Store reads and writes the persisted credential record.
type Store interface {
	Load(ctx context.Context) (models.Credential, error)
	Save(ctx context.Context, cred models.Credential) error
	// Clear removes the record. Clearing an absent record is a no-op.
	Clear(ctx context.Context) error
}
