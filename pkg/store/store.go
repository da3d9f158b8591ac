// Package store persists named datasets for the HTTP API.
//
// This package defines the storage interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// Records pair a dataset with a generated UUID and creation time. The API
// uses record IDs in chart URLs, so a stored dataset can be re-rendered
// with different styling without re-uploading.
package store

import (
	"context"
	"time"

	"github.com/waffleviz/waffle/pkg/dataset"
	"github.com/waffleviz/waffle/pkg/errors"
)

// Record is a stored dataset with identity and creation time.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Dataset   dataset.Dataset `json:"dataset" bson:"dataset"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// Store is the interface for dataset storage backends.
type Store interface {
	// Put validates and stores a dataset under a fresh ID.
	Put(ctx context.Context, ds dataset.Dataset) (*Record, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record by ID.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// notFound is the error for unknown record IDs, shared by all backends.
func notFound(id string) error {
	return errors.New(errors.ErrCodeDatasetNotFound, "dataset %s not found", id)
}
