// internal/storage/multi.go
package storage

import (
	"context"

	"opportunity-engine/internal/models"
	"opportunity-engine/internal/pipeline"
)

// MultiPersister fans a generated result out to several persisters in order.
// The first failure stops the sequence and is returned unwrapped, so the
// pipeline's caller sees the underlying store's error verbatim.
type MultiPersister []pipeline.Persister

func (m MultiPersister) Persist(ctx context.Context, result *models.GeneratedResult) error {
	for _, p := range m {
		if err := p.Persist(ctx, result); err != nil {
			return err
		}
	}
	return nil
}
