// internal/storage/elastic.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

// Indexer writes scored opportunities into an Elasticsearch index so the
// dashboard can search them. It implements pipeline.Persister.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Indexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "opportunity-indexer"}),
	}
}

type opportunityDocument struct {
	CompanyID   string             `json:"companyId"`
	Opportunity models.Opportunity `json:"opportunity"`
	Score       models.Score       `json:"score"`
	IndexedAt   time.Time          `json:"indexedAt"`
}

// Persist indexes every scored opportunity as its own document. The first
// indexing failure aborts the batch.
func (ix *Indexer) Persist(ctx context.Context, result *models.GeneratedResult) error {
	now := time.Now().UTC()
	for _, so := range result.Scored {
		doc := opportunityDocument{
			CompanyID:   result.CompanyID,
			Opportunity: so.Opportunity,
			Score:       so.Score,
			IndexedAt:   now,
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return apperrors.NewIndexWriteFailedError(ix.index, err)
		}

		res, err := ix.client.Index(
			ix.index,
			bytes.NewReader(body),
			ix.client.Index.WithDocumentID(uuid.NewString()),
			ix.client.Index.WithContext(ctx),
		)
		if err != nil {
			return apperrors.NewIndexWriteFailedError(ix.index, err)
		}
		if res.IsError() {
			res.Body.Close()
			return apperrors.NewIndexWriteFailedError(ix.index, fmt.Errorf("index response: %s", res.Status()))
		}
		res.Body.Close()
	}

	ix.logger.Debug("opportunities indexed", map[string]interface{}{
		"companyId": result.CompanyID,
		"count":     len(result.Scored),
		"index":     ix.index,
	})
	return nil
}
