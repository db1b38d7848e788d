// internal/storage/elastic_test.go
package storage

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"
)

// fakeESTransport records index requests and answers with a fixed status.
type fakeESTransport struct {
	requests []*http.Request
	bodies   []string
	status   int
}

func (f *fakeESTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(body))
	}
	return &http.Response{
		StatusCode: f.status,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(`{}`)),
	}, nil
}

func createIndexer(t *testing.T, transport *fakeESTransport) *Indexer {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Transport: transport})
	require.NoError(t, err)
	return NewIndexer(client, "opportunities", logger.NewTestLogger(t))
}

func TestIndexer_Persist(t *testing.T) {
	transport := &fakeESTransport{status: http.StatusCreated}
	ix := createIndexer(t, transport)

	result := &models.GeneratedResult{
		CompanyID: "acme",
		Scored: []models.ScoredOpportunity{
			{
				Opportunity: models.Opportunity{Title: "High FTE allocation: Invoicing", Category: models.CategoryStructural},
				Score:       models.Score{EstimatedValue: 1280},
			},
			{
				Opportunity: models.Opportunity{Title: "Automation candidate", Category: models.CategoryAutomation},
			},
		},
	}

	err := ix.Persist(context.Background(), result)

	require.NoError(t, err)
	require.Len(t, transport.requests, 2, "one document per scored opportunity")
	for _, req := range transport.requests {
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Contains(t, req.URL.Path, "/opportunities/_doc/")
	}
	assert.Contains(t, transport.bodies[0], `"companyId":"acme"`)
	assert.Contains(t, transport.bodies[0], "High FTE allocation: Invoicing")
}

func TestIndexer_PersistErrorResponse(t *testing.T) {
	transport := &fakeESTransport{status: http.StatusServiceUnavailable}
	ix := createIndexer(t, transport)

	err := ix.Persist(context.Background(), &models.GeneratedResult{
		CompanyID: "acme",
		Scored:    []models.ScoredOpportunity{{Opportunity: models.Opportunity{Title: "Doomed"}}},
	})

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeIndexWriteFailed, stdErr.Code)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestIndexer_PersistEmptyResult(t *testing.T) {
	transport := &fakeESTransport{status: http.StatusCreated}
	ix := createIndexer(t, transport)

	err := ix.Persist(context.Background(), &models.GeneratedResult{CompanyID: "acme"})

	require.NoError(t, err)
	assert.Empty(t, transport.requests)
}
