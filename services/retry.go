package services

import (
	"context"
	"errors"

	"prd-workspace/metrics"
	"prd-workspace/models"
)

// RetryOnConflict runs fn up to attempts times while it fails with a version
// conflict. fn must reload the document and re-derive its transition on
// every call; any other error, or the last conflict, is returned as is.
func RetryOnConflict(ctx context.Context, attempts int, m *metrics.Metrics, fn func(ctx context.Context) (*models.Document, error)) (*models.Document, error) {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if m != nil {
				m.ConflictRetries.Inc()
			}
		}

		var document *models.Document
		document, err = fn(ctx)
		if err == nil {
			return document, nil
		}

		var conflict models.ErrorConflict
		if !errors.As(err, &conflict) {
			return nil, err
		}
	}
	return nil, err
}
