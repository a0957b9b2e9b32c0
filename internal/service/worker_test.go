package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/domain"
)

type recordingWriter struct {
	mu          sync.Mutex
	charities   []domain.Charity
	grants      []domain.Grant
	charityErr  error
	grantErr    error
	grantCalled bool
}

func (w *recordingWriter) UpsertCharities(_ context.Context, charities []domain.Charity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.charityErr != nil {
		return w.charityErr
	}
	w.charities = append(w.charities, charities...)
	return nil
}

func (w *recordingWriter) UpsertGrants(_ context.Context, grants []domain.Grant) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.grantCalled = true
	if w.grantErr != nil {
		return w.grantErr
	}
	w.grants = append(w.grants, grants...)
	return nil
}

func ingestDataset() *dataset.Dataset {
	charities := make([]domain.CharityRecord, 0, 7)
	for _, ein := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		charities = append(charities, domain.CharityRecord{EIN: ein})
	}
	ds, _ := dataset.Build(domain.Records{
		Charities: charities,
		Grants: []domain.GrantRecord{
			{FilerEIN: "A", GrantEIN: "B", Amount: 1, TaxYear: 2023},
			{FilerEIN: "B", GrantEIN: "C", Amount: 2, TaxYear: 2023},
			{FilerEIN: "C", GrantEIN: "D", Amount: 3, TaxYear: 2023},
		},
	})
	return ds
}

func TestBulkIngestor_Ingest(t *testing.T) {
	writer := &recordingWriter{}
	ingestor := NewBulkIngestor(writer, 3, 2, nil)

	summary, err := ingestor.Ingest(context.Background(), ingestDataset())
	require.NoError(t, err)

	assert.Equal(t, IngestSummary{Charities: 7, Grants: 3, CharityBatches: 4, GrantBatches: 2}, summary)
	assert.Len(t, writer.charities, 7)
	assert.ElementsMatch(t, ingestDataset().Grants(), writer.grants)
}

func TestBulkIngestor_StopsBeforeGrantsOnCharityFailure(t *testing.T) {
	boom := errors.New("write failed")
	writer := &recordingWriter{charityErr: boom}
	ingestor := NewBulkIngestor(writer, 2, 3, nil)

	_, err := ingestor.Ingest(context.Background(), ingestDataset())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 3)
	assert.False(t, writer.grantCalled)
}

func TestBulkIngestor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBulkIngestor(&recordingWriter{}, 2, 1, nil).IngestGrants(ctx, ingestDataset().Grants())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBulkIngestor_NilDataset(t *testing.T) {
	_, err := NewBulkIngestor(&recordingWriter{}, 0, 0, nil).Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
}

func TestChunk(t *testing.T) {
	assert.Nil(t, chunk([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunk([]int{1, 2, 3, 4, 5}, 2))
}

func TestTaskErrorMessage(t *testing.T) {
	var te TaskError
	assert.Equal(t, "no errors", te.Error())
	te.append(errors.New("first"))
	assert.Equal(t, "first", te.Error())
	te.append(nil)
	te.append(errors.New("second"))
	assert.Equal(t, "multiple errors: first; second;", te.Error())
}
