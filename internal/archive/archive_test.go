// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

func strPtr(s string) *string { return &s }

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive", "pubmed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func firstRun() []types.Record {
	return []types.Record{
		{Title: "Gene expression in chondrocytes", Link: "https://pubmed.ncbi.nlm.nih.gov/1/", Keywords: strPtr("osteoarthritis,cartilage degeneration")},
		{Title: "Wnt signaling in hyaline cartilage", Link: "https://pubmed.ncbi.nlm.nih.gov/2/"},
		{Title: "Empty keyword paragraph", Link: "https://pubmed.ncbi.nlm.nih.gov/3/", Keywords: strPtr("")},
	}
}

func TestSaveAndRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.Save(ctx, Run{StartedAt: started, QueryURL: "https://q/", Output: "ncbi.xlsx", Written: 3, Skipped: 1}, firstRun())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id2, err := s.Save(ctx, Run{QueryURL: "https://q/", Output: "ncbi.xlsx"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(2), runs[0].ID, "newest first")
	assert.Equal(t, 3, runs[1].Written)
	assert.Equal(t, 1, runs[1].Skipped)
	assert.True(t, runs[1].StartedAt.Equal(started))
	assert.False(t, runs[0].StartedAt.IsZero(), "zero start time defaults to now")
}

func TestSearchPreservesAbsentKeywords(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, Run{}, firstRun())
	require.NoError(t, err)

	hits, err := s.Search(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	byLink := map[string]Hit{}
	for _, h := range hits {
		byLink[h.Link] = h
	}
	require.NotNil(t, byLink["https://pubmed.ncbi.nlm.nih.gov/1/"].Keywords)
	assert.Nil(t, byLink["https://pubmed.ncbi.nlm.nih.gov/2/"].Keywords)
	require.NotNil(t, byLink["https://pubmed.ncbi.nlm.nih.gov/3/"].Keywords)
	assert.Equal(t, "", *byLink["https://pubmed.ncbi.nlm.nih.gov/3/"].Keywords)
}

func TestSearchTerms(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, Run{}, firstRun())
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title match", "chondrocytes", []string{"https://pubmed.ncbi.nlm.nih.gov/1/"}},
		{"keyword match", "degeneration", []string{"https://pubmed.ncbi.nlm.nih.gov/1/"}},
		{"case insensitive", "WNT", []string{"https://pubmed.ncbi.nlm.nih.gov/2/"}},
		{"all terms required", "gene osteoarthritis", []string{"https://pubmed.ncbi.nlm.nih.gov/1/"}},
		{"no match", "meniscus", nil},
		{"wildcards are literal", "%", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Search(ctx, tt.query, 10)
			require.NoError(t, err)
			var links []string
			for _, h := range hits {
				links = append(links, h.Link)
			}
			assert.Equal(t, tt.want, links)
		})
	}
}

func TestSearchReportsLatestRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, Run{}, firstRun())
	require.NoError(t, err)

	updated := []types.Record{
		{Title: "Gene expression in chondrocytes (revised)", Link: "https://pubmed.ncbi.nlm.nih.gov/1/", Keywords: strPtr("osteoarthritis")},
	}
	runID, err := s.Save(ctx, Run{}, updated)
	require.NoError(t, err)

	hits, err := s.Search(ctx, "chondrocytes", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, runID, hits[0].RunID)
	assert.Equal(t, "Gene expression in chondrocytes (revised)", hits[0].Title)
}

func TestSearchLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, Run{}, firstRun())
	require.NoError(t, err)

	hits, err := s.Search(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/1/", hits[0].Link, "document order within a run")
}

func TestOpenReusesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubmed.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), Run{}, firstRun())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	hits, err := s.Search(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}
