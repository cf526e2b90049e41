package entity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "entities.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndex_AddAndLookup(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, Candidate{Name: "Acme Corp", Description: "roadrunner supplies", Region: "US"}))

	got, err := ix.LookupCandidates(ctx, "ACME Corporation")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Acme Corp", got[0].Name)
	assert.Equal(t, "US", got[0].Region)
	assert.NotEmpty(t, got[0].ID)
}

func TestIndex_MultipleCandidates(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, Candidate{ID: "us", Name: "Acme Corp", Region: "US"}))
	require.NoError(t, ix.Add(ctx, Candidate{ID: "uk", Name: "Acme Ltd", Region: "UK"}))

	got, err := ix.LookupCandidates(ctx, "Acme")
	require.NoError(t, err)

	assert.Len(t, got, 2)
}

func TestIndex_LookupMiss(t *testing.T) {
	ix := openTestIndex(t)

	got, err := ix.LookupCandidates(context.Background(), "Globex")
	require.NoError(t, err)

	assert.Empty(t, got)
}

func TestIndex_AddUpsertsByID(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, Candidate{ID: "1", Name: "Acme Corp", Region: "US"}))
	require.NoError(t, ix.Add(ctx, Candidate{ID: "1", Name: "Acme Corp", Region: "CA"}))

	got, err := ix.LookupCandidates(ctx, "Acme Corp")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "CA", got[0].Region)
}

func TestIndex_ImportCSV(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "companies.csv")
	csv := "name,description,region\nAcme Corp,roadrunner supplies,US\nAcme GmbH,,DE\nGlobex Corporation,evil,US\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	n, err := ix.ImportCSV(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := ix.LookupCandidates(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestIndex_ImportCSV_MissingNameColumn(t *testing.T) {
	ix := openTestIndex(t)

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("company,region\nAcme,US\n"), 0o644))

	_, err := ix.ImportCSV(context.Background(), path)
	assert.Error(t, err)
}
