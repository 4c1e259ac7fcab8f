package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loaderSite = "Big_River_Power"

func writePartition(t *testing.T, root string, year, n int) {
	t.Helper()
	dir := filepath.Join(root, loaderSite, "Generation", "historical")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	name := fmt.Sprintf("%s_generation_hourly_historical_%d.parquet", loaderSite, year)
	require.NoError(t, WriteRows(filepath.Join(dir, name), weatherRows(year, n)))
}

func newTestLoader(t *testing.T, root string) *Loader {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cat, err := catalog.New(root, log)
	require.NoError(t, err)
	return NewLoader(cat, log)
}

func TestLoadConcatenatesPartitionsChronologically(t *testing.T) {
	root := t.TempDir()
	writePartition(t, root, 2021, 24)
	writePartition(t, root, 2022, 24)
	writePartition(t, root, 2023, 24)
	l := newTestLoader(t, root)

	ds, err := l.Load(context.Background(), loaderSite, schema.Generation, schema.HistoricalHourly, 0)
	require.NoError(t, err)
	assert.Equal(t, 72, ds.RowCount())

	years := ds.Column(schema.ColYear)
	assert.Equal(t, 2021.0, years[0])
	assert.Equal(t, 2023.0, years[71])
	assert.Equal(t, loaderSite, ds.Site)
	assert.Equal(t, schema.Generation, ds.Category)
}

func TestLoadHonorsLookbackWindow(t *testing.T) {
	root := t.TempDir()
	writePartition(t, root, 2020, 24)
	writePartition(t, root, 2021, 24)
	writePartition(t, root, 2022, 24)
	writePartition(t, root, 2023, 24)
	l := newTestLoader(t, root)

	ds, err := l.Load(context.Background(), loaderSite, schema.Generation, schema.HistoricalHourly, 2)
	require.NoError(t, err)
	assert.Equal(t, 48, ds.RowCount())

	years := ds.Column(schema.ColYear)
	assert.Equal(t, 2022.0, years[0])
	assert.Equal(t, 2023.0, years[47])
}

func TestLoadConsolidatedTrimsRecentYears(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, loaderSite, "Generation", "historical")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	var rows []Row
	for _, year := range []int{2019, 2020, 2021} {
		rows = append(rows, weatherRows(year, 24)...)
	}
	name := loaderSite + "_generation_hourly_historical.parquet"
	require.NoError(t, WriteRows(filepath.Join(dir, name), rows))
	l := newTestLoader(t, root)

	ds, err := l.Load(context.Background(), loaderSite, schema.Generation, schema.HistoricalHourly, 2)
	require.NoError(t, err)
	assert.Equal(t, 48, ds.RowCount())
	assert.NotContains(t, ds.Column(schema.ColYear), 2019.0)
}

func TestLoadNothingResolvable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, loaderSite, "Generation", "historical"), 0o755))
	l := newTestLoader(t, root)

	_, err := l.Load(context.Background(), loaderSite, schema.Generation, schema.HistoricalHourly, 0)
	assert.ErrorIs(t, err, schema.ErrDataUnavailable)
}

func TestLoadCancelledContext(t *testing.T) {
	root := t.TempDir()
	writePartition(t, root, 2022, 24)
	writePartition(t, root, 2023, 24)
	l := newTestLoader(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx, loaderSite, schema.Generation, schema.HistoricalHourly, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
