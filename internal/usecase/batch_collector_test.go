package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/tabular"
)

func writePlanFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writePlanFile(t, filepath.Join(root, "flight1"), "ofp.xml", sampleOFP)
	writePlanFile(t, filepath.Join(root, "flight2", "nested"), "OFP.XML", sampleOFP)
	writePlanFile(t, filepath.Join(root, "flight3"), "notes.xml", "<notes/>")

	collector := NewBatchCollector(NewPlanExtractor(logger.NewNop()), logger.NewNop())
	records, skipped, err := collector.Collect(root)
	require.NoError(t, err)

	assert.Zero(t, skipped)
	require.Len(t, records, 2, "file name matches case-insensitively, other files are ignored")
	assert.Equal(t, filepath.Join(root, "flight1"), records[0].Directory)
	assert.Equal(t, filepath.Join(root, "flight2", "nested"), records[1].Directory)
}

func TestCollectSkipsMalformed(t *testing.T) {
	root := t.TempDir()
	writePlanFile(t, filepath.Join(root, "bad"), "ofp.xml", "<OperationalFlightPlan><unclosed>")
	writePlanFile(t, filepath.Join(root, "good"), "ofp.xml", sampleOFP)

	collector := NewBatchCollector(NewPlanExtractor(logger.NewNop()), logger.NewNop())
	records, skipped, err := collector.Collect(root)
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(root, "good"), records[0].Directory)
}

func TestCollectInvalidRoot(t *testing.T) {
	collector := NewBatchCollector(NewPlanExtractor(logger.NewNop()), logger.NewNop())

	_, _, err := collector.Collect(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, _, err = collector.Collect(file)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRunWritesArtifact(t *testing.T) {
	root := t.TempDir()
	writePlanFile(t, filepath.Join(root, "flight1"), "ofp.xml", sampleOFP)

	collector := NewBatchCollector(NewPlanExtractor(logger.NewNop()), logger.NewNop())
	status, err := collector.Run(root)
	require.NoError(t, err)
	require.True(t, status.Success)

	table, err := tabular.Read(filepath.Join(root, FuelDataFileName))
	require.NoError(t, err)
	assert.Equal(t, entity.FuelDataColumns, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "AF123", *table.Cell(0, entity.ColFlightNumber))
	assert.Equal(t, "01/05/2024", *table.Cell(0, entity.ColFlightDate))
	assert.Equal(t, "5.5", *table.Cell(0, entity.ColTripFuel))
	assert.Equal(t, "7.75", *table.Cell(0, entity.ColCarbonEmission))
}

func TestRunEmptyTree(t *testing.T) {
	root := t.TempDir()

	collector := NewBatchCollector(NewPlanExtractor(logger.NewNop()), logger.NewNop())
	status, err := collector.Run(root)

	require.NoError(t, err, "an empty tree is a reported outcome, not an error")
	assert.False(t, status.Success)
	assert.Contains(t, status.Message, "no flight plan files found")

	_, statErr := os.Stat(filepath.Join(root, FuelDataFileName))
	assert.True(t, os.IsNotExist(statErr), "no artifact is left behind")
}
