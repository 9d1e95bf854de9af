package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/metrics"
)

// pipelineMetrics is shared across tests; the prometheus default registry
// rejects duplicate registration.
var pipelineMetrics = metrics.NewMetrics("fuelops_test")

type fakeNotifier struct {
	subjects []string
}

func (n *fakeNotifier) Notify(_ context.Context, subject, _ string) error {
	n.subjects = append(n.subjects, subject)
	return nil
}

type fakeMergedRepo struct {
	upserted []*entity.MergedRecord
}

func (r *fakeMergedRepo) FindByFlightKey(_ context.Context, _ string) (*entity.MergedRecord, error) {
	return nil, nil
}

func (r *fakeMergedRepo) Upsert(_ context.Context, record *entity.MergedRecord) error {
	r.upserted = append(r.upserted, record)
	return nil
}

func newTestPipeline(repo *fakeMergedRepo, notifier *fakeNotifier) *Pipeline {
	log := logger.NewNop()
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	return NewPipeline(
		NewBatchCollector(NewPlanExtractor(log), log),
		NewScheduleNormalizer(log),
		NewMerger(RetryPolicy{Attempts: 1}, log),
		repo,
		n,
		pipelineMetrics,
		log,
	)
}

func TestPipelineRun(t *testing.T) {
	dataRoot := t.TempDir()
	outDir := t.TempDir()
	writePlanFile(t, filepath.Join(dataRoot, "flight1"), "ofp.xml", sampleOFP)

	scheduleInput := filepath.Join(outDir, "raw.xlsx")
	writeScheduleFixture(t, scheduleInput, 0, scheduleHeader, [][]interface{}{
		{"AF-123", "2024-05-01", "10:30:00", "F-ABCD", "AF", "LFPG", "EDDF"},
	})

	repo := &fakeMergedRepo{}
	notifier := &fakeNotifier{}
	pipeline := newTestPipeline(repo, notifier)

	status := pipeline.Run(context.Background(), PipelinePaths{
		DataRoot:       dataRoot,
		ScheduleInput:  scheduleInput,
		ScheduleOutput: filepath.Join(outDir, "clean.xlsx"),
		MergedOutput:   filepath.Join(outDir, "merged.xlsx"),
	})

	require.True(t, status.Success, status.Message)
	require.NotNil(t, status.Stats)
	assert.Equal(t, 1, status.Stats.TotalRecords)

	_, err := os.Stat(filepath.Join(outDir, "merged.xlsx"))
	assert.NoError(t, err)

	require.Len(t, repo.upserted, 1)
	record := repo.upserted[0]
	assert.Equal(t, "123", record.FlightNumber)
	assert.Equal(t, "01/05/2024", record.FlightDate)
	assert.Equal(t, entity.FlightKeyOf("123", "01/05/2024"), record.FlightKey)

	assert.Equal(t, []string{"Data Processing Complete"}, notifier.subjects)
}

func TestPipelineRunFailsOnEmptyTree(t *testing.T) {
	dataRoot := t.TempDir()
	outDir := t.TempDir()

	notifier := &fakeNotifier{}
	pipeline := newTestPipeline(&fakeMergedRepo{}, notifier)

	status := pipeline.Run(context.Background(), PipelinePaths{
		DataRoot:       dataRoot,
		ScheduleInput:  filepath.Join(outDir, "raw.xlsx"),
		ScheduleOutput: filepath.Join(outDir, "clean.xlsx"),
		MergedOutput:   filepath.Join(outDir, "merged.xlsx"),
	})

	assert.False(t, status.Success)
	assert.Contains(t, status.Message, "no flight plan files found")
	assert.Equal(t, []string{"Data Processing Failed"}, notifier.subjects)
}

func TestMergedRecordFromRowSkipsUnkeyedRows(t *testing.T) {
	dataRoot := t.TempDir()
	outDir := t.TempDir()
	writePlanFile(t, filepath.Join(dataRoot, "flight1"), "ofp.xml", sampleOFP)

	scheduleInput := filepath.Join(outDir, "raw.xlsx")
	writeScheduleFixture(t, scheduleInput, 0, scheduleHeader, [][]interface{}{
		{"AF-123", "2024-05-01", "10:30:00", "F-ABCD", "AF", "LFPG", "EDDF"},
		{"CARGO", "2024-05-02", "11:00:00", "F-EFGH", "AF", "LFPG", "LEMD"},
	})

	repo := &fakeMergedRepo{}
	pipeline := newTestPipeline(repo, nil)

	status := pipeline.Run(context.Background(), PipelinePaths{
		DataRoot:       dataRoot,
		ScheduleInput:  scheduleInput,
		ScheduleOutput: filepath.Join(outDir, "clean.xlsx"),
		MergedOutput:   filepath.Join(outDir, "merged.xlsx"),
	})

	require.True(t, status.Success, status.Message)
	require.Equal(t, 2, status.Stats.TotalRecords)

	// the row whose identifier normalized to nothing has no flight key
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "123", repo.upserted[0].FlightNumber)
}
