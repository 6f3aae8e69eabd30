package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garage-tracker/internal/entity"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func newJob() entity.Job {
	return entity.Job{
		ID:     "j-1",
		Stages: entity.BuildInitialStages(),
	}
}

// resolveStage drives every step of the given stage to completed.
func resolveStage(t *testing.T, job entity.Job, stageIdx int) entity.Job {
	t.Helper()
	for _, step := range job.Stages[stageIdx].Steps {
		var err error
		job, err = ApplyStepUpdate(job, stageIdx, step.ID, entity.StatusCompleted, "ช่างเอ")
		require.NoError(t, err)
	}
	return job
}

func TestApplyStepUpdate_CompletesStep(t *testing.T) {
	fixedClock(t)
	job := newJob()

	got, err := ApplyStepUpdate(job, 0, "c-0", entity.StatusCompleted, "ช่างเอ")
	require.NoError(t, err)

	step := got.Stages[0].Steps[0]
	assert.Equal(t, entity.StatusCompleted, step.Status)
	assert.Equal(t, "ช่างเอ", step.Employee)
	assert.Equal(t, "10/01/2026 10:00", step.Timestamp)

	// input job untouched
	assert.Equal(t, entity.StatusPending, job.Stages[0].Steps[0].Status)
}

func TestApplyStepUpdate_CompletedRequiresEmployee(t *testing.T) {
	job := newJob()

	_, err := ApplyStepUpdate(job, 0, "c-0", entity.StatusCompleted, "")
	assert.ErrorIs(t, err, ErrMissingActor)
}

func TestApplyStepUpdate_SkipNeedsNoEmployee(t *testing.T) {
	fixedClock(t)
	job := newJob()

	got, err := ApplyStepUpdate(job, 0, "c-0", entity.StatusSkipped, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSkipped, got.Stages[0].Steps[0].Status)
	assert.NotEmpty(t, got.Stages[0].Steps[0].Timestamp)
}

func TestApplyStepUpdate_ProcessingIsOpen(t *testing.T) {
	fixedClock(t)
	job := newJob()

	var err error
	for _, step := range job.Stages[0].Steps[1:] {
		job, err = ApplyStepUpdate(job, 0, step.ID, entity.StatusCompleted, "ช่างเอ")
		require.NoError(t, err)
	}

	// every step done except c-0, which is only started
	job, err = ApplyStepUpdate(job, 0, "c-0", entity.StatusProcessing, "")
	require.NoError(t, err)

	assert.False(t, job.Stages[0].IsCompleted, "processing must not resolve the stage")
	assert.Equal(t, 0, job.CurrentStageIndex)
	assert.NotEmpty(t, job.Stages[0].Steps[0].Timestamp)
}

func TestApplyStepUpdate_StageCompletionGating(t *testing.T) {
	fixedClock(t)
	job := newJob()

	steps := job.Stages[0].Steps
	var err error
	for i, step := range steps[:len(steps)-1] {
		job, err = ApplyStepUpdate(job, 0, step.ID, entity.StatusCompleted, "ช่างเอ")
		require.NoError(t, err)
		assert.False(t, job.Stages[0].IsCompleted, "incomplete after %d of %d steps", i+1, len(steps))
		assert.Equal(t, 0, job.CurrentStageIndex)
		assert.True(t, job.Stages[1].IsLocked)
	}

	job, err = ApplyStepUpdate(job, 0, steps[len(steps)-1].ID, entity.StatusCompleted, "ช่างเอ")
	require.NoError(t, err)

	assert.True(t, job.Stages[0].IsCompleted)
	assert.False(t, job.Stages[1].IsLocked, "repair unlocks when claim completes")
	assert.True(t, job.Stages[2].IsLocked, "billing stays locked")
	assert.Equal(t, 1, job.CurrentStageIndex)
	assert.False(t, job.IsFinished)
}

func TestApplyStepUpdate_MixedSkipAndCompleteResolves(t *testing.T) {
	fixedClock(t)
	job := newJob()

	var err error
	for i, step := range job.Stages[0].Steps {
		if i%2 == 0 {
			job, err = ApplyStepUpdate(job, 0, step.ID, entity.StatusSkipped, "")
		} else {
			job, err = ApplyStepUpdate(job, 0, step.ID, entity.StatusCompleted, "ช่างบี")
		}
		require.NoError(t, err)
	}

	assert.True(t, job.Stages[0].IsCompleted)
	assert.Equal(t, 1, job.CurrentStageIndex)
}

func TestApplyStepUpdate_TerminalStage(t *testing.T) {
	fixedClock(t)
	job := newJob()
	job = resolveStage(t, job, 0)
	job = resolveStage(t, job, 1)

	require.Equal(t, 2, job.CurrentStageIndex)
	require.False(t, job.Stages[2].IsLocked)

	job = resolveStage(t, job, 2)

	assert.True(t, job.Stages[2].IsCompleted)
	assert.True(t, job.IsFinished)
	assert.Equal(t, 2, job.CurrentStageIndex, "index stays at billing")
}

func TestApplyStepUpdate_UnknownStepIsNoOp(t *testing.T) {
	fixedClock(t)
	job := newJob()

	got, err := ApplyStepUpdate(job, 0, "zzz-42", entity.StatusCompleted, "ช่างเอ")
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestApplyStepUpdate_IsolationAcrossStages(t *testing.T) {
	fixedClock(t)
	job := newJob()
	before1 := job.Stages[1].Clone()
	before2 := job.Stages[2].Clone()

	job, err := ApplyStepUpdate(job, 0, "c-3", entity.StatusCompleted, "ช่างเอ")
	require.NoError(t, err)

	assert.Equal(t, before1, job.Stages[1])
	assert.Equal(t, before2, job.Stages[2])
}

func TestApplyStepUpdate_RevertToPendingReopensCurrentStage(t *testing.T) {
	fixedClock(t)
	job := newJob()

	job, err := ApplyStepUpdate(job, 0, "c-0", entity.StatusCompleted, "ช่างเอ")
	require.NoError(t, err)

	job, err = ApplyStepUpdate(job, 0, "c-0", entity.StatusPending, "")
	require.NoError(t, err)

	step := job.Stages[0].Steps[0]
	assert.Equal(t, entity.StatusPending, step.Status)
	assert.Empty(t, step.Timestamp, "revert clears the timestamp")
	assert.Empty(t, step.Employee)
}

func TestApplyStepUpdate_HistoricalRevertDoesNotRollBack(t *testing.T) {
	fixedClock(t)
	job := newJob()
	job = resolveStage(t, job, 0)
	require.Equal(t, 1, job.CurrentStageIndex)

	// edit a step of the already-completed claim stage back to pending
	job, err := ApplyStepUpdate(job, 0, "c-2", entity.StatusPending, "")
	require.NoError(t, err)

	assert.False(t, job.Stages[0].IsCompleted, "the touched stage reopens")
	assert.Equal(t, 1, job.CurrentStageIndex, "index never decreases")
	assert.False(t, job.Stages[1].IsLocked, "repair stays unlocked")

	// re-resolving the historical stage must not rewind the index either
	job, err = ApplyStepUpdate(job, 0, "c-2", entity.StatusCompleted, "ช่างเอ")
	require.NoError(t, err)
	assert.True(t, job.Stages[0].IsCompleted)
	assert.Equal(t, 1, job.CurrentStageIndex)
}

func TestApplyStepUpdate_FinishedIsMonotone(t *testing.T) {
	fixedClock(t)
	job := newJob()
	job = resolveStage(t, job, 0)
	job = resolveStage(t, job, 1)
	job = resolveStage(t, job, 2)
	require.True(t, job.IsFinished)

	job, err := ApplyStepUpdate(job, 2, "b-0", entity.StatusPending, "")
	require.NoError(t, err)

	assert.False(t, job.Stages[2].IsCompleted)
	assert.True(t, job.IsFinished, "isFinished never transitions back to false")
	assert.Equal(t, 2, job.CurrentStageIndex)
}

func TestApplyStepUpdate_BadInput(t *testing.T) {
	job := newJob()

	_, err := ApplyStepUpdate(job, 5, "c-0", entity.StatusCompleted, "ช่างเอ")
	assert.ErrorIs(t, err, ErrStageOutOfRange)

	_, err = ApplyStepUpdate(job, -1, "c-0", entity.StatusCompleted, "ช่างเอ")
	assert.ErrorIs(t, err, ErrStageOutOfRange)

	_, err = ApplyStepUpdate(job, 0, "c-0", entity.StepStatus("done"), "ช่างเอ")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCompleteCurrentStage_RejectsUnresolvedSteps(t *testing.T) {
	job := newJob()

	_, err := CompleteCurrentStage(job)
	assert.ErrorIs(t, err, ErrIncompleteStage)
}

func TestCompleteCurrentStage_Advances(t *testing.T) {
	fixedClock(t)
	job := newJob()

	// resolve all claim steps but keep the stage flag untouched by
	// skipping, then use the explicit path
	var err error
	for _, step := range job.Stages[0].Steps {
		job, err = ApplyStepUpdate(job, 0, step.ID, entity.StatusSkipped, "")
		require.NoError(t, err)
	}
	// the per-step path already completed the stage; reset the flag to
	// exercise the explicit action in isolation
	job.Stages[0].IsCompleted = false
	job.CurrentStageIndex = 0
	job.Stages[1].IsLocked = true

	job, err = CompleteCurrentStage(job)
	require.NoError(t, err)

	assert.True(t, job.Stages[0].IsCompleted)
	assert.False(t, job.Stages[1].IsLocked)
	assert.Equal(t, 1, job.CurrentStageIndex)
}

func TestCompleteCurrentStage_FinishesOnBilling(t *testing.T) {
	fixedClock(t)
	job := newJob()
	job = resolveStage(t, job, 0)
	job = resolveStage(t, job, 1)

	var err error
	for _, step := range job.Stages[2].Steps {
		job, err = ApplyStepUpdate(job, 2, step.ID, entity.StatusSkipped, "")
		require.NoError(t, err)
	}
	require.True(t, job.IsFinished)

	// calling the explicit path on an already-completed stage is idempotent
	got, err := CompleteCurrentStage(job)
	require.NoError(t, err)
	assert.True(t, got.IsFinished)
	assert.Equal(t, 2, got.CurrentStageIndex)
}
