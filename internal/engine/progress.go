// Package engine holds the stage/step progression rules. Everything here is
// a pure state transition over entity.Job: no I/O, no logging, no clock
// beyond the injectable now func. Callers (transport layer) own persistence
// and notifications.
package engine

import (
	"errors"
	"time"

	"garage-tracker/internal/entity"
)

var (
	// ErrMissingActor: a step cannot be marked completed without the name
	// of the employee who did the work. Skipped and processing need none.
	ErrMissingActor = errors.New("employee name required to complete a step")

	ErrInvalidStatus = errors.New("invalid step status")

	ErrStageOutOfRange = errors.New("stage index out of range")

	// ErrIncompleteStage: CompleteCurrentStage refuses to advance while any
	// step in the current stage is still pending or processing.
	ErrIncompleteStage = errors.New("stage has unresolved steps")
)

// TimestampLayout is the display format written into Step.Timestamp.
const TimestampLayout = "02/01/2006 15:04"

// now is swapped out in tests to pin timestamps.
var now = time.Now

// ApplyStepUpdate returns a new Job with the addressed step set to status,
// then re-derives the stage and job level flags:
//
//   - an unknown stepID is a deliberate no-op: the input job is returned
//     unchanged with a nil error (the caller builds step ids from the same
//     template, so a miss is a logic bug, not a runtime condition);
//   - moving a step to pending clears its timestamp and employee (the
//     edit/undo path); any other status stamps the current time;
//   - when the touched stage transitions to completed, the next stage is
//     unlocked and currentStageIndex advances, or isFinished is set when the
//     billing stage was the one completed;
//   - when an already-completed stage is reopened by a revert, only that
//     stage's isCompleted flag drops. Locks, currentStageIndex and
//     isFinished never roll back.
//
// The returned job shares no stage or step slices with the input.
func ApplyStepUpdate(job entity.Job, stageIdx int, stepID string, status entity.StepStatus, employee string) (entity.Job, error) {
	if stageIdx < 0 || stageIdx >= len(job.Stages) {
		return job, ErrStageOutOfRange
	}
	if !status.Valid() {
		return job, ErrInvalidStatus
	}
	if status == entity.StatusCompleted && employee == "" {
		return job, ErrMissingActor
	}

	next := job.Clone()
	stage := &next.Stages[stageIdx]

	i := stage.StepIndex(stepID)
	if i < 0 {
		return job, nil
	}

	step := &stage.Steps[i]
	step.Status = status
	if status == entity.StatusPending {
		step.Timestamp = ""
		step.Employee = ""
	} else {
		step.Timestamp = now().Format(TimestampLayout)
		step.Employee = employee
	}

	wasCompleted := stage.IsCompleted
	stage.IsCompleted = stage.AllStepsResolved()

	// Only completing the current stage moves the workflow forward.
	// Re-resolving a reopened historical stage must not rewind the index.
	if stage.IsCompleted && !wasCompleted && stageIdx == next.CurrentStageIndex {
		advance(&next, stageIdx)
	}

	return next, nil
}

// CompleteCurrentStage is the explicit "proceed" action. Unlike the
// per-step path it validates the whole stage first and fails with
// ErrIncompleteStage when anything is still open.
func CompleteCurrentStage(job entity.Job) (entity.Job, error) {
	idx := job.CurrentStageIndex
	if idx < 0 || idx >= len(job.Stages) {
		return job, ErrStageOutOfRange
	}
	if !job.Stages[idx].AllStepsResolved() {
		return job, ErrIncompleteStage
	}

	next := job.Clone()
	if next.Stages[idx].IsCompleted {
		return next, nil
	}
	next.Stages[idx].IsCompleted = true
	advance(&next, idx)
	return next, nil
}

// advance applies the unlock/finish consequence of stage stageIdx having
// just completed.
func advance(job *entity.Job, stageIdx int) {
	if stageIdx+1 < len(job.Stages) {
		job.Stages[stageIdx+1].IsLocked = false
		job.CurrentStageIndex = stageIdx + 1
		return
	}
	job.IsFinished = true
}
