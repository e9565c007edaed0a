package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressStepsMarksStepsUpToCurrent(t *testing.T) {
	tests := []struct {
		status  MoveStatus
		reached int
	}{
		{StatusQuoteSent, 1},
		{StatusApproved, 2},
		{StatusScheduled, 3},
		{StatusInProgress, 4},
		{StatusCompleted, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			steps := ProgressSteps(tt.status)
			require.Len(t, steps, 5)

			for i, step := range steps {
				assert.Equal(t, i < tt.reached, step.Reached,
					"step %s with current %s", step.Status, tt.status)
			}
		})
	}
}

func TestProgressStepsUnknownStatus(t *testing.T) {
	steps := ProgressSteps(MoveStatus("cancelled"))
	require.Len(t, steps, 5)
	for _, step := range steps {
		assert.False(t, step.Reached)
	}
}

func TestMoveStatusIndexFollowsLifecycleOrder(t *testing.T) {
	assert.Equal(t, 0, StatusQuoteSent.Index())
	assert.Equal(t, 1, StatusApproved.Index())
	assert.Equal(t, 2, StatusScheduled.Index())
	assert.Equal(t, 3, StatusInProgress.Index())
	assert.Equal(t, 4, StatusCompleted.Index())
	assert.Equal(t, -1, MoveStatus("unknown").Index())
}

func TestParseMoveStatus(t *testing.T) {
	status, err := ParseMoveStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseMoveStatus("on_hold")
	assert.Error(t, err)
}
