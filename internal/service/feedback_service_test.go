package service

import (
	"context"
	"testing"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeedbackStore struct {
	exists   bool
	inserted []*model.FeedbackCreate
}

func (f *fakeFeedbackStore) Insert(ctx context.Context, moveID string, create *model.FeedbackCreate) (*model.Feedback, error) {
	f.inserted = append(f.inserted, create)
	fb := &model.Feedback{ID: "f1", MoveID: moveID, Stars: create.Stars}
	if create.Comment != "" {
		fb.Comment = &create.Comment
	}
	return fb, nil
}

func (f *fakeFeedbackStore) ExistsForMove(ctx context.Context, moveID string) (bool, error) {
	return f.exists, nil
}

func moveInStatus(status model.MoveStatus) *fakeMoves {
	return &fakeMoves{moves: map[string]*model.Move{
		"m1": {ID: "m1", ClientID: "c1", Origin: "Oslo", Destination: "Bergen", Status: status},
	}}
}

func TestSubmitFeedbackRequiresCompletedMove(t *testing.T) {
	tests := []struct {
		status  model.MoveStatus
		wantErr error
	}{
		{model.StatusQuoteSent, ErrMoveNotCompleted},
		{model.StatusApproved, ErrMoveNotCompleted},
		{model.StatusScheduled, ErrMoveNotCompleted},
		{model.StatusInProgress, ErrMoveNotCompleted},
		{model.StatusCompleted, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			store := &fakeFeedbackStore{}
			svc := NewFeedbackService(store, moveInStatus(tt.status), &fakeActivityLog{}, zap.NewNop())

			_, err := svc.Submit(context.Background(), "c1", "m1", &model.FeedbackCreate{Stars: 5})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.inserted)
			} else {
				assert.NoError(t, err)
				assert.Len(t, store.inserted, 1)
			}
		})
	}
}

func TestSubmitFeedbackOnlyOnce(t *testing.T) {
	store := &fakeFeedbackStore{exists: true}
	svc := NewFeedbackService(store, moveInStatus(model.StatusCompleted), &fakeActivityLog{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), "c1", "m1", &model.FeedbackCreate{Stars: 4})
	assert.ErrorIs(t, err, ErrFeedbackExists)
	assert.Empty(t, store.inserted)
}

func TestSubmitFeedbackScopedToOwner(t *testing.T) {
	svc := NewFeedbackService(&fakeFeedbackStore{}, moveInStatus(model.StatusCompleted), &fakeActivityLog{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), "other-client", "m1", &model.FeedbackCreate{Stars: 4})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitFeedbackRecordsActivity(t *testing.T) {
	activity := &fakeActivityLog{}
	svc := NewFeedbackService(&fakeFeedbackStore{}, moveInStatus(model.StatusCompleted), activity, zap.NewNop())

	fb, err := svc.Submit(context.Background(), "c1", "m1", &model.FeedbackCreate{Stars: 5, Comment: "great crew"})
	require.NoError(t, err)

	assert.Equal(t, 5, fb.Stars)
	require.NotNil(t, fb.Comment)
	assert.Equal(t, "great crew", *fb.Comment)
	assert.Equal(t, []string{"feedback_submitted"}, activity.actions)
}
