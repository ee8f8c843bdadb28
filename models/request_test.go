package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]RequestStatus{
		{RequestStatusPending, RequestStatusAccepted},
		{RequestStatusAccepted, RequestStatusInProgress},
		{RequestStatusAccepted, RequestStatusCancelled},
		{RequestStatusInProgress, RequestStatusCompleted},
		{RequestStatusInProgress, RequestStatusCancelled},
	}
	all := []RequestStatus{RequestStatusPending, RequestStatusAccepted, RequestStatusInProgress,
		RequestStatusCompleted, RequestStatusCancelled}

	isAllowed := func(from, to RequestStatus) bool {
		for _, e := range allowed {
			if e[0] == from && e[1] == to {
				return true
			}
		}
		return false
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, isAllowed(from, to), CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, RequestStatusCompleted.IsTerminal())
	assert.True(t, RequestStatusCancelled.IsTerminal())
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.False(t, RequestStatusPending.HasWorker())
	assert.True(t, RequestStatusCancelled.HasWorker())
}

func TestParseRequestStatus(t *testing.T) {
	st, err := ParseRequestStatus("inprogress")
	assert.NoError(t, err)
	assert.Equal(t, RequestStatusInProgress, st)

	_, err = ParseRequestStatus("in_progress")
	assert.Error(t, err)
	_, err = ParseRequestStatus("")
	assert.Error(t, err)
}

func TestWorkerCategoryIDs(t *testing.T) {
	w := Worker{Categories: []ServiceCategory{{ID: 3}, {ID: 7}}}
	assert.Equal(t, []uint{3, 7}, w.CategoryIDs())
	assert.False(t, w.IsApproved())
	w.Status = WorkerStatusApproved
	assert.True(t, w.IsApproved())
}
