package sql

import (
	"testing"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Snapshot_Empty(t *testing.T) {
	service := NewStatsService(testDB(t))

	snapshot, err := service.Snapshot(testChat.Id)
	require.NoError(t, err)
	assert.Zero(t, snapshot.TotalToday())
	assert.Zero(t, snapshot.TotalAllTime())
}

func TestStatsService_Record(t *testing.T) {
	service := NewStatsService(testDB(t))

	for i := 0; i < 3; i++ {
		require.NoError(t, service.Record(testChat.Id, gatekeeper.OutcomeApprove))
	}

	snapshot, err := service.Snapshot(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snapshot.ApprovedToday)
	assert.Equal(t, int64(3), snapshot.ApprovedTotal)
	assert.Zero(t, snapshot.DeclinedToday)
	assert.Zero(t, snapshot.DeclinedTotal)
	assert.Zero(t, snapshot.HeldToday)
	assert.Zero(t, snapshot.HeldTotal)
}

func TestStatsService_Record_AllOutcomes(t *testing.T) {
	service := NewStatsService(testDB(t))

	require.NoError(t, service.Record(testChat.Id, gatekeeper.OutcomeApprove))
	require.NoError(t, service.Record(testChat.Id, gatekeeper.OutcomeDecline))
	require.NoError(t, service.Record(testChat.Id, gatekeeper.OutcomeDecline))
	require.NoError(t, service.Record(testChat.Id, gatekeeper.OutcomeHold))

	snapshot, err := service.Snapshot(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snapshot.ApprovedToday)
	assert.Equal(t, int64(2), snapshot.DeclinedToday)
	assert.Equal(t, int64(1), snapshot.HeldToday)
	assert.Equal(t, int64(4), snapshot.TotalToday())
	assert.Equal(t, int64(4), snapshot.TotalAllTime())
}

func TestStatsService_Record_UnknownOutcome(t *testing.T) {
	service := NewStatsService(testDB(t))

	err := service.Record(testChat.Id, gatekeeper.Outcome("SHRUG"))
	assert.Error(t, err)

	snapshot, err := service.Snapshot(testChat.Id)
	require.NoError(t, err)
	assert.Zero(t, snapshot.TotalAllTime())
}

func TestStatsService_IsolatedPerChat(t *testing.T) {
	service := NewStatsService(testDB(t))

	require.NoError(t, service.Record(1, gatekeeper.OutcomeApprove))
	require.NoError(t, service.Record(2, gatekeeper.OutcomeDecline))

	snapshot, err := service.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snapshot.ApprovedTotal)
	assert.Zero(t, snapshot.DeclinedTotal)
}
