package matching_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bloodlink/internal/domain"
	"bloodlink/internal/service/matching"
)

func TestDispatcher_CreatesOneNotificationPerDonor(t *testing.T) {
	store := newMemNotificationStore()
	fd := newFakeFeed()
	dispatcher := matching.NewDispatcher(store, fd, zap.NewNop())

	req := newRequest(domain.OPos, domain.UrgencyNormal)
	donorA := newDonor(domain.ONeg, true)
	donorB := newDonor(domain.OPos, true)

	created, err := dispatcher.Dispatch(context.Background(), req, []domain.Donor{donorA, donorB})

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, store.countForUser(donorA.UserID))
	assert.Equal(t, 1, store.countForUser(donorB.UserID))
	assert.Len(t, fd.published, 2)
}

func TestDispatcher_IsIdempotent(t *testing.T) {
	store := newMemNotificationStore()
	dispatcher := matching.NewDispatcher(store, nil, zap.NewNop())

	req := newRequest(domain.APos, domain.UrgencyNormal)
	donors := []domain.Donor{newDonor(domain.ONeg, true), newDonor(domain.APos, true)}

	first, err := dispatcher.Dispatch(context.Background(), req, donors)
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := dispatcher.Dispatch(context.Background(), req, donors)
	require.NoError(t, err)
	assert.Equal(t, 0, second, "second pass must suppress every pair")

	for _, d := range donors {
		assert.Equal(t, 1, store.countForUser(d.UserID))
	}
}

func TestDispatcher_UrgentRequestsArePrefixedAndFlagged(t *testing.T) {
	for _, tc := range []struct {
		urgency domain.UrgencyLevel
		urgent  bool
	}{
		{domain.UrgencyCritical, true},
		{domain.UrgencyUrgent, true},
		{domain.UrgencyNormal, false},
		{domain.UrgencyScheduled, false},
	} {
		store := newMemNotificationStore()
		dispatcher := matching.NewDispatcher(store, nil, zap.NewNop())

		req := newRequest(domain.OPos, tc.urgency)
		req.Hospital = "St. Mary"
		req.PatientName = "John Smith"
		donor := newDonor(domain.ONeg, true)

		_, err := dispatcher.Dispatch(context.Background(), req, []domain.Donor{donor})
		require.NoError(t, err)

		notifs, _, err := store.ListByUser(context.Background(), donor.UserID, false, domain.DefaultPagination())
		require.NoError(t, err)
		require.Len(t, notifs, 1)

		notif := notifs[0]
		if tc.urgent {
			assert.Contains(t, notif.Title, "URGENT", "urgency=%s", tc.urgency)
		} else {
			assert.NotContains(t, notif.Title, "URGENT", "urgency=%s", tc.urgency)
		}
		assert.Equal(t, domain.NotifRequestMatch, notif.Type)
		require.NotNil(t, notif.RequestID)
		assert.Equal(t, req.ID, *notif.RequestID)

		var meta domain.RequestMatchMetadata
		require.NoError(t, json.Unmarshal(notif.Metadata, &meta))
		assert.Equal(t, req.ID, meta.RequestID)
		assert.Equal(t, domain.OPos, meta.BloodType)
		assert.Equal(t, "St. Mary", meta.Hospital)
		assert.Equal(t, tc.urgent, meta.Urgent)
		assert.Equal(t, "John Smith", meta.PatientName)
	}
}

func TestDispatcher_PartialFailureDoesNotAbortFanOut(t *testing.T) {
	store := newMemNotificationStore()
	dispatcher := matching.NewDispatcher(store, nil, zap.NewNop())

	req := newRequest(domain.OPos, domain.UrgencyNormal)
	failing := newDonor(domain.ONeg, true)
	healthy := newDonor(domain.OPos, true)
	store.failFor[failing.UserID] = errors.New("write timeout")

	created, err := dispatcher.Dispatch(context.Background(), req, []domain.Donor{failing, healthy})

	require.NoError(t, err)
	assert.Equal(t, 1, created, "count reflects successes only")
	assert.Equal(t, 0, store.countForUser(failing.UserID))
	assert.Equal(t, 1, store.countForUser(healthy.UserID))
}

func TestDispatcher_ConcurrentDispatchCreatesExactlyOnePerDonor(t *testing.T) {
	store := newMemNotificationStore()
	dispatcher := matching.NewDispatcher(store, nil, zap.NewNop())

	req := newRequest(domain.BPos, domain.UrgencyUrgent)
	donors := []domain.Donor{
		newDonor(domain.ONeg, true),
		newDonor(domain.OPos, true),
		newDonor(domain.BNeg, true),
		newDonor(domain.BPos, true),
	}

	// Live delivery and reconciliation racing on the same request.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := dispatcher.Dispatch(context.Background(), req, donors)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, d := range donors {
		assert.Equal(t, 1, store.countForUser(d.UserID))
	}
}
