package services

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.UnixMilli(1_700_000_000_000)

func fixedNow() time.Time { return testNow }

func testRNG() *rand.Rand { return rand.New(rand.NewSource(42)) }

func seedEvent(t *testing.T, repo *fakeEventRepo, event *models.Event) string {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), event))
	return event.ID.Hex()
}

func closedEvent(registrants int, codes []string) *models.Event {
	event := &models.Event{
		Name:          "Launch Giveaway",
		StartTime:     testNow.Add(-2 * time.Hour).UnixMilli(),
		EndTime:       testNow.Add(-time.Hour).UnixMilli(),
		ResultTime:    testNow.Add(-time.Minute).UnixMilli(),
		Codes:         codes,
		SelectionMode: models.SelectionModeRandom,
	}
	for i := 0; i < registrants; i++ {
		event.RegisteredUsers = append(event.RegisteredUsers, models.Registrant{
			ID:       fmt.Sprintf("reg-%d", i+1),
			Username: fmt.Sprintf("user%d", i+1),
		})
	}
	return event
}

func TestDetermineWinnersRandomCountBound(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	id := seedEvent(t, repo, closedEvent(5, []string{"CODE-A", "CODE-B", "CODE-C"}))

	event, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, event.Winners)

	winners := *event.Winners
	require.Len(t, winners, 3)
	require.Len(t, event.AssignedCodes, 3)

	registered := map[string]bool{}
	for _, r := range event.RegisteredUsers {
		registered[r.ID] = true
	}
	seen := map[string]bool{}
	for i, w := range winners {
		require.True(t, registered[w], "winner %s is not a registrant", w)
		require.False(t, seen[w], "winner %s selected twice", w)
		seen[w] = true
		require.Equal(t, []string{"CODE-A", "CODE-B", "CODE-C"}[i], event.AssignedCodes[w])
	}
}

func TestDetermineWinnersFewerRegistrantsThanCodes(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	id := seedEvent(t, repo, closedEvent(2, []string{"A", "B", "C", "D"}))

	event, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, *event.Winners, 2)
}

func TestDetermineWinnersIdempotent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	id := seedEvent(t, repo, closedEvent(6, []string{"A", "B", "C"}))

	first, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)

	// A second call must return the stored result, not re-run the lottery.
	second, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, *first.Winners, *second.Winners)
	require.Equal(t, first.AssignedCodes, second.AssignedCodes)
}

func TestDetermineWinnersBeforeResultTime(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	event := closedEvent(3, []string{"A"})
	event.ResultTime = testNow.Add(time.Hour).UnixMilli()
	id := seedEvent(t, repo, event)

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, got.Winners, "event must stay unsettled before the result time")

	stored, err := repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.Nil(t, stored.Winners)
}

func TestDetermineWinnersEmptyPool(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	id := seedEvent(t, repo, closedEvent(0, []string{"A", "B"}))

	event, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, event.Winners, "empty settle must still mark the event settled")
	require.Empty(t, *event.Winners)
	require.Empty(t, event.AssignedCodes)
}

func TestDetermineWinnersNotFound(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	_, err := svc.DetermineWinners(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.DetermineWinners(context.Background(), "not-a-hex-id")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestDetermineWinnersCustomSlots(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	event := closedEvent(3, []string{"A", "B"})
	event.SelectionMode = models.SelectionModeCustom
	event.CustomWinnerSlots = map[string]int{"A": 1, "B": 3}
	id := seedEvent(t, repo, event)

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, []string{"reg-1", "reg-3"}, *got.Winners)
	require.Equal(t, map[string]string{"reg-1": "A", "reg-3": "B"}, got.AssignedCodes)
}

func TestDetermineWinnersCustomSlotBeyondRegistrants(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	event := closedEvent(2, []string{"A", "B"})
	event.SelectionMode = models.SelectionModeCustom
	event.CustomWinnerSlots = map[string]int{"A": 2, "B": 5}
	id := seedEvent(t, repo, event)

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, []string{"reg-2"}, *got.Winners)
	require.Equal(t, map[string]string{"reg-2": "A"}, got.AssignedCodes)
}

func TestDetermineWinnersCustomSlotZeroSkipped(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	event := closedEvent(2, []string{"A", "B"})
	event.SelectionMode = models.SelectionModeCustom
	event.CustomWinnerSlots = map[string]int{"A": 0, "B": 1}
	id := seedEvent(t, repo, event)

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, []string{"reg-1"}, *got.Winners)
	require.Equal(t, map[string]string{"reg-1": "B"}, got.AssignedCodes)
}

func TestDetermineWinnersLegacyWinnerSlots(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	event := closedEvent(4, []string{"A", "B"})
	event.SelectionMode = models.SelectionModeCustom
	event.WinnerSlots = 3
	id := seedEvent(t, repo, event)

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, []string{"reg-1", "reg-2", "reg-3"}, *got.Winners)
	// Legacy shape cycles through the code list.
	require.Equal(t, map[string]string{"reg-1": "A", "reg-2": "B", "reg-3": "A"}, got.AssignedCodes)
}

func TestDetermineWinnersUnrecognizedModeFallsBackToRandom(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	event := closedEvent(4, []string{"A", "B"})
	event.SelectionMode = "weighted"
	id := seedEvent(t, repo, event)

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, *got.Winners, 2)
}

func TestDetermineWinnersShuffleUniformity(t *testing.T) {
	// With a single code, the sole winner is the first element of the
	// shuffled order. Over many trials each registrant should win with
	// roughly equal frequency; a biased permutation (e.g. sort by random
	// comparator) skews this heavily.
	const registrants = 6
	const trials = 3000

	rng := testRNG()
	counts := make(map[string]int, registrants)
	for i := 0; i < trials; i++ {
		repo := newFakeEventRepo()
		svc := NewWinnerService(repo, nil, fixedNow, rng)
		id := seedEvent(t, repo, closedEvent(registrants, []string{"A"}))

		event, err := svc.DetermineWinners(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, *event.Winners, 1)
		counts[(*event.Winners)[0]]++
	}

	expected := float64(trials) / float64(registrants)
	for i := 1; i <= registrants; i++ {
		got := counts[fmt.Sprintf("reg-%d", i)]
		require.InDelta(t, expected, float64(got), expected*0.25,
			"registrant %d won %d times, expected about %.0f", i, got, expected)
	}
}

func TestDetermineWinnersLostSettleRace(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewWinnerService(repo, nil, fixedNow, testRNG())

	event := closedEvent(3, []string{"A"})
	id := seedEvent(t, repo, event)

	// Simulate another writer settling between our read and our write.
	repo.preemptWinners = []string{"reg-2"}
	repo.preemptCodes = map[string]string{"reg-2": "A"}

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, []string{"reg-2"}, *got.Winners, "the concurrent writer's result must win")
	require.Equal(t, map[string]string{"reg-2": "A"}, got.AssignedCodes)
}

func TestDetermineWinnersLockHeldElsewhere(t *testing.T) {
	repo := newFakeEventRepo()
	locker := &fakeLocker{held: true}
	svc := NewWinnerService(repo, locker, fixedNow, testRNG())

	id := seedEvent(t, repo, closedEvent(3, []string{"A"}))

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, got.Winners, "caller without the lock must not settle")
	require.Equal(t, 1, locker.acquires)
}

func TestDetermineWinnersLockErrorStillSettles(t *testing.T) {
	repo := newFakeEventRepo()
	locker := &fakeLocker{err: fmt.Errorf("redis down")}
	svc := NewWinnerService(repo, locker, fixedNow, testRNG())

	id := seedEvent(t, repo, closedEvent(3, []string{"A"}))

	got, err := svc.DetermineWinners(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got.Winners, "lock failure must not block settlement")
}
