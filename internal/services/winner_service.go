package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

const settleLockTTL = 15 * time.Second

// Compile-time check to ensure WinnerServiceImpl implements WinnerService
var _ WinnerService = (*WinnerServiceImpl)(nil)

// WinnerServiceImpl settles events once their result time has passed. The
// clock and RNG are injected so tests can fix both.
type WinnerServiceImpl struct {
	eventRepo repositories.EventRepository
	locker    SettleLocker
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewWinnerService creates a new WinnerServiceImpl. locker may be nil, in
// which case settlement relies on the persistence compare-and-set alone.
func NewWinnerService(eventRepo repositories.EventRepository, locker SettleLocker, now func() time.Time, rng *rand.Rand) *WinnerServiceImpl {
	return &WinnerServiceImpl{
		eventRepo: eventRepo,
		locker:    locker,
		now:       now,
		rng:       rng,
	}
}

// DetermineWinners settles the event exactly once.
//
// The presence of the winners field is the idempotency flag: once set (even
// to an empty list) every later call returns the stored result untouched.
// Before the result time the event is returned unsettled; callers re-invoke
// after the deadline.
func (s *WinnerServiceImpl) DetermineWinners(ctx context.Context, eventID string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}

	event, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	if event.IsSettled() {
		return event, nil
	}

	if s.now().UnixMilli() < event.ResultTime {
		return event, nil
	}

	// Advisory lock so racing callers don't each run a lottery. If the lock
	// service is down or the lock is held we fall through: the settle
	// compare-and-set below still guarantees a single persisted result.
	if s.locker != nil {
		release, acquired, lockErr := s.locker.Acquire(ctx, "settle:event:"+eventID, settleLockTTL)
		if lockErr != nil {
			slog.Warn("settlement lock unavailable, relying on store guard", "eventId", eventID, "error", lockErr)
		} else if !acquired {
			slog.Info("settlement already in progress elsewhere", "eventId", eventID)
			return s.reload(ctx, oid)
		} else {
			defer release()
		}
	}

	winners, assignedCodes := s.selectWinners(event)

	committed, err := s.eventRepo.SettleWinners(ctx, oid, winners, assignedCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to persist winners: %w", err)
	}
	if !committed {
		// Lost the settle race; the other writer's result is authoritative.
		slog.Info("event was settled concurrently, returning stored result", "eventId", eventID)
		return s.reload(ctx, oid)
	}

	slog.Info("event settled", "eventId", eventID,
		"registrants", len(event.RegisteredUsers), "winners", len(winners),
		"mode", event.SelectionMode)

	event.Winners = &winners
	event.AssignedCodes = assignedCodes
	return event, nil
}

func (s *WinnerServiceImpl) reload(ctx context.Context, oid primitive.ObjectID) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to reload event: %w", err)
	}
	return event, nil
}

// selectWinners runs the event's selection algorithm. Any panic in selection
// settles the event with no winners rather than leaving it unsettled.
func (s *WinnerServiceImpl) selectWinners(event *models.Event) (winners []string, assignedCodes map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("winner selection failed, settling with no winners",
				"eventId", event.ID.Hex(), "panic", r)
			winners = []string{}
			assignedCodes = map[string]string{}
		}
	}()

	winners = []string{}
	assignedCodes = map[string]string{}

	registered := event.RegistrantIDs()
	if len(registered) == 0 || len(event.Codes) == 0 {
		return winners, assignedCodes
	}

	if event.SelectionMode == models.SelectionModeCustom {
		if len(event.CustomWinnerSlots) > 0 {
			return s.selectBySlots(registered, event.Codes, event.CustomWinnerSlots)
		}
		if event.WinnerSlots > 0 {
			return s.selectFirstN(registered, event.Codes, event.WinnerSlots)
		}
		// Custom mode without any slot configuration degrades to random.
	}

	// Random is the default and the fallback for unrecognized modes.
	return s.selectRandom(registered, event.Codes)
}

// selectRandom shuffles the registrant ids with a Fisher-Yates permutation
// and takes the first min(registrants, codes) as winners, codes assigned
// index-aligned.
func (s *WinnerServiceImpl) selectRandom(registered, codes []string) ([]string, map[string]string) {
	shuffled := make([]string, len(registered))
	copy(shuffled, registered)

	s.mu.Lock()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.mu.Unlock()

	winnerCount := len(shuffled)
	if len(codes) < winnerCount {
		winnerCount = len(codes)
	}

	winners := make([]string, 0, winnerCount)
	assignedCodes := make(map[string]string, winnerCount)
	for i := 0; i < winnerCount; i++ {
		winners = append(winners, shuffled[i])
		assignedCodes[shuffled[i]] = codes[i]
	}
	return winners, assignedCodes
}

// selectBySlots walks the registration order: the registrant at 1-based
// position i wins the code whose configured slot is i. Slot 0 or a slot past
// the registrant count simply awards nothing.
func (s *WinnerServiceImpl) selectBySlots(registered, codes []string, slots map[string]int) ([]string, map[string]string) {
	slotToCode := make(map[int]string, len(slots))
	for _, code := range codes {
		if slot := slots[code]; slot > 0 {
			slotToCode[slot] = code
		}
	}

	winners := []string{}
	assignedCodes := map[string]string{}
	for i, id := range registered {
		if code, ok := slotToCode[i+1]; ok {
			winners = append(winners, id)
			assignedCodes[id] = code
		}
	}
	return winners, assignedCodes
}

// selectFirstN implements the legacy winnerSlots shape: the first n
// registrants each win, cycling through the code list.
func (s *WinnerServiceImpl) selectFirstN(registered, codes []string, n int) ([]string, map[string]string) {
	if n > len(registered) {
		n = len(registered)
	}

	winners := make([]string, 0, n)
	assignedCodes := make(map[string]string, n)
	for i := 0; i < n; i++ {
		winners = append(winners, registered[i])
		assignedCodes[registered[i]] = codes[i%len(codes)]
	}
	return winners, assignedCodes
}
