package services

import (
	"context"
	"sync"
	"time"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes mirroring the guard semantics of the Mongo
// implementations: every conditional write checks its precondition under the
// same lock that applies the mutation.

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	c.Codes = copyStrings(e.Codes)
	c.RegisteredUsers = append([]models.Registrant(nil), e.RegisteredUsers...)
	c.AssignedCodes = copyStringMap(e.AssignedCodes)
	if e.CustomWinnerSlots != nil {
		c.CustomWinnerSlots = make(map[string]int, len(e.CustomWinnerSlots))
		for k, v := range e.CustomWinnerSlots {
			c.CustomWinnerSlots[k] = v
		}
	}
	if e.Winners != nil {
		w := copyStrings(*e.Winners)
		c.Winners = &w
	}
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.UnlockedEvents != nil {
		c.UnlockedEvents = make(map[string]bool, len(u.UnlockedEvents))
		for k, v := range u.UnlockedEvents {
			c.UnlockedEvents[k] = v
		}
	}
	return &c
}

func cloneActivity(a *models.Activity) *models.Activity {
	c := *a
	c.Questions = append([]models.Question(nil), a.Questions...)
	if a.Submissions != nil {
		c.Submissions = make(map[string]models.Submission, len(a.Submissions))
		for k, v := range a.Submissions {
			c.Submissions[k] = v
		}
	}
	return &c
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*models.Event

	// preemptWinners simulates a concurrent settlement: the next
	// SettleWinners call finds the event already settled with this result.
	preemptWinners []string
	preemptCodes   map[string]string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[primitive.ObjectID]*models.Event)}
}

func (f *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = primitive.NewObjectID()
	f.events[event.ID] = cloneEvent(event)
	return nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneEvent(event), nil
}

func (f *fakeEventRepo) FindAll(_ context.Context) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) AddRegistrant(_ context.Context, eventID primitive.ObjectID, registrant models.Registrant) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return false, nil
	}
	for _, r := range event.RegisteredUsers {
		if r.Username == registrant.Username {
			return false, nil
		}
	}
	event.RegisteredUsers = append(event.RegisteredUsers, registrant)
	return true, nil
}

func (f *fakeEventRepo) SettleWinners(_ context.Context, eventID primitive.ObjectID, winners []string, assignedCodes map[string]string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return false, nil
	}
	if f.preemptWinners != nil && event.Winners == nil {
		w := copyStrings(f.preemptWinners)
		event.Winners = &w
		event.AssignedCodes = copyStringMap(f.preemptCodes)
		f.preemptWinners = nil
		return false, nil
	}
	if event.Winners != nil {
		return false, nil
	}
	w := copyStrings(winners)
	event.Winners = &w
	event.AssignedCodes = copyStringMap(assignedCodes)
	return true, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) seed(user *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.Username] = cloneUser(user)
}

func (f *fakeUserRepo) GetOrCreate(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[username]; ok {
		return cloneUser(user), nil
	}
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.users[username] = user
	return cloneUser(user), nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneUser(user), nil
}

func (f *fakeUserRepo) ReserveUnlock(_ context.Context, username, eventID string, requiredXP int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok || user.XP < requiredXP || user.UnlockedEvents[eventID] {
		return false, nil
	}
	user.PendingXPSpend += requiredXP
	if user.UnlockedEvents == nil {
		user.UnlockedEvents = make(map[string]bool)
	}
	user.UnlockedEvents[eventID] = true
	return true, nil
}

func (f *fakeUserRepo) AddXP(_ context.Context, username string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[username]; ok {
		user.XP += amount
	}
	return nil
}

func (f *fakeUserRepo) SettlePendingXP(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok || user.PendingXPSpend == 0 || user.XP < user.PendingXPSpend {
		return false, nil
	}
	user.XP -= user.PendingXPSpend
	user.PendingXPSpend = 0
	return true, nil
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities map[primitive.ObjectID]*models.Activity
	users      *fakeUserRepo
}

func newFakeActivityRepo(users *fakeUserRepo) *fakeActivityRepo {
	return &fakeActivityRepo{
		activities: make(map[primitive.ObjectID]*models.Activity),
		users:      users,
	}
}

func (f *fakeActivityRepo) Create(_ context.Context, activity *models.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	activity.ID = primitive.NewObjectID()
	f.activities[activity.ID] = cloneActivity(activity)
	return nil
}

func (f *fakeActivityRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	activity, ok := f.activities[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneActivity(activity), nil
}

func (f *fakeActivityRepo) FindAll(_ context.Context) ([]*models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Activity, 0, len(f.activities))
	for _, a := range f.activities {
		out = append(out, cloneActivity(a))
	}
	return out, nil
}

func (f *fakeActivityRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.activities, id)
	return nil
}

func (f *fakeActivityRepo) AddSubmissionAndAwardXP(ctx context.Context, activityID primitive.ObjectID, userID string, submission models.Submission, xp int) (bool, error) {
	f.mu.Lock()
	activity, ok := f.activities[activityID]
	if !ok {
		f.mu.Unlock()
		return false, nil
	}
	if _, exists := activity.Submissions[userID]; exists {
		f.mu.Unlock()
		return false, nil
	}
	if activity.Submissions == nil {
		activity.Submissions = make(map[string]models.Submission)
	}
	activity.Submissions[userID] = submission
	f.mu.Unlock()

	return true, f.users.AddXP(ctx, submission.Username, xp)
}

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	err      error
	acquires int
}

func (l *fakeLocker) Acquire(_ context.Context, _ string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acquires++
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() {
		l.mu.Lock()
		l.held = false
		l.mu.Unlock()
	}, true, nil
}
