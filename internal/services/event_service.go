package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure EventServiceImpl implements EventService
var _ EventService = (*EventServiceImpl)(nil)

// EventServiceImpl handles admin event CRUD.
type EventServiceImpl struct {
	eventRepo repositories.EventRepository
}

// NewEventService creates a new EventServiceImpl
func NewEventService(eventRepo repositories.EventRepository) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo: eventRepo,
	}
}

// CreateEvent validates and stores a new event. Winner fields are always
// absent at creation; the winner engine sets them exactly once later.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.Name == "" {
		return errors.New("event name is required")
	}
	if len(event.Codes) == 0 {
		return errors.New("at least one prize code is required")
	}
	if event.SelectionMode == "" {
		event.SelectionMode = models.SelectionModeRandom
	}
	if event.RequiredXP < 0 {
		return errors.New("requiredXp must not be negative")
	}
	event.Winners = nil
	event.AssignedCodes = nil
	event.RegisteredUsers = nil

	if err := s.eventRepo.Create(ctx, event); err != nil {
		slog.Error("failed to create event", "name", event.Name, "error", err)
		return fmt.Errorf("failed to create event: %w", err)
	}
	slog.Info("event created", "eventId", event.ID.Hex(), "name", event.Name, "mode", event.SelectionMode)
	return nil
}

// GetEventByID retrieves a single event
func (s *EventServiceImpl) GetEventByID(ctx context.Context, eventID string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	event, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to retrieve event: %w", err)
	}
	return event, nil
}

// GetAllEvents retrieves all events for the dashboard
func (s *EventServiceImpl) GetAllEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes an event. Settled events are deletable too; the admin
// owns the lifecycle end to end.
func (s *EventServiceImpl) DeleteEvent(ctx context.Context, eventID string) error {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return ErrEventNotFound
	}
	if err := s.eventRepo.Delete(ctx, oid); err != nil {
		slog.Error("failed to delete event", "eventId", eventID, "error", err)
		return fmt.Errorf("failed to delete event: %w", err)
	}
	slog.Info("event deleted", "eventId", eventID)
	return nil
}
