package services

import (
	"context"
	"errors"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
)

// EventStore is the persistence surface the event service needs
type EventStore interface {
	Create(ctx context.Context, e *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, publishedOnly bool, offset uint64, limit int) ([]*models.Event, int64, error)
}

// EventService implements NGO event management
type EventService struct {
	events EventStore
}

// NewEventService creates a new EventService
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// Create stores a new event
func (s *EventService) Create(ctx context.Context, req *dto.CreateEventRequest, createdBy int64) (*models.Event, error) {
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, apperrors.NewBadRequestError("event cannot end before it starts")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		IsPublished: req.IsPublished,
		CreatedBy:   createdBy,
	}

	id, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = id
	return event, nil
}

// Get retrieves one event
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return event, nil
}

// Update overwrites an event's editable fields
func (s *EventService) Update(ctx context.Context, id int64, req *dto.CreateEventRequest) (*models.Event, error) {
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, apperrors.NewBadRequestError("event cannot end before it starts")
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	event.IsPublished = req.IsPublished

	if err := s.events.Update(ctx, event); err != nil {
		return nil, s.mapNotFound(err)
	}
	return event, nil
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.mapNotFound(s.events.Delete(ctx, id))
}

// List retrieves events; public callers only see published ones
func (s *EventService) List(ctx context.Context, publishedOnly bool, offset uint64, limit int) ([]*models.Event, int64, error) {
	return s.events.List(ctx, publishedOnly, offset, limit)
}

func (s *EventService) mapNotFound(err error) error {
	if errors.Is(err, repositories.ErrEventNotFound) {
		return apperrors.ErrEventNotFound
	}
	return err
}
