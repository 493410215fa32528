package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// religionStore is the slice of the religion repository the religion
// service needs.
type religionStore interface {
	List(ctx context.Context) ([]model.Religion, error)
	GetByID(ctx context.Context, id int) (*model.Religion, error)
	Create(ctx context.Context, rel *model.Religion) error
	Update(ctx context.Context, rel *model.Religion) error
	Delete(ctx context.Context, id int) error
	TopicCount(ctx context.Context, id int) (int, error)
}

// ReligionService handles religion CRUD.
type ReligionService struct {
	religions religionStore
	log       zerolog.Logger
}

// NewReligionService creates a new ReligionService.
func NewReligionService(religions religionStore, log zerolog.Logger) *ReligionService {
	return &ReligionService{
		religions: religions,
		log:       log.With().Str("component", "religion_service").Logger(),
	}
}

func (s *ReligionService) List(ctx context.Context) ([]model.Religion, error) {
	return s.religions.List(ctx)
}

func (s *ReligionService) Get(ctx context.Context, id int) (*model.Religion, error) {
	rel, err := s.religions.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rel, err
}

func (s *ReligionService) Create(ctx context.Context, rel *model.Religion) error {
	return s.religions.Create(ctx, rel)
}

func (s *ReligionService) Update(ctx context.Context, rel *model.Religion) error {
	if _, err := s.Get(ctx, rel.ID); err != nil {
		return err
	}
	return s.religions.Update(ctx, rel)
}

// Delete removes a religion. Religions that still carry topics are protected.
func (s *ReligionService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	topics, err := s.religions.TopicCount(ctx, id)
	if err != nil {
		return err
	}
	if topics > 0 {
		return ErrReligionHasTopics
	}

	return s.religions.Delete(ctx, id)
}
