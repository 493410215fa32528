package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// topicStore is the slice of the topic repository the topic service needs.
type topicStore interface {
	GetByID(ctx context.Context, id int) (*model.Topic, error)
	List(ctx context.Context) ([]model.Topic, error)
	ListByReligion(ctx context.Context, religionID int) ([]model.Topic, error)
	Create(ctx context.Context, t *model.Topic) error
	Update(ctx context.Context, t *model.Topic) error
	Delete(ctx context.Context, id int) error
}

// detailChecker reports whether a topic carries content.
type detailChecker interface {
	ExistsForTopic(ctx context.Context, topicID int) (bool, error)
}

// religionReader is the slice of the religion repository the topic service
// needs to validate foreign keys.
type religionReader interface {
	GetByID(ctx context.Context, id int) (*model.Religion, error)
}

// TopicService handles topic CRUD.
type TopicService struct {
	topics    topicStore
	details   detailChecker
	religions religionReader
	log       zerolog.Logger
}

// NewTopicService creates a new TopicService.
func NewTopicService(
	topics topicStore,
	details detailChecker,
	religions religionReader,
	log zerolog.Logger,
) *TopicService {
	return &TopicService{
		topics:    topics,
		details:   details,
		religions: religions,
		log:       log.With().Str("component", "topic_service").Logger(),
	}
}

// List returns all topics, or only those of one religion when religionID > 0.
func (s *TopicService) List(ctx context.Context, religionID int) ([]model.Topic, error) {
	if religionID > 0 {
		return s.topics.ListByReligion(ctx, religionID)
	}
	return s.topics.List(ctx)
}

func (s *TopicService) Get(ctx context.Context, id int) (*model.Topic, error) {
	t, err := s.topics.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *TopicService) Create(ctx context.Context, t *model.Topic) error {
	if _, err := s.religions.GetByID(ctx, t.ReligionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.topics.Create(ctx, t)
}

func (s *TopicService) Update(ctx context.Context, t *model.Topic) error {
	if _, err := s.Get(ctx, t.ID); err != nil {
		return err
	}
	return s.topics.Update(ctx, t)
}

// Delete removes a topic. Topics carrying content are protected: the content
// must be deleted first.
func (s *TopicService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	hasContent, err := s.details.ExistsForTopic(ctx, id)
	if err != nil {
		return err
	}
	if hasContent {
		return ErrTopicHasContent
	}

	return s.topics.Delete(ctx, id)
}
