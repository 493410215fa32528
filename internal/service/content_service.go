package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

// topicReader is the slice of the topic repository the content service needs.
type topicReader interface {
	GetByID(ctx context.Context, id int) (*model.Topic, error)
}

// detailStore is the slice of the topic detail repository the content
// service needs.
type detailStore interface {
	GetByTopicID(ctx context.Context, topicID int) (*model.TopicDetail, error)
	Create(ctx context.Context, d *model.TopicDetail) error
	UpdateIfVersion(ctx context.Context, d *model.TopicDetail, expectedVersion int) (bool, error)
	Delete(ctx context.Context, topicID int) error
}

// ContentService handles topic content reads and compare-and-swap writes.
type ContentService struct {
	topics  topicReader
	details detailStore
	log     zerolog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(topics topicReader, details detailStore, log zerolog.Logger) *ContentService {
	return &ContentService{
		topics:  topics,
		details: details,
		log:     log.With().Str("component", "content_service").Logger(),
	}
}

func (s *ContentService) Get(ctx context.Context, topicID int) (*model.TopicDetail, error) {
	d, err := s.details.GetByTopicID(ctx, topicID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

// Save creates or replaces topic content under compare-and-swap version
// control. The request carries the version the client last read; 0 means the
// client saw no content. A save against a version that has since advanced —
// or against content that appeared or vanished meanwhile — is rejected with
// ErrVersionConflict. The first accepted save stores version 1 and every
// later one stores previous+1, whether or not the body changed.
func (s *ContentService) Save(ctx context.Context, topicID int, req *model.SaveContentRequest) (*model.TopicDetail, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := &model.TopicDetail{
		TopicID:     topicID,
		Explanation: req.Explanation,
		BibleVerses: req.BibleVerses,
		KeyPoints:   req.KeyPoints,
		References:  req.References,
	}

	if req.Version == 0 {
		existing, err := s.details.GetByTopicID(ctx, topicID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if existing != nil {
			// Someone created content since the client loaded the editor.
			return nil, ErrVersionConflict
		}

		if err := s.details.Create(ctx, detail); err != nil {
			return nil, err
		}
		s.log.Info().Int("topic_id", topicID).Msg("content created")
		return detail, nil
	}

	ok, err := s.details.UpdateIfVersion(ctx, detail, req.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVersionConflict
	}

	s.log.Info().Int("topic_id", topicID).Int("version", detail.Version).Msg("content replaced")
	return detail, nil
}

// Delete removes a topic's content, freeing the topic for deletion.
func (s *ContentService) Delete(ctx context.Context, topicID int) error {
	if _, err := s.Get(ctx, topicID); err != nil {
		return err
	}
	return s.details.Delete(ctx, topicID)
}
