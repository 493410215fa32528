package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenitj/biblefacts-backend/internal/model"
)

type fakeTopicStore struct {
	topics map[int]*model.Topic
	nextID int
}

func newFakeTopicStore(topics ...*model.Topic) *fakeTopicStore {
	s := &fakeTopicStore{topics: map[int]*model.Topic{}, nextID: 1}
	for _, t := range topics {
		s.topics[t.ID] = t
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return s
}

func (s *fakeTopicStore) GetByID(_ context.Context, id int) (*model.Topic, error) {
	t, ok := s.topics[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (s *fakeTopicStore) List(_ context.Context) ([]model.Topic, error) {
	var out []model.Topic
	for _, t := range s.topics {
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeTopicStore) ListByReligion(_ context.Context, religionID int) ([]model.Topic, error) {
	var out []model.Topic
	for _, t := range s.topics {
		if t.ReligionID == religionID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTopicStore) Create(_ context.Context, t *model.Topic) error {
	t.ID = s.nextID
	s.nextID++
	copied := *t
	s.topics[t.ID] = &copied
	return nil
}

func (s *fakeTopicStore) Update(_ context.Context, t *model.Topic) error {
	copied := *t
	s.topics[t.ID] = &copied
	return nil
}

func (s *fakeTopicStore) Delete(_ context.Context, id int) error {
	delete(s.topics, id)
	return nil
}

type fakeDetailChecker struct {
	withContent map[int]bool
}

func (c *fakeDetailChecker) ExistsForTopic(_ context.Context, topicID int) (bool, error) {
	return c.withContent[topicID], nil
}

type fakeReligionReader struct {
	religions map[int]*model.Religion
}

func (r *fakeReligionReader) GetByID(_ context.Context, id int) (*model.Religion, error) {
	rel, ok := r.religions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return rel, nil
}

func newTopicFixture(withContent map[int]bool) (*TopicService, *fakeTopicStore) {
	topics := newFakeTopicStore(
		&model.Topic{ID: 1, ReligionID: 1, Title: "Creation"},
		&model.Topic{ID: 2, ReligionID: 2, Title: "Prophets"},
	)
	religions := &fakeReligionReader{religions: map[int]*model.Religion{
		1: {ID: 1, Name: "Christianity"},
		2: {ID: 2, Name: "Islam"},
	}}
	if withContent == nil {
		withContent = map[int]bool{}
	}
	svc := NewTopicService(topics, &fakeDetailChecker{withContent: withContent}, religions, zerolog.Nop())
	return svc, topics
}

func TestDeleteTopicBlockedWhileContentExists(t *testing.T) {
	svc, topics := newTopicFixture(map[int]bool{1: true})

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTopicHasContent)
	assert.Contains(t, topics.topics, 1)
}

func TestDeleteTopicWithoutContent(t *testing.T) {
	svc, topics := newTopicFixture(nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.NotContains(t, topics.topics, 1)
}

func TestDeleteTopicNotFound(t *testing.T) {
	svc, _ := newTopicFixture(nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), 99), ErrNotFound)
}

func TestCreateTopicUnknownReligion(t *testing.T) {
	svc, _ := newTopicFixture(nil)

	err := svc.Create(context.Background(), &model.Topic{ReligionID: 99, Title: "Orphan"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTopicsFiltersByReligion(t *testing.T) {
	svc, _ := newTopicFixture(nil)

	all, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Creation", filtered[0].Title)
}
