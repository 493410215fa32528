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

type fakeTopicReader struct {
	topics map[int]*model.Topic
}

func (r *fakeTopicReader) GetByID(_ context.Context, id int) (*model.Topic, error) {
	t, ok := r.topics[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

// fakeDetailStore mimics the compare-and-swap semantics of the real
// repository: create forces version 1, update applies only when the stored
// version matches.
type fakeDetailStore struct {
	details map[int]*model.TopicDetail
}

func newFakeDetailStore() *fakeDetailStore {
	return &fakeDetailStore{details: map[int]*model.TopicDetail{}}
}

func (s *fakeDetailStore) GetByTopicID(_ context.Context, topicID int) (*model.TopicDetail, error) {
	d, ok := s.details[topicID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (s *fakeDetailStore) Create(_ context.Context, d *model.TopicDetail) error {
	d.Version = 1
	copied := *d
	s.details[d.TopicID] = &copied
	return nil
}

func (s *fakeDetailStore) UpdateIfVersion(_ context.Context, d *model.TopicDetail, expectedVersion int) (bool, error) {
	stored, ok := s.details[d.TopicID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	d.Version = expectedVersion + 1
	copied := *d
	s.details[d.TopicID] = &copied
	return true, nil
}

func (s *fakeDetailStore) Delete(_ context.Context, topicID int) error {
	delete(s.details, topicID)
	return nil
}

func newContentFixture() (*ContentService, *fakeDetailStore) {
	topics := &fakeTopicReader{topics: map[int]*model.Topic{
		1: {ID: 1, ReligionID: 1, Title: "Creation"},
	}}
	details := newFakeDetailStore()
	return NewContentService(topics, details, zerolog.Nop()), details
}

func saveRequest(version int) *model.SaveContentRequest {
	return &model.SaveContentRequest{
		Explanation: "In the beginning...",
		BibleVerses: []string{"Genesis 1:1"},
		KeyPoints:   []string{"creation"},
		References:  []model.Reference{{Verse: "Genesis 1:1", Text: "...", Explanation: "..."}},
		Version:     version,
	}
}

func TestSaveContentFirstSaveStoresVersionOne(t *testing.T) {
	svc, _ := newContentFixture()

	detail, err := svc.Save(context.Background(), 1, saveRequest(0))
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Version)
}

func TestSaveContentEachSaveIncrementsVersion(t *testing.T) {
	svc, _ := newContentFixture()

	first, err := svc.Save(context.Background(), 1, saveRequest(0))
	require.NoError(t, err)

	// Identical body: the version still advances.
	second, err := svc.Save(context.Background(), 1, saveRequest(first.Version))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	third, err := svc.Save(context.Background(), 1, saveRequest(second.Version))
	require.NoError(t, err)
	assert.Equal(t, 3, third.Version)
}

func TestSaveContentStaleVersionRejected(t *testing.T) {
	svc, _ := newContentFixture()

	first, err := svc.Save(context.Background(), 1, saveRequest(0))
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), 1, saveRequest(first.Version))
	require.NoError(t, err)

	// A second editor still holding version 1 loses.
	_, err = svc.Save(context.Background(), 1, saveRequest(first.Version))
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSaveContentVersionZeroAgainstExistingRejected(t *testing.T) {
	svc, _ := newContentFixture()

	_, err := svc.Save(context.Background(), 1, saveRequest(0))
	require.NoError(t, err)

	// A client that saw no content cannot clobber content created meanwhile.
	_, err = svc.Save(context.Background(), 1, saveRequest(0))
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSaveContentAgainstVanishedContentRejected(t *testing.T) {
	svc, details := newContentFixture()

	first, err := svc.Save(context.Background(), 1, saveRequest(0))
	require.NoError(t, err)

	require.NoError(t, details.Delete(context.Background(), 1))

	_, err = svc.Save(context.Background(), 1, saveRequest(first.Version))
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSaveContentUnknownTopic(t *testing.T) {
	svc, _ := newContentFixture()

	_, err := svc.Save(context.Background(), 99, saveRequest(0))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetContentNotFound(t *testing.T) {
	svc, _ := newContentFixture()

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteContent(t *testing.T) {
	svc, details := newContentFixture()

	_, err := svc.Save(context.Background(), 1, saveRequest(0))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, details.details)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrNotFound)
}
