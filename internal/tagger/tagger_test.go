package tagger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/deploytag/pkg/models"
)

// fakeStore is an in-memory WorkItemStore. Items maps identifiers to their
// current tag field; missing identifiers fail the fetch.
type fakeStore struct {
	items       map[int]string
	failUpdates map[int]bool

	updates map[int]string
	fetches int
}

func newFakeStore(items map[int]string) *fakeStore {
	return &fakeStore{
		items:       items,
		failUpdates: make(map[int]bool),
		updates:     make(map[int]string),
	}
}

func (s *fakeStore) GetWorkItem(ctx context.Context, id int) (models.WorkItem, error) {
	s.fetches++
	tags, ok := s.items[id]
	if !ok {
		return models.WorkItem{}, errors.New("work item does not exist")
	}
	return models.WorkItem{ID: id, Title: "item", Tags: tags}, nil
}

func (s *fakeStore) UpdateTags(ctx context.Context, id int, tags string) error {
	if s.failUpdates[id] {
		return errors.New("update rejected")
	}
	s.updates[id] = tags
	s.items[id] = tags
	return nil
}

func TestApplyTagsUntaggedItems(t *testing.T) {
	store := newFakeStore(map[int]string{
		10: "",
		11: "Alpha; Beta",
	})

	tagger := New(store, "qa", false)
	summary := tagger.Apply(context.Background(), []int{10, 11})

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, "DeployedEnv:QA", store.updates[10])
	assert.Equal(t, "Alpha; Beta; DeployedEnv:QA", store.updates[11])
}

func TestApplySkipsAlreadyTagged(t *testing.T) {
	store := newFakeStore(map[int]string{
		10: "",
		11: "DeployedEnv:QA",
		12: "Alpha",
	})

	tagger := New(store, "qa", false)
	summary := tagger.Apply(context.Background(), []int{10, 11, 12})

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	// The skipped item received no update request.
	_, updated := store.updates[11]
	assert.False(t, updated)
}

func TestApplyIsolatesFetchFailures(t *testing.T) {
	store := newFakeStore(map[int]string{
		10: "",
		12: "",
	})

	tagger := New(store, "qa", false)
	summary := tagger.Apply(context.Background(), []int{10, 11, 12})

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Failed)

	failures := summary.Failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "work item 11")
}

func TestApplyIsolatesUpdateFailures(t *testing.T) {
	store := newFakeStore(map[int]string{
		10: "",
		11: "",
		12: "",
	})
	store.failUpdates[11] = true

	tagger := New(store, "qa", false)
	summary := tagger.Apply(context.Background(), []int{10, 11, 12})

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
}

func TestApplyEmptyBatch(t *testing.T) {
	store := newFakeStore(map[int]string{})

	tagger := New(store, "qa", false)
	summary := tagger.Apply(context.Background(), nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Zero(t, store.fetches, "no work item reads expected for an empty batch")
}

func TestApplyDryRunIssuesNoUpdates(t *testing.T) {
	store := newFakeStore(map[int]string{
		10: "",
		11: "DeployedEnv:QA",
	})

	tagger := New(store, "qa", true)
	summary := tagger.Apply(context.Background(), []int{10, 11})

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, store.updates, "dry run must not issue update requests")
}

func TestTagNormalization(t *testing.T) {
	tagger := New(newFakeStore(nil), "dev", false)
	assert.Equal(t, "DeployedEnv:DEV", tagger.Tag())
}
