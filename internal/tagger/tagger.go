// Package tagger applies the deployment environment tag to a batch of work
// items, one at a time, isolating failures per item.
package tagger

import (
	"context"
	"fmt"

	"github.com/danielolaszy/deploytag/internal/logging"
	"github.com/danielolaszy/deploytag/internal/refs"
	"github.com/danielolaszy/deploytag/pkg/models"
)

// WorkItemStore is the remote work item surface the tagger needs.
// *azure.Client satisfies this.
type WorkItemStore interface {
	// GetWorkItem retrieves a work item by identifier.
	GetWorkItem(ctx context.Context, id int) (models.WorkItem, error)

	// UpdateTags replaces the work item's tag field with the given value.
	UpdateTags(ctx context.Context, id int, tags string) error
}

// Tagger applies one environment tag to work items.
type Tagger struct {
	store  WorkItemStore
	tag    string
	dryRun bool
}

// New creates a Tagger that applies the normalized tag for environment.
// With dryRun set, skip/update decisions are made and logged but no update
// request is issued; would-be updates count as updated.
func New(store WorkItemStore, environment string, dryRun bool) *Tagger {
	return &Tagger{
		store:  store,
		tag:    refs.EnvironmentTag(environment),
		dryRun: dryRun,
	}
}

// Tag returns the normalized environment tag this tagger applies.
func (t *Tagger) Tag() string {
	return t.tag
}

// Apply processes every identifier sequentially and returns the accumulated
// summary. Per-item failures are recorded and counted; they never abort the
// batch.
func (t *Tagger) Apply(ctx context.Context, ids []int) models.TagSummary {
	var summary models.TagSummary
	for _, id := range ids {
		summary.Add(t.applyOne(ctx, id))
	}
	return summary
}

// applyOne runs the per-item state machine: fetch, then skip, update, or fail.
func (t *Tagger) applyOne(ctx context.Context, id int) models.TagResult {
	item, err := t.store.GetWorkItem(ctx, id)
	if err != nil {
		msg := fmt.Sprintf("work item %d: %v", id, err)
		logging.Error("failed to fetch work item", "id", id, "error", err)
		return models.TagResult{ID: id, Outcome: models.TagFailed, Message: msg}
	}

	if refs.ContainsTag(item.Tags, t.tag) {
		logging.Info("work item already tagged, skipping",
			"id", id,
			"title", item.Title,
			"tag", t.tag)
		return models.TagResult{ID: id, Outcome: models.TagSkipped}
	}

	newTags := refs.AppendTag(item.Tags, t.tag)

	if t.dryRun {
		logging.Info("dry run, would tag work item",
			"id", id,
			"title", item.Title,
			"tags", newTags)
		return models.TagResult{ID: id, Outcome: models.TagUpdated}
	}

	if err := t.store.UpdateTags(ctx, id, newTags); err != nil {
		msg := fmt.Sprintf("work item %d: %v", id, err)
		logging.Error("failed to update work item", "id", id, "error", err)
		return models.TagResult{ID: id, Outcome: models.TagFailed, Message: msg}
	}

	logging.Info("tagged work item",
		"id", id,
		"title", item.Title,
		"tag", t.tag)
	return models.TagResult{ID: id, Outcome: models.TagUpdated}
}
