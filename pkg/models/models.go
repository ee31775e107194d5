// Package models defines data structures shared across the application.
package models

// WorkItem represents an Azure DevOps work item with the fields we care about.
type WorkItem struct {
	// ID is the work item's numeric identifier
	ID int

	// Title is the work item's System.Title field
	Title string

	// Tags is the raw System.Tags field: a semicolon-separated list of
	// tag tokens, empty when the item carries no tags
	Tags string
}

// PullRequest represents a GitHub pull request with its essential fields.
type PullRequest struct {
	// Number is the pull request number in GitHub (e.g., 42)
	Number int

	// Title is the pull request's title
	Title string

	// Description is the full body text of the pull request
	Description string
}

// TagOutcome classifies what happened to a single work item during tagging.
type TagOutcome int

const (
	// TagUpdated means the environment tag was appended and the update succeeded.
	TagUpdated TagOutcome = iota

	// TagSkipped means the work item already carried the environment tag.
	TagSkipped

	// TagFailed means the read or the update request failed.
	TagFailed
)

// String returns a human-readable name for the outcome.
func (o TagOutcome) String() string {
	switch o {
	case TagUpdated:
		return "updated"
	case TagSkipped:
		return "skipped"
	case TagFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TagResult records the outcome of tagging one work item.
type TagResult struct {
	// ID is the work item identifier the result belongs to
	ID int

	// Outcome is what happened to the item
	Outcome TagOutcome

	// Message carries the error text for failed items, empty otherwise
	Message string
}

// TagSummary aggregates per-item results into the counters reported at the
// end of a run.
type TagSummary struct {
	// Total is the number of distinct work item identifiers processed
	Total int

	// Updated counts items whose tag field was successfully extended
	Updated int

	// Skipped counts items that already carried the environment tag
	Skipped int

	// Failed counts items whose read or update request failed
	Failed int

	// Results holds the per-item outcomes in processing order
	Results []TagResult
}

// Add folds a single result into the summary counters.
func (s *TagSummary) Add(r TagResult) {
	s.Total++
	s.Results = append(s.Results, r)

	switch r.Outcome {
	case TagUpdated:
		s.Updated++
	case TagSkipped:
		s.Skipped++
	case TagFailed:
		s.Failed++
	}
}

// Failures returns the messages of all failed results, in processing order.
func (s *TagSummary) Failures() []string {
	var msgs []string
	for _, r := range s.Results {
		if r.Outcome == TagFailed {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}
