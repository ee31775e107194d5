// Package collect discovers work item references from the run's sources: the
// latest commit message, pipeline-supplied pull request metadata, and the
// remote pull request behind a merge commit.
package collect

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/danielolaszy/deploytag/internal/git"
	"github.com/danielolaszy/deploytag/internal/logging"
	"github.com/danielolaszy/deploytag/internal/refs"
	"github.com/danielolaszy/deploytag/pkg/models"
)

// mergeCommitPattern matches GitHub's generated merge commit subject line.
var mergeCommitPattern = regexp.MustCompile(`Merge pull request #(\d+)`)

// Collector produces candidate work item identifiers from one source.
// Collectors degrade to an empty result on their own failures wherever
// possible; a returned error is logged by the aggregator and never stops the
// remaining collectors.
type Collector interface {
	// Name identifies the collector in logs.
	Name() string

	// Collect returns the work item identifiers found in this source.
	Collect(ctx context.Context) ([]int, error)
}

// PullRequestFetcher retrieves a pull request's title and body from the
// hosting service. *github.Client satisfies this.
type PullRequestFetcher interface {
	GetPullRequest(ctx context.Context, repository string, number int) (models.PullRequest, error)
}

// ResolveCommitMessage returns the commit message to scan: the pre-supplied
// one when non-empty, otherwise the latest commit message of the repository
// at repoPath. Unreadable history degrades to an empty message.
func ResolveCommitMessage(supplied, repoPath string) string {
	if supplied != "" {
		return supplied
	}

	message, err := git.LatestCommitMessage(repoPath)
	if err != nil {
		logging.Warn("unable to read commit history", "path", repoPath, "error", err)
		return ""
	}
	return message
}

// CommitCollector extracts references from the latest commit message.
type CommitCollector struct {
	// Message is the commit message, resolved once by the caller.
	Message string
}

// Name identifies the collector in logs.
func (c *CommitCollector) Name() string { return "commit" }

// Collect extracts work item references from the commit message.
func (c *CommitCollector) Collect(ctx context.Context) ([]int, error) {
	return refs.ExtractWorkItemIDs(c.Message), nil
}

// PRMetadataCollector extracts references from the pull request title and
// description the pipeline supplies on pull request triggered runs. Outside
// such runs both fields are blank and the collector finds nothing.
type PRMetadataCollector struct {
	Title       string
	Description string
}

// Name identifies the collector in logs.
func (c *PRMetadataCollector) Name() string { return "pr-metadata" }

// Collect extracts work item references from the concatenated title and
// description.
func (c *PRMetadataCollector) Collect(ctx context.Context) ([]int, error) {
	if c.Title == "" && c.Description == "" {
		return []int{}, nil
	}
	return refs.ExtractWorkItemIDs(c.Title + "\n" + c.Description), nil
}

// RemotePRCollector resolves the pull request behind a GitHub merge commit
// and extracts references from its remote title and body. Every failure mode
// (no merge commit, unresolved repository, missing token, fetch error) is
// treated as "source unavailable" and yields an empty result.
type RemotePRCollector struct {
	// Message is the commit message inspected for the merge commit pattern.
	Message string

	// RepositoryName is the pipeline's repository name, either "owner/repo"
	// or a bare repository name.
	RepositoryName string

	// RepositoryURI is the pipeline's repository URL, used to recover the
	// owner when RepositoryName is not slash-qualified.
	RepositoryURI string

	// Fetcher performs the authenticated pull request lookup; nil when no
	// GitHub token is configured.
	Fetcher PullRequestFetcher
}

// Name identifies the collector in logs.
func (c *RemotePRCollector) Name() string { return "remote-pr" }

// Collect fetches the merged pull request and extracts work item references
// from its title and body.
func (c *RemotePRCollector) Collect(ctx context.Context) ([]int, error) {
	match := mergeCommitPattern.FindStringSubmatch(c.Message)
	if match == nil {
		logging.Debug("commit is not a merge commit, skipping remote pull request lookup")
		return []int{}, nil
	}

	number, err := strconv.Atoi(match[1])
	if err != nil {
		return []int{}, nil
	}

	repository := ResolveRepository(c.RepositoryName, c.RepositoryURI)
	if repository == "" {
		logging.Info("could not resolve owner/repo from pipeline variables, skipping remote pull request lookup",
			"repository_name", c.RepositoryName,
			"repository_uri", c.RepositoryURI)
		return []int{}, nil
	}

	if c.Fetcher == nil {
		logging.Info("github token not configured, skipping remote pull request lookup",
			"repository", repository,
			"number", number)
		return []int{}, nil
	}

	pr, err := c.Fetcher.GetPullRequest(ctx, repository, number)
	if err != nil {
		logging.Warn("failed to fetch remote pull request",
			"repository", repository,
			"number", number,
			"error", err)
		return []int{}, nil
	}

	logging.Debug("fetched remote pull request",
		"repository", repository,
		"number", pr.Number,
		"title", pr.Title)

	return refs.ExtractWorkItemIDs(pr.Title + "\n" + pr.Description), nil
}

// ResolveRepository derives an "owner/repo" identifier from the pipeline's
// repository name and URI variables. A slash-qualified name wins outright;
// otherwise the owner is taken from the URI's first path segment and combined
// with the bare name. It returns the empty string when neither form resolves.
func ResolveRepository(name, uri string) string {
	if strings.Contains(name, "/") {
		return name
	}
	if name == "" || uri == "" {
		return ""
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return ""
	}

	return segments[0] + "/" + name
}

// Aggregate runs every collector in order, isolating failures per collector,
// and returns the union of their results with duplicates removed, ascending.
func Aggregate(ctx context.Context, collectors []Collector) []int {
	seen := make(map[int]bool)
	ids := []int{}

	for _, collector := range collectors {
		found, err := collector.Collect(ctx)
		if err != nil {
			logging.Warn("collector failed",
				"collector", collector.Name(),
				"error", err)
			continue
		}

		logging.Debug("collector finished",
			"collector", collector.Name(),
			"work_items", found)

		for _, id := range found {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	sort.Ints(ids)
	return ids
}
