package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/deploytag/internal/azure"
	"github.com/danielolaszy/deploytag/internal/collect"
	"github.com/danielolaszy/deploytag/internal/config"
	"github.com/danielolaszy/deploytag/internal/github"
	"github.com/danielolaszy/deploytag/internal/logging"
	"github.com/danielolaszy/deploytag/internal/tagger"
	"github.com/danielolaszy/deploytag/pkg/models"
)

// tagCmd discovers work item references and tags each referenced work item
// with the deployment environment.
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag referenced work items with the deployment environment",
	Long: `Discover work item references and tag each referenced work item.

References of the form AB#123 are collected from three sources:

1. The latest commit message (read from the repository, or supplied with
   --commit-message)
2. The pull request title and description the pipeline supplies on pull
   request triggered runs (PR_TITLE, PR_DESCRIPTION)
3. The remote pull request behind a GitHub merge commit, fetched with the
   configured GITHUB_TOKEN

Each referenced work item gets a DeployedEnv:<ENVIRONMENT> tag appended to its
tag field unless it already carries it. Finding no references is a successful
run; the command exits non-zero only when at least one work item could not be
updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		environment, err := cmd.Flags().GetString("environment")
		if err != nil {
			return err
		}
		repoPath, err := cmd.Flags().GetString("repo-path")
		if err != nil {
			return err
		}
		commitMessage, err := cmd.Flags().GetString("commit-message")
		if err != nil {
			return err
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if environment == "" {
			environment = cfg.Pipeline.Environment
		}
		if environment == "" {
			return fmt.Errorf("environment is required (--environment flag or DEPLOY_ENVIRONMENT)")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		logging.Info("starting work item tagging",
			"organization", cfg.AzureDevOps.Organization,
			"project", cfg.AzureDevOps.Project,
			"environment", environment,
			"dry_run", dryRun)

		message := collect.ResolveCommitMessage(commitMessage, repoPath)

		// The remote pull request lookup is optional: without a GitHub token
		// (or with a rejected one) that collector degrades to an empty result.
		var fetcher collect.PullRequestFetcher
		if cfg.GitHub.Token != "" {
			ghClient, err := github.NewClient(cfg)
			if err != nil {
				logging.Warn("github client unavailable, remote pull request lookup disabled",
					"error", err)
			} else {
				fetcher = ghClient
			}
		}

		collectors := []collect.Collector{
			&collect.CommitCollector{Message: message},
			&collect.PRMetadataCollector{
				Title:       cfg.Pipeline.PRTitle,
				Description: cfg.Pipeline.PRDescription,
			},
			&collect.RemotePRCollector{
				Message:        message,
				RepositoryName: cfg.Pipeline.RepositoryName,
				RepositoryURI:  cfg.Pipeline.RepositoryURI,
				Fetcher:        fetcher,
			},
		}

		ids := collect.Aggregate(ctx, collectors)
		if len(ids) == 0 {
			logging.Info("no work item references found, nothing to do")
			return nil
		}

		logging.Info("found work item references", "count", len(ids), "work_items", ids)

		// Connect to the work item store only once there is something to tag.
		store, err := azure.NewClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize azure devops client: %v", err)
		}

		tg := tagger.New(store, environment, dryRun)
		summary := tg.Apply(ctx, ids)

		reportSummary(summary, tg.Tag())
		return summaryError(summary)
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.Flags().StringP("environment", "e", "", "deployment environment name (e.g. 'dev', 'qa', 'prod')")
	tagCmd.Flags().String("repo-path", ".", "path inside the git repository to read the latest commit from")
	tagCmd.Flags().String("commit-message", "", "commit message to scan instead of reading git history")
	tagCmd.Flags().Bool("dry-run", false, "decide what would be tagged without updating any work item")
}

// reportSummary logs the batch totals and surfaces each failure as an Azure
// Pipelines warning marker. It always runs, whatever the outcome mix.
func reportSummary(summary models.TagSummary, tag string) {
	logging.Info("work item tagging complete",
		"tag", tag,
		"total", summary.Total,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	for _, msg := range summary.Failures() {
		logging.VSOWarning(msg)
	}
	if summary.Failed > 0 {
		logging.VSOWarning(fmt.Sprintf("failed to tag %d of %d work items with %s",
			summary.Failed, summary.Total, tag))
	}
}

// summaryError maps the summary onto the command result: an error (and
// therefore a non-zero exit) if and only if at least one work item failed.
func summaryError(summary models.TagSummary) error {
	if summary.Failed > 0 {
		return fmt.Errorf("failed to update %d of %d work items", summary.Failed, summary.Total)
	}
	return nil
}
