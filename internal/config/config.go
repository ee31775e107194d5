// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	AzureDevOps AzureDevOpsConfig
	GitHub      GitHubConfig
	Pipeline    PipelineConfig
}

// AzureDevOpsConfig holds Azure DevOps specific configuration.
type AzureDevOpsConfig struct {
	// Organization is the Azure DevOps organization name
	Organization string

	// Project is the Azure DevOps project name
	Project string

	// PAT is a personal access token, sent as basic auth
	PAT string

	// AccessToken is the pipeline's OAuth token (System.AccessToken), sent
	// as a bearer token; used when no PAT is configured
	AccessToken string
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Domain string
}

// PipelineConfig holds values supplied by the invoking CI pipeline.
type PipelineConfig struct {
	// Environment is the deployment environment name (e.g. "dev", "qa")
	Environment string

	// PRTitle and PRDescription are set by the pipeline on pull request
	// triggered runs and are blank otherwise
	PRTitle       string
	PRDescription string

	// RepositoryName is the repository name from the pipeline, either
	// "owner/repo" or just "repo" depending on the source provider
	RepositoryName string

	// RepositoryURI is the repository's clone/browse URL from the pipeline
	RepositoryURI string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	// Initialize Viper for environment variables
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("azuredevops.org", "AZURE_DEVOPS_ORG")
	v.BindEnv("azuredevops.project", "AZURE_DEVOPS_PROJECT")
	v.BindEnv("azuredevops.pat", "AZURE_DEVOPS_PAT")
	v.BindEnv("azuredevops.accesstoken", "SYSTEM_ACCESSTOKEN")
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("pipeline.environment", "DEPLOY_ENVIRONMENT")
	v.BindEnv("pipeline.prtitle", "PR_TITLE")
	v.BindEnv("pipeline.prdescription", "PR_DESCRIPTION")
	v.BindEnv("pipeline.repositoryname", "BUILD_REPOSITORY_NAME")
	v.BindEnv("pipeline.repositoryuri", "BUILD_REPOSITORY_URI")

	// Create config structure
	config := &Config{
		AzureDevOps: AzureDevOpsConfig{
			Organization: v.GetString("azuredevops.org"),
			Project:      v.GetString("azuredevops.project"),
			PAT:          v.GetString("azuredevops.pat"),
			AccessToken:  v.GetString("azuredevops.accesstoken"),
		},
		GitHub: GitHubConfig{
			Token:  v.GetString("github.token"),
			Domain: v.GetString("github.domain"),
		},
		Pipeline: PipelineConfig{
			Environment:    v.GetString("pipeline.environment"),
			PRTitle:        v.GetString("pipeline.prtitle"),
			PRDescription:  v.GetString("pipeline.prdescription"),
			RepositoryName: v.GetString("pipeline.repositoryname"),
			RepositoryURI:  v.GetString("pipeline.repositoryuri"),
		},
	}

	return config, nil
}

// Validate ensures that all configuration required for work item tagging is
// provided. The GitHub token is deliberately not required: without it the
// remote pull request lookup is unavailable, which is a degraded mode, not
// an error.
func (c *Config) Validate() error {
	var missingVars []string

	if c.AzureDevOps.Organization == "" {
		missingVars = append(missingVars, "AZURE_DEVOPS_ORG")
	}
	if c.AzureDevOps.Project == "" {
		missingVars = append(missingVars, "AZURE_DEVOPS_PROJECT")
	}
	if c.AzureDevOps.PAT == "" && c.AzureDevOps.AccessToken == "" {
		missingVars = append(missingVars, "AZURE_DEVOPS_PAT or SYSTEM_ACCESSTOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
