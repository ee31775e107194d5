// Package azure provides functionality for interacting with the Azure DevOps
// work item tracking API.
package azure

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"

	"github.com/danielolaszy/deploytag/internal/config"
	"github.com/danielolaszy/deploytag/internal/logging"
	"github.com/danielolaszy/deploytag/pkg/models"
)

// Azure DevOps field reference names for the fields this tool reads and writes.
const (
	titleField = "System.Title"
	tagsField  = "System.Tags"
)

// Client handles interactions with the Azure DevOps work item API.
type Client struct {
	client  workitemtracking.Client
	project string
}

// NewClient creates a new Azure DevOps client from the given configuration.
// A personal access token takes precedence over the pipeline's OAuth token.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	org := cfg.AzureDevOps.Organization
	if org == "" {
		return nil, fmt.Errorf("azure devops organization not found in configuration")
	}
	if cfg.AzureDevOps.Project == "" {
		return nil, fmt.Errorf("azure devops project not found in configuration")
	}

	organizationURL := fmt.Sprintf("https://dev.azure.com/%s", org)

	var connection *azuredevops.Connection
	switch {
	case cfg.AzureDevOps.PAT != "":
		connection = azuredevops.NewPatConnection(organizationURL, cfg.AzureDevOps.PAT)
		logging.Debug("azure devops authentication",
			"mode", "pat",
			"token", logging.MaskSensitive(cfg.AzureDevOps.PAT))
	case cfg.AzureDevOps.AccessToken != "":
		connection = &azuredevops.Connection{
			AuthorizationString: "Bearer " + cfg.AzureDevOps.AccessToken,
			BaseUrl:             organizationURL,
		}
		logging.Debug("azure devops authentication",
			"mode", "oauth",
			"token", logging.MaskSensitive(cfg.AzureDevOps.AccessToken))
	default:
		return nil, fmt.Errorf("azure devops credential not found in configuration")
	}

	client, err := workitemtracking.NewClient(ctx, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to create work item tracking client: %w", err)
	}

	return &Client{
		client:  client,
		project: cfg.AzureDevOps.Project,
	}, nil
}

// GetWorkItem retrieves a work item by identifier and converts it to the
// internal model. An absent tag field converts to an empty string.
func (c *Client) GetWorkItem(ctx context.Context, id int) (models.WorkItem, error) {
	item, err := c.client.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{
		Id:      &id,
		Project: &c.project,
	})
	if err != nil {
		return models.WorkItem{}, fmt.Errorf("failed to fetch work item %d: %v", id, err)
	}

	var fields map[string]interface{}
	if item.Fields != nil {
		fields = *item.Fields
	}

	return workItemFromFields(id, fields), nil
}

// UpdateTags replaces the work item's tag field with the given value using a
// JSON-Patch replace operation; no other field is touched.
func (c *Client) UpdateTags(ctx context.Context, id int, tags string) error {
	path := "/fields/" + tagsField
	document := []webapi.JsonPatchOperation{
		{
			Op:    &webapi.OperationValues.Replace,
			Path:  &path,
			Value: tags,
		},
	}

	_, err := c.client.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Id:       &id,
		Project:  &c.project,
		Document: &document,
	})
	if err != nil {
		return fmt.Errorf("failed to update work item %d: %v", id, err)
	}

	logging.Debug("updated work item tags", "id", id, "tags", tags)
	return nil
}

// workItemFromFields maps the raw field dictionary returned by the API into
// the internal model. Missing or non-string fields become empty strings.
func workItemFromFields(id int, fields map[string]interface{}) models.WorkItem {
	item := models.WorkItem{ID: id}

	if title, ok := fields[titleField].(string); ok {
		item.Title = title
	}
	if tags, ok := fields[tagsField].(string); ok {
		item.Tags = tags
	}

	return item
}
