package github

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/danielolaszy/deploytag/internal/config"
)

// TestGitHubDomainToAPIURL tests the logic that converts a domain to an API URL
// This is a unit test focusing just on the URL construction logic
func TestGitHubDomainToAPIURL(t *testing.T) {
	testCases := []struct {
		name           string
		domain         string
		expectedAPIURL string
	}{
		{
			name:           "Default GitHub.com",
			domain:         "github.com",
			expectedAPIURL: "https://api.github.com/",
		},
		{
			name:           "GitHub Enterprise",
			domain:         "github.example.com",
			expectedAPIURL: "https://github.example.com/api/v3/",
		},
		{
			name:           "Empty Domain (should default to github.com)",
			domain:         "",
			expectedAPIURL: "https://api.github.com/",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Get the domain from test case, defaulting to github.com if empty
			domain := tc.domain
			if domain == "" {
				domain = "github.com"
			}

			// Construct API URL based on domain using the same logic as in the client
			var apiURL string
			if domain == "github.com" {
				apiURL = "https://api.github.com/"
			} else {
				apiURL = "https://" + domain + "/api/v3/"
			}

			// Verify URL matches expected
			if apiURL != tc.expectedAPIURL {
				t.Errorf("Expected API URL %s, got %s", tc.expectedAPIURL, apiURL)
			}

			// Also test URL parsing to ensure the URLs are valid
			parsedURL, err := url.Parse(apiURL)
			if err != nil {
				t.Errorf("Failed to parse URL %s: %v", apiURL, err)
			}

			if parsedURL.String() != apiURL {
				t.Errorf("URL parsing changed the URL from %s to %s", apiURL, parsedURL.String())
			}
		})
	}
}

// TestNewClientMissingToken tests that client creation fails fast without a token.
func TestNewClientMissingToken(t *testing.T) {
	cfg := &config.Config{}

	_, err := NewClient(cfg)
	if err == nil {
		t.Fatal("Expected error with missing github token, got nil")
	}
	if !strings.Contains(err.Error(), "github token not found") {
		t.Errorf("Expected 'github token not found' error, got: %v", err)
	}
}

// TestGetPullRequestValidation tests the validation in the GetPullRequest function
func TestGetPullRequestValidation(t *testing.T) {
	// Create a client directly with initialized fields but without API connection
	client := &Client{}

	// Test with invalid repository format
	_, err := client.GetPullRequest(context.Background(), "invalid-repo-format", 42)
	if err == nil {
		t.Error("Expected error with invalid repository format, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid repository format") {
		t.Errorf("Expected 'invalid repository format' error, got: %v", err)
	}
}
