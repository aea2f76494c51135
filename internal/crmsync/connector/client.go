// Package connector provides the HTTP adapter that triggers the external CRM
// sync service. Field mapping and the sync wire protocol live in that service;
// this client only starts a run and records its outcome.
package connector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"staffing_ops_backend/internal/crmsync/repository"
	"staffing_ops_backend/platform/apperr"
	"staffing_ops_backend/platform/config"
	"staffing_ops_backend/platform/logger"
)

// Client triggers full syncs against the external CRM connector service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	repo    repository.Repository
	log     *logger.Logger
}

// NewClient creates a new CRM connector client.
func NewClient(cfg config.CRMConfig, repo repository.Repository, log *logger.Logger) *Client {
	timeout := cfg.GetCRMSyncTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	return &Client{
		baseURL: cfg.GetCRMSyncURL(),
		apiKey:  cfg.GetCRMSyncAPIKey(),
		http:    &http.Client{Timeout: timeout},
		repo:    repo,
		log:     log,
	}
}

// RunFullSync triggers a full external sync and blocks until the connector
// service reports completion. A SyncRun record is written around the call so
// the orchestrator can later answer "has a sync completed today".
func (c *Client) RunFullSync(ctx context.Context) error {
	if c.baseURL == "" {
		return apperr.Unavailable("CRM sync connector not configured")
	}

	runID, err := c.repo.CreateSyncRun(ctx)
	if err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}

	if err := c.post(ctx, "/v1/full-sync"); err != nil {
		if finishErr := c.repo.FinishSyncRun(ctx, runID, repository.StatusFailed); finishErr != nil {
			c.log.DatabaseError("finish sync run", finishErr)
		}
		return err
	}

	if err := c.repo.FinishSyncRun(ctx, runID, repository.StatusCompleted); err != nil {
		return fmt.Errorf("record sync completion: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call sync connector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sync connector returned status %d", resp.StatusCode)
	}
	return nil
}
