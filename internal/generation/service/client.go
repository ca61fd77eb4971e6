package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/metrically/metrically-backend/internal/generation/domain"
)

// Client handles communication with the KPI generation backend.
type Client struct {
	baseURL        string
	statusClient   *http.Client
	defaultClient  *http.Client
	generateClient *http.Client // generation calls need longer timeouts
}

// NewClient creates a new generation backend client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		statusClient: &http.Client{
			Timeout: StatusTimeout,
		},
		defaultClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		generateClient: &http.Client{
			Timeout: GenerateTimeout,
		},
	}
}

// Status checks whether the generation backend is available. Any
// transport or HTTP failure degrades to {available:false}; callers
// never see an error because availability is advisory.
func (c *Client) Status(ctx context.Context) domain.AIServiceStatus {
	logger := NewLogger(ctx)
	unavailable := domain.AIServiceStatus{Service: "generation", Available: false}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ai/status", nil)
	if err != nil {
		logger.LogError("status", err)
		return unavailable
	}

	resp, err := c.statusClient.Do(req)
	if err != nil {
		logger.LogError("status", err)
		return unavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.LogWarnf("status", "backend returned status %d", resp.StatusCode)
		return unavailable
	}

	var status domain.AIServiceStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		logger.LogError("status", err)
		return unavailable
	}
	return status
}

// GenerateKPISystem asks the backend for a KPI system built from the
// given company attributes. token is the caller's session token,
// forwarded as the bearer credential. format selects structured JSON or
// raw markdown output.
func (c *Client) GenerateKPISystem(ctx context.Context, token string, info domain.CompanyInfo, format string) (*domain.KPISystemResponse, error) {
	logger := NewLogger(ctx)
	start := time.Now()

	if format == "" {
		format = domain.FormatStructured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	u.Path = u.Path + "/ai/generate-kpi"
	q := u.Query()
	q.Set("output_format", format)
	u.RawQuery = q.Encode()

	body, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshal company info: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		logger.LogError("generate_kpi", err)
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.generateClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.LogError("generate_kpi", err)
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.LogWarnf("generate_kpi", "backend returned status %d after %s", resp.StatusCode, duration)
		return nil, fmt.Errorf("generation failed with status %d", resp.StatusCode)
	}

	var out domain.KPISystemResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.LogError("generate_kpi", err)
		return nil, fmt.Errorf("decode response: %w", err)
	}

	logger.LogInfof("generate_kpi", "completed in %s success=%t", duration, out.Success)
	return &out, nil
}

// GenerateSQL asks the backend for a query implementing one metric.
func (c *Client) GenerateSQL(ctx context.Context, token string, req domain.SQLRequest) (*domain.SQLResponse, error) {
	logger := NewLogger(ctx)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ai/generate-sql", bytes.NewReader(body))
	if err != nil {
		logger.LogError("generate_sql", err)
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.defaultClient.Do(httpReq)
	if err != nil {
		logger.LogError("generate_sql", err)
		return nil, fmt.Errorf("sql request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.LogWarnf("generate_sql", "backend returned status %d", resp.StatusCode)
		return nil, fmt.Errorf("sql generation failed with status %d", resp.StatusCode)
	}

	var out domain.SQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
