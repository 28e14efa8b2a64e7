package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindmate/triage-client/internal/cache"
	"github.com/mindmate/triage-client/internal/models"
)

const (
	casesCacheKey   = "mindmate:cases"
	maxResponseBody = 4 << 20
)

// AnalyzerClient talks to the triage analyzer over JSON/HTTP.
type AnalyzerClient struct {
	baseURL    string
	submitPath string
	casesPath  string
	httpClient *http.Client
	cache      cache.Provider
	casesTTL   time.Duration
}

// NewAnalyzerClient constructs a client targeting the configured analyzer instance.
// A nil cache disables case-list caching.
func NewAnalyzerClient(baseURL, submitPath, casesPath string, timeout time.Duration, cacheProvider cache.Provider, casesTTL time.Duration) *AnalyzerClient {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &AnalyzerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		submitPath: submitPath,
		casesPath:  casesPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cacheProvider,
		casesTTL: casesTTL,
	}
}

// ListCases fetches every recorded submission. No filter or page parameters are
// sent; all derivation happens on the client.
func (c *AnalyzerClient) ListCases(ctx context.Context) ([]models.CaseRecord, error) {
	const op = "list cases"
	if err := c.ready(op); err != nil {
		return nil, err
	}

	if cached, err := c.cache.Get(ctx, casesCacheKey); err == nil {
		var records []models.CaseRecord
		if err := json.Unmarshal(cached, &records); err == nil {
			return records, nil
		}
		_ = c.cache.Del(ctx, casesCacheKey)
	}

	status, body, err := c.do(ctx, http.MethodGet, c.casesURL(), nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &TransportError{Op: op, StatusCode: status, Reason: errorReason(body)}
	}

	var records []models.CaseRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &TransportError{Op: op, StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	if records == nil {
		records = []models.CaseRecord{}
	}

	if c.casesTTL > 0 {
		_ = c.cache.Set(ctx, casesCacheKey, body, c.casesTTL)
	}
	return records, nil
}

// SubmitCase sends one case for triage. A 2xx answer whose status is not
// "success" is returned as *ApplicationError; everything else that goes wrong
// is a *TransportError.
func (c *AnalyzerClient) SubmitCase(ctx context.Context, input models.SubmissionInput) (models.AnalysisResult, error) {
	const op = "submit case"
	if err := c.ready(op); err != nil {
		return models.AnalysisResult{}, err
	}

	status, body, err := c.do(ctx, http.MethodPost, c.submitURL(), input)
	if err != nil {
		return models.AnalysisResult{}, &TransportError{Op: op, Err: err}
	}
	if status < 200 || status > 299 {
		return models.AnalysisResult{}, &TransportError{Op: op, StatusCode: status, Reason: errorReason(body)}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return models.AnalysisResult{}, &TransportError{Op: op, StatusCode: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.Status != models.StatusSuccess {
		return models.AnalysisResult{}, &ApplicationError{Status: result.Status, Message: result.Message}
	}

	// The new submission must show up on the next dashboard load.
	_ = c.cache.Del(ctx, casesCacheKey)
	return result, nil
}

func (c *AnalyzerClient) ready(op string) error {
	if c == nil {
		return &TransportError{Op: op, Err: errors.New("analyzer client not initialised")}
	}
	if c.baseURL == "" {
		return &TransportError{Op: op, Err: errors.New("analyzer base URL not configured")}
	}
	return nil
}

func (c *AnalyzerClient) submitURL() string { return c.resolvePath(c.submitPath) }
func (c *AnalyzerClient) casesURL() string  { return c.resolvePath(c.casesPath) }

func (c *AnalyzerClient) resolvePath(p string) string {
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *AnalyzerClient) do(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal payload: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// errorReason extracts the analyzer's {"error": "..."} text, if any.
func errorReason(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}
