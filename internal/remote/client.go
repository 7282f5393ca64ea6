package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
	"github.com/FlexEdwin/toolfinder-app/pkg/config"
)

// Client talks to the remote catalog service: a PostgREST-style API exposing
// row endpoints under /rest/v1/<table> and stored procedures under
// /rest/v1/rpc/<name>. All durable storage, search ranking and aggregation
// live behind it; this client only shapes requests and converts failures into
// the application error taxonomy.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// serviceError is the error payload the remote service returns
type serviceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Postgres unique-violation and PostgREST missing-function codes
const (
	codeUniqueViolation = "23505"
	codeNoSuchFunction  = "PGRST202"
)

// NewClient creates a new remote catalog client
func NewClient(cfg *config.RemoteConfig, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Logger:     logger,
	}
}

// rpc invokes a stored procedure and decodes its result into out (out may be
// nil for procedures with no interesting return value)
func (c *Client) rpc(ctx context.Context, name string, params interface{}, out interface{}) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", name, err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+name, nil, bytes.NewReader(body), "rpc "+name)
	if err != nil {
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.Transientf("unexpected %s response: %v", name, err)
	}
	return nil
}

// insert creates rows in a table; when out is non-nil the created
// representation is requested and decoded into it
func (c *Client) insert(ctx context.Context, table string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s insert: %w", table, err)
	}

	headers := map[string]string{"Prefer": "return=minimal"}
	if out != nil {
		headers["Prefer"] = "return=representation"
	}

	respBody, err := c.doWithHeaders(ctx, http.MethodPost, "/rest/v1/"+table, nil, bytes.NewReader(body), headers, "insert "+table)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.Transientf("unexpected %s insert response: %v", table, err)
	}
	return nil
}

// update patches rows matching the filters
func (c *Client) update(ctx context.Context, table string, filters url.Values, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s update: %w", table, err)
	}

	headers := map[string]string{"Prefer": "return=minimal"}
	if out != nil {
		headers["Prefer"] = "return=representation"
	}

	respBody, err := c.doWithHeaders(ctx, http.MethodPatch, "/rest/v1/"+table, filters, bytes.NewReader(body), headers, "update "+table)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.Transientf("unexpected %s update response: %v", table, err)
	}
	return nil
}

// deleteRows removes rows matching the filters
func (c *Client) deleteRows(ctx context.Context, table string, filters url.Values) error {
	_, err := c.do(ctx, http.MethodDelete, "/rest/v1/"+table, filters, nil, "delete "+table)
	return err
}

// selectRows reads rows with the given query parameters into out
func (c *Client) selectRows(ctx context.Context, table string, query url.Values, out interface{}) error {
	respBody, err := c.do(ctx, http.MethodGet, "/rest/v1/"+table, query, nil, "select "+table)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.Transientf("unexpected %s select response: %v", table, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, operation string) ([]byte, error) {
	return c.doWithHeaders(ctx, method, path, query, body, nil, operation)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path string, query url.Values, body io.Reader, headers map[string]string, operation string) ([]byte, error) {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		c.Logger.Error("Failed to create request",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, apperr.Transientf("%s: %v", operation, err)
	}

	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error("Remote call failed",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, apperr.Transientf("%s: %v", operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Error("Failed to read remote response",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, apperr.Transientf("%s: %v", operation, err)
	}

	c.Logger.Debug("Remote call completed",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 400 {
		return nil, c.mapError(operation, resp.StatusCode, respBody)
	}

	return respBody, nil
}

// mapError converts a remote failure into the application error taxonomy.
// Presentation must never see a raw transport error, so every non-2xx outcome
// lands in exactly one category here.
func (c *Client) mapError(operation string, status int, body []byte) error {
	var svcErr serviceError
	if err := json.Unmarshal(body, &svcErr); err != nil {
		svcErr.Message = string(body)
	}

	c.Logger.Warn("Remote call returned error status",
		zap.String("operation", operation),
		zap.Int("status", status),
		zap.String("code", svcErr.Code),
		zap.String("message", svcErr.Message))

	switch {
	case status == http.StatusConflict || svcErr.Code == codeUniqueViolation:
		return apperr.Conflictf("%s: %s", operation, svcErr.Message)
	case svcErr.Code == codeNoSuchFunction:
		return fmt.Errorf("%w: %s", apperr.ErrUnavailableOperation, operation)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, operation)
	default:
		return apperr.Transientf("%s: %s", operation, svcErr.Message)
	}
}
