// Package predict implements the HTTP client for the remote quality-score
// prediction service.
package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"winedash/internal/features"
)

// APIError is an application-level rejection: the service answered, but with
// a non-success status or a body missing the expected field. Transport
// failures (no response at all) are returned as plain wrapped errors so
// callers can tell the two classes apart with errors.As.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("prediction service: %d %s", e.Status, e.Message)
}

// predictionResponse covers both the success and the failure body shape.
// PredictedQuality is a pointer so a success body missing the field is
// distinguishable from a genuine 0 score.
type predictionResponse struct {
	PredictedQuality *float64 `json:"predicted_quality"`
	Error            string   `json:"error,omitempty"`
}

// Client issues prediction requests to a configured endpoint URL.
type Client struct {
	url  string
	rest *resty.Client
}

func New(url string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(10 * time.Second) // default fallback
	}
	return &Client{url: url, rest: r}
}

// URL returns the configured endpoint address.
func (c *Client) URL() string {
	return c.url
}

// Predict POSTs the feature set as JSON and returns the predicted quality
// score. Exactly one attempt is made per call; retrying is the caller's
// decision.
func (c *Client) Predict(ctx context.Context, set features.Set) (float64, error) {
	out := &predictionResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(set).
		SetResult(out).
		SetError(out).
		Post(c.url)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		msg := out.Error
		if msg == "" {
			// Unparsable or empty failure body
			msg = fmt.Sprintf("prediction service error (status %d)", resp.StatusCode())
		}
		return 0, &APIError{Status: resp.StatusCode(), Message: msg}
	}

	if out.PredictedQuality == nil {
		return 0, &APIError{Status: resp.StatusCode(), Message: "response missing predicted_quality"}
	}

	return *out.PredictedQuality, nil
}
