// Package controller owns the dashboard's feature state and the lifecycle of
// the single outstanding prediction request.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"winedash/internal/features"
	"winedash/internal/predict"
)

// User-facing failure messages. Transport failures get a connectivity hint so
// they are distinguishable from a legitimate server-side rejection.
const (
	transportFailureMessage = "prediction service unreachable; check connectivity and proxy configuration"
)

// ErrRejected is returned when a feature update is discarded by validation.
// The rejection is silent from the dashboard's point of view: state does not
// change and no message is surfaced. The error exists for logging and tests.
var ErrRejected = errors.New("feature update rejected")

// Phase is the lifecycle tag of a prediction outcome.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// MarshalJSON renders the phase as its lowercase name for the dashboard page.
func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Outcome is the tagged state of the current prediction attempt. Quality is
// meaningful only when Phase is Succeeded, Message only when Phase is Failed;
// a new attempt clears both on the transition to Pending.
type Outcome struct {
	Phase   Phase   `json:"phase"`
	Quality float64 `json:"quality"`
	Message string  `json:"message,omitempty"`
}

// Client issues one prediction request. Implemented by predict.Client;
// declared here so tests can substitute a stub.
type Client interface {
	Predict(ctx context.Context, set features.Set) (float64, error)
}

// MetricsInterface defines the metrics methods needed by the controller.
type MetricsInterface interface {
	PredictionsInc()
	FailuresInc()
	TransportErrorsInc()
	DuplicatesInc()
	LatencyObserve(float64)
	QualityObserve(float64)
	RejectionsInc()
}

// Controller holds the feature set and the prediction outcome for one
// dashboard session. All state access is mutex-guarded; the in-flight guard
// is a check-and-set on the outcome phase, so at most one request is ever
// outstanding.
type Controller struct {
	mu      sync.Mutex
	set     features.Set
	outcome Outcome

	client  Client
	metrics MetricsInterface
	notify  func(Outcome)
}

func New(client Client, metrics MetricsInterface) *Controller {
	return &Controller{
		set:     features.Defaults(),
		outcome: Outcome{Phase: Idle},
		client:  client,
		metrics: metrics,
	}
}

// OnChange registers a callback invoked on every outcome transition. Used by
// the web layer to push updates to connected dashboard pages.
func (c *Controller) OnChange(fn func(Outcome)) {
	c.mu.Lock()
	c.notify = fn
	c.mu.Unlock()
}

// Features returns a copy of the current feature set.
func (c *Controller) Features() features.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set
}

// Outcome returns the current prediction outcome.
func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// SetFeature parses raw input for the named continuous feature and commits it
// if it is finite and within bounds. Out-of-range and unparsable input leaves
// the prior value unchanged; the bounded slider widget should never produce
// it, so the rejection is silent. The type selector is excluded from this
// path and only changes through SetType.
func (c *Controller) SetFeature(name, raw string) error {
	if name == features.TypeWhite {
		c.reject(name, raw, errors.New("type selector must use SetType"))
		return ErrRejected
	}

	v, err := features.ParseValue(name, raw)
	if err != nil {
		c.reject(name, raw, err)
		return ErrRejected
	}

	c.mu.Lock()
	c.set.Apply(name, v)
	c.mu.Unlock()
	return nil
}

// SetType sets the wine type selector. Only 0 (red) and 1 (white) are
// accepted; anything else is rejected without a state change.
func (c *Controller) SetType(v int) error {
	if v != features.TypeRedValue && v != features.TypeWhiteValue {
		c.reject(features.TypeWhite, fmt.Sprintf("%d", v), errors.New("type must be 0 or 1"))
		return ErrRejected
	}

	c.mu.Lock()
	c.set.TypeWhite = v
	c.mu.Unlock()
	return nil
}

// Predict issues one prediction request for the current feature set and
// returns the resolved outcome. If a request is already in flight the call is
// ignored and the current Pending outcome is returned without touching the
// in-flight request. Exactly one attempt is made; after a failure the caller
// may simply call Predict again.
func (c *Controller) Predict(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.outcome.Phase == Pending {
		cur := c.outcome
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.DuplicatesInc()
		}
		log.Debug().Msg("predict ignored, request already in flight")
		return cur
	}
	c.outcome = Outcome{Phase: Pending}
	snapshot := c.set
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(Outcome{Phase: Pending})
	}
	if c.metrics != nil {
		c.metrics.PredictionsInc()
	}

	start := time.Now()
	quality, err := c.client.Predict(ctx, snapshot)
	if c.metrics != nil {
		c.metrics.LatencyObserve(time.Since(start).Seconds())
	}

	out := c.resolve(quality, err)

	c.mu.Lock()
	c.outcome = out
	notify = c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(out)
	}
	return out
}

// resolve maps the client result onto a terminal outcome, separating
// application-level rejections from transport failures.
func (c *Controller) resolve(quality float64, err error) Outcome {
	if err == nil {
		if c.metrics != nil {
			c.metrics.QualityObserve(quality)
		}
		log.Info().Float64("quality", quality).Msg("prediction succeeded")
		return Outcome{Phase: Succeeded, Quality: quality}
	}

	var apiErr *predict.APIError
	if errors.As(err, &apiErr) {
		if c.metrics != nil {
			c.metrics.FailuresInc()
		}
		log.Warn().Int("status", apiErr.Status).Str("message", apiErr.Message).Msg("prediction rejected by service")
		return Outcome{Phase: Failed, Message: apiErr.Message}
	}

	if c.metrics != nil {
		c.metrics.TransportErrorsInc()
	}
	log.Error().Err(err).Msg("prediction request never completed")
	return Outcome{Phase: Failed, Message: transportFailureMessage}
}

func (c *Controller) reject(name, raw string, err error) {
	if c.metrics != nil {
		c.metrics.RejectionsInc()
	}
	log.Debug().Str("feature", name).Str("raw", raw).Err(err).Msg("feature update rejected")
}
