// internal/submit/controller.go
//
// Harmony – submission controller.
//
// Context
//   A Controller owns one mounted form.  A submit gesture validates the values
//   against the form's Schema; a valid bundle is POSTed once to the schema's
//   endpoint and the outcome is mapped to a State.  A 2xx navigates to the
//   schema's success route exactly once.
//
// Concurrency
//   •  mu serialises transitions.  A gesture arriving while Pending is
//      rejected without side effects, so one mounted form never has two
//      requests in flight.
//   •  The request itself runs without mu held.
//   •  After Unmount, a settling request changes nothing: no transition, no
//      observer call, no navigation.
//   •  The Succeeded transition and its navigation happen under one hold of
//      mu, so an Unmount either precedes both or follows both.
//
//------------------------------------------------------------------------------

package submit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/harmony/harcloud/internal/api"
	"github.com/harmony/harcloud/internal/form"
	"github.com/harmony/harcloud/internal/logger"
	"github.com/harmony/harcloud/internal/metrics"
)

// ConnectivityMessage is shown when the backend could not be reached or
// answered with something that is not JSON.
const ConnectivityMessage = "Unable to reach the server. Check your connection and try again."

// defaultFailureMessage is used when a form declares no failure_message.
const defaultFailureMessage = "Submission failed"

// Poster is the slice of *api.Client the controller needs.
type Poster interface {
	PostJSON(ctx context.Context, path string, payload any) (*api.Response, error)
}

// Options configures New.  Schema and Client are required.
type Options struct {
	Schema    *form.Schema
	Client    Poster
	Navigator Navigator
	Observer  Observer
	Logger    *zap.SugaredLogger // nil: taken from the Submit context
}

// Outcome reports what one gesture did.
type Outcome struct {
	State   State             // state after the gesture
	Errors  map[string]string // field errors; nil unless validation failed
	Skipped bool              // rejected because a submission was pending
	Dropped bool              // settled after Unmount; State is unchanged

	err error
}

// Err returns a form.ValidationError when the gesture failed validation and
// nil otherwise.
func (o Outcome) Err() error { return o.err }

type snapshot struct {
	state State
	errs  map[string]string
}

// Controller drives submissions for one mounted form.
type Controller struct {
	schema *form.Schema
	client Poster
	nav    Navigator
	obs    Observer
	log    *zap.SugaredLogger

	mu      sync.Mutex
	mounted bool
	snap    atomic.Pointer[snapshot]
}

// New returns a mounted Controller in Idle.
func New(opts Options) (*Controller, error) {
	if opts.Schema == nil {
		return nil, errors.New("submit: schema is required")
	}
	if opts.Client == nil {
		return nil, errors.New("submit: client is required")
	}
	c := &Controller{
		schema:  opts.Schema,
		client:  opts.Client,
		nav:     opts.Navigator,
		obs:     opts.Observer,
		log:     opts.Logger,
		mounted: true,
	}
	c.snap.Store(&snapshot{state: State{Status: Idle}})
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State { return c.snap.Load().state }

// FieldErrors returns a copy of the field errors from the last gesture, or
// nil when it passed validation.
func (c *Controller) FieldErrors() map[string]string {
	return copyErrors(c.snap.Load().errs)
}

func copyErrors(errs map[string]string) map[string]string {
	if errs == nil {
		return nil
	}
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}

// Unmount detaches the controller.  A request still in flight completes but
// its result is discarded.  Further gestures are ignored.
func (c *Controller) Unmount() {
	c.mu.Lock()
	c.mounted = false
	c.mu.Unlock()
}

// Submit handles one submit gesture.  It blocks until the backend settles
// when a request is made.
func (c *Controller) Submit(ctx context.Context, values form.Values) Outcome {
	log := c.logger(ctx).With("form", c.schema.ID)

	c.mu.Lock()
	cur := c.snap.Load()
	if !c.mounted {
		c.mu.Unlock()
		return Outcome{State: cur.state, Dropped: true}
	}
	if cur.state.Status == Pending {
		c.mu.Unlock()
		metrics.SubmissionsTotal.WithLabelValues(c.schema.ID, metrics.OutcomeSkipped).Inc()
		log.Debugw("submit ignored, request in flight")
		return Outcome{State: cur.state, Skipped: true}
	}

	res := form.Validate(c.schema, values)
	if !res.Valid() {
		c.transitionLocked(State{Status: Idle}, res.Errors)
		c.mu.Unlock()
		metrics.SubmissionsTotal.WithLabelValues(c.schema.ID, metrics.OutcomeInvalid).Inc()
		log.Debugw("submit rejected by validation", "fields", len(res.Errors))
		return Outcome{State: State{Status: Idle}, Errors: copyErrors(res.Errors), err: res.Err()}
	}
	c.transitionLocked(State{Status: Pending}, nil)
	c.mu.Unlock()

	metrics.SubmissionsInFlight.Inc()
	start := time.Now()
	resp, err := c.client.PostJSON(ctx, c.schema.Endpoint, map[string]string(res.Values))
	metrics.SubmissionsInFlight.Dec()
	metrics.SubmissionDuration.WithLabelValues(c.schema.ID).Observe(time.Since(start).Seconds())

	next := c.settle(resp, err)

	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		metrics.SubmissionsTotal.WithLabelValues(c.schema.ID, metrics.OutcomeDropped).Inc()
		log.Infow("submission settled after unmount", "result", next.Status.String())
		return Outcome{State: c.State(), Dropped: true}
	}
	c.transitionLocked(next, nil)
	if next.Status == Succeeded && c.nav != nil && c.schema.SuccessRoute != "" {
		c.nav.Navigate(c.schema.SuccessRoute)
	}
	c.mu.Unlock()

	switch next.Status {
	case Succeeded:
		metrics.SubmissionsTotal.WithLabelValues(c.schema.ID, metrics.OutcomeSucceeded).Inc()
		log.Infow("submission succeeded", "status", resp.Status, "request_id", resp.RequestID,
			"route", c.schema.SuccessRoute)
	default:
		metrics.SubmissionsTotal.WithLabelValues(c.schema.ID, metrics.OutcomeFailed).Inc()
		if err != nil {
			log.Warnw("submission transport error", "err", err)
		} else {
			log.Infow("submission rejected", "status", resp.Status, "request_id", resp.RequestID, "message", next.Message)
		}
	}
	return Outcome{State: next}
}

// settle maps a backend result to the terminal State.
func (c *Controller) settle(resp *api.Response, err error) State {
	if err != nil {
		return State{Status: Failed, Message: ConnectivityMessage}
	}
	if resp.OK() {
		return State{Status: Succeeded, Message: c.schema.SuccessMessage}
	}
	msg, isJSON := api.ErrorMessage(resp.Body)
	switch {
	case msg != "":
		return State{Status: Failed, Message: msg}
	case isJSON:
		if c.schema.FailureMessage != "" {
			return State{Status: Failed, Message: c.schema.FailureMessage}
		}
		return State{Status: Failed, Message: defaultFailureMessage}
	default:
		return State{Status: Failed, Message: ConnectivityMessage}
	}
}

// transitionLocked stores the new snapshot and notifies the observer when
// the state actually changed.  Caller holds mu.
func (c *Controller) transitionLocked(next State, errs map[string]string) {
	prev := c.snap.Load().state
	c.snap.Store(&snapshot{state: next, errs: errs})
	if c.obs != nil && next != prev {
		c.obs(next)
	}
}

func (c *Controller) logger(ctx context.Context) *zap.SugaredLogger {
	if c.log != nil {
		return c.log
	}
	return logger.FromContext(ctx)
}
