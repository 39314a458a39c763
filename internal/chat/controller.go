// Package chat implements the chat panel controller: it renders turns through
// a View, keeps the rolling history and performs one exchange per submission.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogo/nearbychat/internal/api"
	apierrors "github.com/diogo/nearbychat/internal/errors"
	"github.com/diogo/nearbychat/internal/history"
	"github.com/diogo/nearbychat/internal/models"
)

// View is the rendering capability the controller drives. Implementations
// scroll to the latest content after every render.
type View interface {
	RenderUserTurn(text string)
	// RenderAssistantTurn renders a reply; results may be empty, in which case
	// no card grid is drawn. Error messages are rendered through it as well.
	RenderAssistantTurn(text string, results []models.ResultCard)
	ShowLoading()
	HideLoading()
	ClearInput()
}

// State is the controller's coarse state
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return "idle"
	}
}

// OutcomeKind classifies how an exchange ended
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeServerError
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeServerError:
		return "server_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "success"
	}
}

// Exchange is one submitted query awaiting its reply
type Exchange struct {
	Query   string
	Request models.AIRequest
}

// Outcome is the result of sending an exchange
type Outcome struct {
	Kind     OutcomeKind
	Response *models.AIResponse
	Err      error
}

// Message returns the text shown for a failed outcome, or "" on success
func (o Outcome) Message() string {
	if o.Kind == OutcomeSuccess {
		return ""
	}
	return apierrors.UserMessage(o.Err)
}

// Controller coordinates the view, the history buffer and the client
type Controller struct {
	view    View
	client  api.ClientInterface
	history *history.Buffer
	reqCtx  models.RequestContext
	logger  zerolog.Logger

	mu      sync.Mutex
	pending int
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithHistory replaces the default history buffer
func WithHistory(buf *history.Buffer) Option {
	return func(c *Controller) {
		c.history = buf
	}
}

// NewController creates a controller. reqCtx is sent unchanged with every
// request.
func NewController(view View, client api.ClientInterface, reqCtx models.RequestContext, opts ...Option) *Controller {
	c := &Controller{
		view:    view,
		client:  client,
		history: history.NewBuffer(),
		reqCtx:  reqCtx,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// History returns the controller's history buffer
func (c *Controller) History() *history.Buffer {
	return c.history
}

// RequestContext returns the static request fields
func (c *Controller) RequestContext() models.RequestContext {
	return c.reqCtx
}

// State reports whether any exchange is outstanding
func (c *Controller) State() State {
	if c.Pending() > 0 {
		return StateAwaitingResponse
	}
	return StateIdle
}

// Pending returns the number of exchanges begun but not finished. Overlapping
// submissions are not rejected here; callers that want a single in-flight
// request check this first.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// RenderTurn renders a turn without touching history
func (c *Controller) RenderTurn(text string, fromAssistant bool, results []models.ResultCard) {
	if fromAssistant {
		c.view.RenderAssistantTurn(text, results)
		return
	}
	c.view.RenderUserTurn(text)
}

// Begin starts an exchange for input. Whitespace-only input is a no-op and
// returns false. Otherwise the user turn is rendered immediately, the input
// is cleared, the loading indicator is shown and the request is built from
// the most recent history.
func (c *Controller) Begin(input string, liveMode bool) (*Exchange, bool) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, false
	}

	c.RenderTurn(text, false, nil)
	c.view.ClearInput()
	c.view.ShowLoading()

	c.mu.Lock()
	c.pending++
	c.mu.Unlock()

	recent := c.history.Recent(history.RequestWindow)
	ex := &Exchange{
		Query:   text,
		Request: models.NewAIRequest(text, recent, liveMode, c.reqCtx),
	}

	c.logger.Debug().
		Int("history", len(recent)).
		Bool("live_mode", liveMode).
		Msg("exchange started")

	return ex, true
}

// Send performs the network call for ex. It touches neither the view nor
// the history, so it may run off the UI goroutine.
func (c *Controller) Send(ctx context.Context, ex *Exchange) Outcome {
	resp, err := c.client.Ask(ctx, ex.Request)
	switch {
	case err == nil && resp == nil:
		return Outcome{
			Kind: OutcomeTransportError,
			Err:  apierrors.NewTransportError("decode response", c.client.Endpoint(), errors.New("empty response")),
		}
	case err == nil:
		return Outcome{Kind: OutcomeSuccess, Response: resp}
	case apierrors.IsServerError(err):
		return Outcome{Kind: OutcomeServerError, Err: err}
	default:
		return Outcome{Kind: OutcomeTransportError, Err: err}
	}
}

// Finish applies the outcome of ex: the loading indicator is removed first,
// then the reply or the error is rendered. Only successful exchanges are
// recorded in history.
func (c *Controller) Finish(ex *Exchange, out Outcome) {
	c.view.HideLoading()

	c.mu.Lock()
	if c.pending > 0 {
		c.pending--
	}
	c.mu.Unlock()

	if out.Kind != OutcomeSuccess {
		c.logger.Warn().Err(out.Err).Str("outcome", out.Kind.String()).Msg("exchange finished")
		c.RenderTurn(out.Message(), true, nil)
		return
	}

	c.logger.Debug().
		Str("outcome", out.Kind.String()).
		Int("results", len(out.Response.Results)).
		Msg("exchange finished")
	c.RenderTurn(out.Response.AIResponse, true, out.Response.Results)
	c.history.Append(
		models.UserTurn(ex.Query),
		models.AITurn(out.Response.AIResponse),
	)
}

// Submit runs Begin, Send and Finish in sequence. It returns the outcome and
// false when the input was blank.
func (c *Controller) Submit(ctx context.Context, input string, liveMode bool) (Outcome, bool) {
	ex, ok := c.Begin(input, liveMode)
	if !ok {
		return Outcome{}, false
	}
	out := c.Send(ctx, ex)
	c.Finish(ex, out)
	return out, true
}
