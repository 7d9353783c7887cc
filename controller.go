package qtd

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultTimeout bounds a single backend call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Controller owns a query session: the selected knowledge base, the question
// text, and the request state. It sequences submissions so that only the most
// recently issued request may change the visible state.
//
// A Controller is not safe for concurrent use. It is meant to be driven by a
// single event loop which runs Submission.Run elsewhere and feeds the resulting
// Completion back through Complete.
type Controller struct {
	client  QueryClient
	timeout time.Duration

	session Session
	seq     uint64

	// submitted is the trimmed question of the latest submission.
	submitted string

	// cancel aborts the context of the latest in-flight submission.
	cancel context.CancelFunc
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithTimeout sets the bound applied to every backend call.
// A non-positive duration disables the bound.
func WithTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.timeout = d
	}
}

// NewController returns a Controller in the Idle state.
func NewController(client QueryClient, opts ...ControllerOption) *Controller {
	c := &Controller{
		client:  client,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() Session {
	s := c.session
	s.Seq = c.seq
	return s
}

// Select records kb as the selected knowledge base. Unknown values are ignored
// and reported by returning false.
func (c *Controller) Select(kb KnowledgeBase) bool {
	if !kb.Valid() {
		return false
	}
	c.session.KnowledgeBase = kb
	return true
}

// ClearSelection unsets the selected knowledge base.
func (c *Controller) ClearSelection() {
	c.session.KnowledgeBase = ""
}

// SetQuestion records the raw question text.
func (c *Controller) SetQuestion(text string) {
	c.session.Question = text
}

// Validate returns the EINVALID error a submission would be rejected with, or
// nil if the current selection and question form a valid request.
func (c *Controller) Validate() error {
	_, err := NewRequest(c.session.KnowledgeBase, c.session.Question)
	return err
}

// Submit issues a request for the current selection and question.
//
// If the session does not form a valid request, Submit changes nothing and
// returns false. Otherwise it supersedes any in-flight request, moves the
// session to Pending and returns the Submission to run.
func (c *Controller) Submit(ctx context.Context) (*Submission, bool) {
	req, err := NewRequest(c.session.KnowledgeBase, c.session.Question)
	if err != nil {
		return nil, false
	}

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.seq++
	c.submitted = req.Question
	c.session.State = StatePending
	c.session.Answer = nil
	c.session.Err = nil

	return &Submission{
		Seq:     c.seq,
		Request: req,
		ctx:     ctx,
		client:  c.client,
		timeout: c.timeout,
	}, true
}

// Complete applies the result of a submission. Results of superseded
// submissions are discarded and Complete returns false.
//
// On success the session moves to Succeeded and the question is cleared, unless
// it was edited while the request was pending. On failure it moves to Failed
// and the question is kept for a retry.
func (c *Controller) Complete(comp Completion) bool {
	if comp.Seq != c.seq || c.session.State != StatePending {
		return false
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if comp.Err != nil {
		c.session.State = StateFailed
		c.session.Err = comp.Err
		c.session.Answer = nil
		return true
	}
	if comp.Answer == nil {
		c.session.State = StateFailed
		c.session.Err = Errorf(EBACKEND, "backend returned no answer")
		c.session.Answer = nil
		return true
	}

	c.session.State = StateSucceeded
	c.session.Answer = comp.Answer
	c.session.Err = nil
	if strings.TrimSpace(c.session.Question) == c.submitted {
		c.session.Question = ""
	}
	return true
}

// Ask submits the current question and waits for its result. It is meant for
// one-shot callers that have no event loop of their own. The returned error is
// the submission's validation error or the failure stored in the session.
func (c *Controller) Ask(ctx context.Context) (Session, error) {
	sub, ok := c.Submit(ctx)
	if !ok {
		return c.Session(), c.Validate()
	}
	c.Complete(sub.Run())

	s := c.Session()
	if s.Err != nil {
		return s, s.Err
	}
	return s, nil
}

// Close aborts the in-flight request, if any.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Submission is a single issued request. Run performs the backend call and may
// be invoked from any goroutine, at most once.
type Submission struct {
	Seq     uint64
	Request Request

	ctx     context.Context
	client  QueryClient
	timeout time.Duration
}

// Run calls the backend and returns the outcome tagged with the submission's
// sequence number.
func (s *Submission) Run() Completion {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.client.Ask(ctx, s.Request)
	if err != nil {
		return Completion{Seq: s.Seq, Err: classify(ctx, err, s.timeout)}
	}
	return Completion{Seq: s.Seq, Answer: answer}
}

// Completion is the outcome of a Submission.
type Completion struct {
	Seq    uint64
	Answer *Answer
	Err    *Error
}

// classify maps a client error onto the failure taxonomy. Application errors
// pass through unchanged.
func classify(ctx context.Context, err error, timeout time.Duration) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Errorf(ETIMEOUT, "no answer within %s", timeout)
	case errors.Is(err, context.Canceled), ctx.Err() != nil:
		return Errorf(ECANCELED, "request canceled")
	default:
		return Errorf(ETRANSPORT, "could not reach the backend: %v", err)
	}
}
