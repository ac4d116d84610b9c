package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tickerdash/internal/domain"

	"go.uber.org/zap"
)

// State is the presentation state of one dashboard session.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateSuccess
	StateFailed
	StateEmptySymbol
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateEmptySymbol:
		return "empty-symbol"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state ends an action.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed || s == StateEmptySymbol
}

const (
	emptySymbolMessage = "Please enter a stock symbol"
	notFoundFormat     = "Could not retrieve data for %s. Please verify the stock symbol and try again."
	invalidFormat      = "Invalid input for %s: %v"
)

// ErrBusy is returned by Trigger while a fetch is in flight.
var ErrBusy = errors.New("fetch already in progress")

// Fetcher is the data source behind the shell.
type Fetcher interface {
	FetchSeries(ctx context.Context, req domain.FetchRequest) (*domain.PriceSeries, error)
	FetchSnapshot(ctx context.Context, symbol string) (domain.CompanySnapshot, error)
}

// Result is what a successful action fetched.
type Result struct {
	Request  domain.FetchRequest
	Series   *domain.PriceSeries
	Snapshot domain.CompanySnapshot
}

// Shell drives one session through Idle, Fetching and a terminal state.
// Failed and EmptySymbol render like Idle plus a single message.
type Shell struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu       sync.Mutex
	state    State
	inputs   Inputs
	request  domain.FetchRequest
	result   *Result
	message  string
	observer func(from, to State)
}

func NewShell(fetcher Fetcher, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{fetcher: fetcher, logger: logger}
}

// OnTransition registers fn to be called after every state change.
func (s *Shell) OnTransition(fn func(from, to State)) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Trigger starts an action for the given inputs. A blank symbol moves to
// EmptySymbol without touching the fetcher; anything else moves to Fetching.
func (s *Shell) Trigger(in Inputs) (State, error) {
	s.mu.Lock()
	if s.state == StateFetching {
		s.mu.Unlock()
		return StateFetching, ErrBusy
	}
	s.inputs = in
	s.result = nil
	s.message = ""

	req := in.Request()
	if req.Symbol == "" {
		s.message = emptySymbolMessage
		return s.transition(StateEmptySymbol), nil
	}
	s.request = req
	return s.transition(StateFetching), nil
}

// Run performs the fetch for a triggered action and settles on Success or
// Failed. Calling Run outside Fetching returns the current state unchanged.
func (s *Shell) Run(ctx context.Context) State {
	s.mu.Lock()
	if s.state != StateFetching {
		st := s.state
		s.mu.Unlock()
		return st
	}
	req := s.request
	s.mu.Unlock()

	result, err := s.fetch(ctx, req)

	s.mu.Lock()
	if err != nil {
		s.message = failureMessage(req.Symbol, err)
		s.logger.Info("dashboard fetch failed",
			zap.String("symbol", req.Symbol),
			zap.String("range", req.Range.String()),
			zap.Error(err),
		)
		return s.transition(StateFailed)
	}
	s.result = result
	return s.transition(StateSuccess)
}

// Submit is Trigger followed by Run.
func (s *Shell) Submit(ctx context.Context, in Inputs) State {
	st, err := s.Trigger(in)
	if err != nil || st != StateFetching {
		return st
	}
	return s.Run(ctx)
}

// Reset returns to Idle, dropping any result or message.
func (s *Shell) Reset() {
	s.mu.Lock()
	s.result = nil
	s.message = ""
	s.transition(StateIdle)
}

// Snapshot returns the state, inputs, result and message under one lock.
func (s *Shell) Snapshot() (State, Inputs, *Result, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.inputs, s.result, s.message
}

func (s *Shell) fetch(ctx context.Context, req domain.FetchRequest) (*Result, error) {
	series, err := s.fetcher.FetchSeries(ctx, req)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.fetcher.FetchSnapshot(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	return &Result{Request: req, Series: series, Snapshot: snapshot}, nil
}

// transition must be called with mu held; it releases mu before notifying.
func (s *Shell) transition(to State) State {
	from := s.state
	s.state = to
	observer := s.observer
	s.mu.Unlock()
	if observer != nil {
		observer(from, to)
	}
	return to
}

func failureMessage(symbol string, err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return fmt.Sprintf(invalidFormat, symbol, err)
	}
	return fmt.Sprintf(notFoundFormat, symbol)
}
