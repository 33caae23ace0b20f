package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/logger"
)

const defaultMailboxSize = 64

// A Dispatcher accepts Events for a browser session.
type Dispatcher interface {
	Dispatch(ctx context.Context, sid string, ev Event) error
}

var _ Dispatcher = new(Store)

// A Store serializes every change to every session's State.
type Store struct {
	cache   Cacher
	logger  logger.Logger
	mailbox chan envelope
	done    chan struct{}
	once    sync.Once

	// guards subs, nextSub, and closed
	mu      sync.Mutex
	subs    map[string]map[int]chan State
	nextSub int
	closed  bool
}

// envelope carries one request through the mailbox.
// A nil ev reads the State without changing it.
type envelope struct {
	sid   string
	ev    Event
	reply chan result
}

type result struct {
	state State
	err   error
}

// New constructs a Store persisting State through cache.
// Until Run is called, Events queue up.
func New(cache Cacher, opts ...Option) *Store {
	s := &Store{
		cache:   cache,
		logger:  logger.Discard(),
		mailbox: make(chan envelope, defaultMailboxSize),
		done:    make(chan struct{}),
		subs:    make(map[string]map[int]chan State),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run applies Events until ctx is done, after which the Store is closed for good.
// Run blocks, so call it from its own goroutine.
func (s *Store) Run(ctx context.Context) {
	defer s.stop()

	for {
		select {
		case <-ctx.Done():
			return

		case env := <-s.mailbox:
			st, err := s.handle(ctx, env)
			if env.reply != nil {
				env.reply <- result{state: st, err: err}
			}
		}
	}
}

// Dispatch enqueues ev to be applied to the State of the session sid.
//
// Dispatch returns once ev is enqueued, not applied.
// After the Store stops, Dispatch returns ErrClosed.
func (s *Store) Dispatch(ctx context.Context, sid string, ev Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil Event", gatekeeper.ErrNotValid)
	}

	return s.send(ctx, envelope{sid: sid, ev: ev})
}

// DispatchSync applies ev to the State of the session sid
// and returns that State once applied.
func (s *Store) DispatchSync(ctx context.Context, sid string, ev Event) (State, error) {
	if ev == nil {
		return State{}, fmt.Errorf("%w: nil Event", gatekeeper.ErrNotValid)
	}

	return s.roundTrip(ctx, envelope{sid: sid, ev: ev})
}

// Snapshot returns the State of the session sid
// as it stands after every Event dispatched before it.
func (s *Store) Snapshot(ctx context.Context, sid string) (State, error) {
	return s.roundTrip(ctx, envelope{sid: sid})
}

// Subscribe returns a channel receiving the State of the session sid each time an Event is applied to it,
// along with a func ending the subscription.
//
// A subscriber that falls behind misses intermediate States,
// but the next State it receives is always the latest.
// The channel closes when the subscription ends or the Store stops.
func (s *Store) Subscribe(sid string) (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	if s.subs[sid] == nil {
		s.subs[sid] = make(map[int]chan State)
	}
	s.subs[sid][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if _, ok := s.subs[sid][id]; !ok {
				return
			}

			delete(s.subs[sid], id)
			if len(s.subs[sid]) == 0 {
				delete(s.subs, sid)
			}
			close(ch)
		})
	}
}

func (s *Store) send(ctx context.Context, env envelope) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	select {
	case s.mailbox <- env:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) roundTrip(ctx context.Context, env envelope) (State, error) {
	env.reply = make(chan result, 1)
	if err := s.send(ctx, env); err != nil {
		return State{}, err
	}

	select {
	case res := <-env.reply:
		return res.state, res.err
	case <-s.done:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// handle loads the session's State, applies the envelope's Event, and saves the result.
func (s *Store) handle(ctx context.Context, env envelope) (State, error) {
	st, err := s.cache.Load(ctx, env.sid)
	if err != nil && !errors.Is(err, gatekeeper.ErrNotExist) {
		s.logger.Error("failed loading state", &logger.LogContext{SessionID: env.sid, Error: err})
		return State{}, err
	}

	if env.ev == nil {
		return st, nil
	}

	next := env.ev.Apply(st)
	if next.User == nil {
		err = s.cache.Delete(ctx, env.sid)
	} else {
		err = s.cache.Save(ctx, env.sid, next)
	}

	if err != nil && !errors.Is(err, gatekeeper.ErrNotExist) {
		s.logger.Error("failed saving state", &logger.LogContext{
			SessionID: env.sid,
			Error:     err,
			Data:      map[string]any{"event": fmt.Sprintf("%T", env.ev)},
		})
		return st, err
	}

	s.logger.Debug("applied event", &logger.LogContext{
		SessionID: env.sid,
		Data:      map[string]any{"event": fmt.Sprintf("%T", env.ev), "logged_in": next.LoggedIn()},
	})

	s.publish(env.sid, next)
	return next, nil
}

// publish hands st to each subscriber of sid, replacing any State it has yet to receive.
func (s *Store) publish(sid string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs[sid] {
		select {
		case ch <- st:
			continue
		default:
		}

		select {
		case <-ch:
		default:
		}

		select {
		case ch <- st:
		default:
		}
	}
}

func (s *Store) stop() {
	s.once.Do(func() {
		close(s.done)

		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed = true
		for sid, subs := range s.subs {
			for _, ch := range subs {
				close(ch)
			}
			delete(s.subs, sid)
		}
	})
}

// An Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger the Store reports failures to.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMailboxSize sets how many Events may queue up before Dispatch blocks.
func WithMailboxSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.mailbox = make(chan envelope, n)
		}
	}
}
