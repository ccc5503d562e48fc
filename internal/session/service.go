package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mahjong-seisan/internal/settlement"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSeat     = errors.New("invalid seat")
)

const DefaultTTL = 24 * time.Hour

type Service interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	SetPlayerName(ctx context.Context, id string, seat int, name string) (*Session, error)
	SetPlayerScore(ctx context.Context, id string, seat int, raw string) (*Session, error)
	UpdatePlayers(ctx context.Context, id string, seats [settlement.PlayerCount]SeatInput) (*Session, error)
	UpdateSettings(ctx context.Context, id string, settings settlement.Settings) (*Session, error)
	SelectUmaPreset(ctx context.Context, id string, presetID string) (*Session, error)
	ToggleSettings(ctx context.Context, id string) (*Session, error)
	Calculate(ctx context.Context, id string) (*Session, error)
	Reset(ctx context.Context, id string) (*Session, error)
	PurgeExpired(ctx context.Context) (int, error)
	Subscribe(id string) (<-chan Event, func())
}

// Options configures a session service
type Options struct {
	Players  [settlement.PlayerCount]settlement.Player
	Settings settlement.Settings
	TTL      time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// DefaultOptions returns the stock table: four players at 25000, 10-30 uma
func DefaultOptions() Options {
	return Options{
		Players:  settlement.DefaultPlayers(),
		Settings: settlement.DefaultSettings(),
		TTL:      DefaultTTL,
		Logger:   slog.Default(),
		Now:      time.Now,
	}
}

type sessionService struct {
	store    Store
	players  [settlement.PlayerCount]settlement.Player
	settings settlement.Settings
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// mu serialises read-modify-write cycles against the store
	mu  sync.Mutex
	hub *hub
}

func NewService(store Store, opts Options) Service {
	defaults := DefaultOptions()
	if opts.TTL <= 0 {
		opts.TTL = defaults.TTL
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	if opts.Settings == (settlement.Settings{}) {
		opts.Settings = defaults.Settings
	}
	// The stock table always starts at the configured starting points
	if opts.Players == ([settlement.PlayerCount]settlement.Player{}) || opts.Players == defaults.Players {
		opts.Players = defaults.Players
		for i := range opts.Players {
			opts.Players[i].Score = opts.Settings.StartingPoints
		}
	}

	return &sessionService{
		store:    store,
		players:  opts.Players,
		settings: opts.Settings.Normalize(),
		ttl:      opts.TTL,
		logger:   opts.Logger,
		now:      opts.Now,
		hub:      newHub(),
	}
}

func (s *sessionService) Create(ctx context.Context) (*Session, error) {
	now := s.now()
	session := &Session{
		ID:        uuid.New().String(),
		Players:   s.players,
		Settings:  s.settings,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.DebugContext(ctx, "session created", slog.String("session_id", session.ID))
	s.emitEvent(EventTypeCreated, session)

	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.UpdatedAt.Add(s.ttl).Before(s.now()) {
		if err := s.store.Delete(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "failed to delete expired session",
				slog.String("session_id", id), slog.Any("error", err))
		}
		return nil, ErrSessionNotFound
	}

	// Sessions written before the preset existed carry no preset id
	session.Settings = session.Settings.Normalize()

	return session, nil
}

func (s *sessionService) SetPlayerName(ctx context.Context, id string, seat int, name string) (*Session, error) {
	if err := checkSeat(seat); err != nil {
		return nil, err
	}
	return s.update(ctx, id, EventTypePlayersChanged, func(session *Session) error {
		session.Players[seat].Name = name
		return nil
	})
}

func (s *sessionService) SetPlayerScore(ctx context.Context, id string, seat int, raw string) (*Session, error) {
	if err := checkSeat(seat); err != nil {
		return nil, err
	}
	return s.update(ctx, id, EventTypePlayersChanged, func(session *Session) error {
		session.Players[seat].Score = settlement.ParseScore(raw)
		return nil
	})
}

func (s *sessionService) UpdatePlayers(ctx context.Context, id string, seats [settlement.PlayerCount]SeatInput) (*Session, error) {
	return s.update(ctx, id, EventTypePlayersChanged, func(session *Session) error {
		for i, in := range seats {
			session.Players[i] = settlement.Player{
				Name:  in.Name,
				Score: settlement.ParseScore(in.Score),
			}
		}
		return nil
	})
}

func (s *sessionService) UpdateSettings(ctx context.Context, id string, settings settlement.Settings) (*Session, error) {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, id, EventTypeSettingsChanged, func(session *Session) error {
		session.Settings = settings
		return nil
	})
}

// SelectUmaPreset switches the uma to a preset. Unknown ids leave the
// settings untouched.
func (s *sessionService) SelectUmaPreset(ctx context.Context, id string, presetID string) (*Session, error) {
	return s.update(ctx, id, EventTypeSettingsChanged, func(session *Session) error {
		settings, err := session.Settings.WithPreset(presetID)
		if err != nil {
			s.logger.WarnContext(ctx, "ignoring unknown uma preset",
				slog.String("session_id", id), slog.String("preset", presetID))
			return nil
		}
		session.Settings = settings
		return nil
	})
}

func (s *sessionService) ToggleSettings(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, EventTypeSettingsToggled, func(session *Session) error {
		session.ShowSettings = !session.ShowSettings
		return nil
	})
}

func (s *sessionService) Calculate(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, EventTypeCalculated, func(session *Session) error {
		results := settlement.Calculate(session.Players, session.Settings)
		settlement.LogDebug(ctx, s.logger, results, session.Settings)

		if err := settlement.ValidateSum(results); err != nil {
			s.logger.WarnContext(ctx, "settlement total is not zero, check the entered scores",
				slog.String("session_id", id), slog.Any("error", err))
		} else {
			s.logger.InfoContext(ctx, "settlement total is zero", slog.String("session_id", id))
		}

		session.Results = results
		return nil
	})
}

// Reset puts every seat back to the starting points and clears the results.
// Names are kept.
func (s *sessionService) Reset(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, EventTypeReset, func(session *Session) error {
		for i := range session.Players {
			session.Players[i].Score = session.Settings.StartingPoints
		}
		session.Results = nil
		return nil
	})
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpired(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "purged expired sessions", slog.Int("count", n))
	}
	return n, nil
}

// RunJanitor purges expired sessions every interval until ctx is done
func RunJanitor(ctx context.Context, svc Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PurgeExpired(ctx); err != nil {
				logger.ErrorContext(ctx, "session janitor", slog.Any("error", err))
			}
		}
	}
}

func (s *sessionService) Subscribe(id string) (<-chan Event, func()) {
	return s.hub.subscribe(id)
}

func (s *sessionService) update(ctx context.Context, id string, eventType EventType, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.emitEvent(eventType, session)
	return session, nil
}

func (s *sessionService) emitEvent(eventType EventType, session *Session) {
	s.hub.publish(Event{
		Type:      eventType,
		SessionID: session.ID,
		Timestamp: s.now(),
		Session:   clone(session),
	})
}

func checkSeat(seat int) error {
	if seat < 0 || seat >= settlement.PlayerCount {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	return nil
}
