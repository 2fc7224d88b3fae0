package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/logging"
	"github.com/wricardo/roguebot/telemetry"
)

// ErrPresetNotFound is returned when a named preset does not exist.
var ErrPresetNotFound = errors.New("preset not found")

// MaxSessionsPerOwner caps the games one owner keeps open. Starting another
// ends the oldest.
const MaxSessionsPerOwner = 3

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	configs   ConfigManager
	observers []Observer
	tracer    trace.Tracer
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, observers ...Observer) GameService {
	return &gameServiceImpl{
		sessions:  sessions,
		configs:   configs,
		observers: observers,
		tracer:    telemetry.Tracer("service"),
	}
}

// StartGame creates a new session owned by ownerID
func (s *gameServiceImpl) StartGame(ctx context.Context, ownerID, preset string) (*SessionInfo, error) {
	_, span := s.tracer.Start(ctx, "game.start", trace.WithAttributes(
		attribute.String("owner.id", ownerID),
		attribute.String("preset", preset),
	))
	defer span.End()

	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	settings, err := s.loadPreset(preset)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.endOldest(ownerID, MaxSessionsPerOwner-1)

	sess, err := s.sessions.Create("", ownerID, settings.Name, settings)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", sess.ID))

	logging.For("game service").WithFields(logrus.Fields{
		"session": sess.ID,
		"owner":   ownerID,
		"preset":  sess.Preset,
	}).Info("session started")

	info := s.sessionInfo(sess, sess.Game.Preview())
	s.notifyUpdated(sess.ID, info)
	return info, nil
}

// endOldest ends the owner's oldest sessions until at most keep remain
func (s *gameServiceImpl) endOldest(ownerID string, keep int) {
	owned := s.sessions.ListByOwner(ownerID)
	if len(owned) <= keep {
		return
	}
	sortOldestFirst(owned)

	for _, old := range owned[:len(owned)-keep] {
		if err := s.sessions.Delete(old.ID); err != nil {
			continue
		}
		logging.For("game service").WithFields(logrus.Fields{
			"session": old.ID,
			"owner":   ownerID,
		}).Info("session replaced")
		s.notifyEnded(old.ID)
	}
}

func sortOldestFirst(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}

func (s *gameServiceImpl) loadPreset(name string) (*engine.Settings, error) {
	if name == "" {
		return s.configs.GetDefault().Copy(), nil
	}

	settings, err := s.configs.LoadConfig(name)
	if err == nil {
		return settings.Copy(), nil
	}
	if !errors.Is(err, ErrPresetNotFound) {
		return nil, fmt.Errorf("failed to load preset %s: %w", name, err)
	}

	// Tell the caller what does exist
	presets, listErr := s.configs.ListConfigs()
	if listErr != nil || len(presets) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	ids := make([]string, 0, len(presets))
	for _, p := range presets {
		ids = append(ids, p.PresetID)
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrPresetNotFound, name, strings.Join(ids, ", "))
}

// GetSession retrieves session information without consuming the pending message
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, sess.Game.Preview()), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	sortOldestFirst(sessions)

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, sess.Game.Preview()))
	}
	return result, nil
}

// EndSession removes a session. Only its owner may end it.
func (s *gameServiceImpl) EndSession(ctx context.Context, sessionID, ownerID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if sess.OwnerID != ownerID {
		return ErrNotOwner
	}
	if err := s.sessions.Delete(sess.ID); err != nil {
		return err
	}

	logging.For("game service").WithField("session", sess.ID).Info("session ended")
	s.notifyEnded(sess.ID)
	return nil
}

// Move executes a single move for a session and returns the new view
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, ownerID, direction string) (*MoveResult, error) {
	_, span := s.tracer.Start(ctx, "game.move", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("direction", direction),
	))
	defer span.End()

	d, err := engine.ParseDirection(direction)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if sess.OwnerID != ownerID {
		span.SetAttributes(attribute.Bool("move.refused", true))
		return nil, ErrNotOwner
	}

	outcome, view, err := sess.Game.MoveAndRender(d)
	if err != nil {
		// A missing tile means the generator left a hole: a defect, not input
		logging.For("game service").WithError(err).WithField("session", sess.ID).Error("move failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("move %s in session %s: %w", d, sess.ID, err)
	}

	if at, err := s.sessions.Touch(sess.ID); err != nil {
		logging.For("game service").WithError(err).WithField("session", sess.ID).Warn("failed to update last access")
	} else {
		sess.LastAccessedAt = at
	}

	span.SetAttributes(
		attribute.Bool("move.moved", outcome.Moved),
		attribute.Bool("move.crossed", outcome.Crossed),
		attribute.String("move.tile", outcome.Tile),
	)

	info := s.sessionInfo(sess, view)
	s.notifyUpdated(sess.ID, info)

	return &MoveResult{
		Direction:  d.String(),
		Moved:      outcome.Moved,
		CrossedMap: outcome.Crossed,
		Tile:       outcome.Tile,
		Message:    outcome.Message,
		View:       view,
		Session:    info,
	}, nil
}

// ListPresets returns the presets StartGame accepts
func (s *gameServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.configs.ListConfigs()
}

func (s *gameServiceImpl) sessionInfo(sess *Session, view string) *SessionInfo {
	stats := sess.Game.Stats()
	return &SessionInfo{
		ID:             sess.ID,
		OwnerID:        sess.OwnerID,
		Preset:         sess.Preset,
		Title:          sess.Game.Title(),
		View:           view,
		Map:            stats.Map,
		Position:       stats.Position,
		Counters:       stats.Counters,
		MapsVisited:    stats.MapsVisited,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
	}
}

func (s *gameServiceImpl) notifyUpdated(sessionID string, info *SessionInfo) {
	for _, o := range s.observers {
		o.SessionUpdated(sessionID, info)
	}
}

func (s *gameServiceImpl) notifyEnded(sessionID string) {
	for _, o := range s.observers {
		o.SessionEnded(sessionID)
	}
}
