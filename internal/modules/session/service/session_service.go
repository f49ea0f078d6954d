package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"timeanchor/internal/modules/session/domain"
	sessionout "timeanchor/internal/modules/session/port/out"
	"timeanchor/internal/platform/clock"
	apperrors "timeanchor/internal/platform/errors"
	"timeanchor/internal/platform/id"
	"timeanchor/internal/platform/schedule"
)

// View is a consistent read of everything the engine exposes.
type View struct {
	Day              string
	State            domain.State
	Today            domain.DailyRecord
	Risk             float64
	RiskSamples      []float64
	Profile          domain.Profile
	BreakSecondsLeft int
	Intention        string
	WeeklySavings    int
	SnoozesLeft      int
}

// SessionService owns the engine state. Every mutation happens under mu, so
// scheduled ticks, nudge checks and user intents never interleave.
type SessionService struct {
	clock   clock.Clock
	sched   schedule.Scheduler
	idGen   id.Generator
	store   sessionout.SnapshotStore
	journal sessionout.Journal
	logger  *slog.Logger

	mu        sync.Mutex
	state     domain.State
	profile   domain.Profile
	risk      float64
	samples   domain.RiskSamples
	peakRisk  float64
	sessionID string
	intention string

	// epoch invalidates tick and check callbacks that were already in flight
	// when the session stopped or was rescheduled.
	epoch     uint64
	stopTick  schedule.Cancel
	stopCheck schedule.Cancel

	breakEpoch uint64
	breakLeft  int
	stopBreak  schedule.Cancel

	changes chan struct{}
}

func NewSessionService(clk clock.Clock, sched schedule.Scheduler, idGen id.Generator, store sessionout.SnapshotStore, journal sessionout.Journal, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		clock:   clk,
		sched:   sched,
		idGen:   idGen,
		store:   store,
		journal: journal,
		logger:  logger,
		state:   domain.Default(clk.Now()),
		profile: domain.RealTime,
		changes: make(chan struct{}, 1),
	}
}

// Changes signals after state moves. Signals coalesce, so a reader that
// falls behind sees one pending signal rather than a backlog.
func (s *SessionService) Changes() <-chan struct{} {
	return s.changes
}

// Load restores the last snapshot, falling back to defaults when it is absent
// or unusable. It reports whether a snapshot was restored.
func (s *SessionService) Load(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err == nil {
		err = state.Validate()
	}
	switch {
	case err == nil:
		state.Resume()
		s.state = state
		s.logger.Info("snapshot restored", "points", state.Ledger.TotalPoints, "streak", state.Ledger.CurrentStreak)
		return true
	case errors.Is(err, apperrors.ErrNotFound):
		s.logger.Info("no snapshot, starting from defaults")
	default:
		s.logger.Warn("unusable snapshot, starting from defaults", "error", err)
	}
	s.state = domain.Default(s.clock.Now())
	return false
}

func (s *SessionService) StartSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Session.Active {
		return apperrors.ErrActiveSessionExists
	}
	now := s.clock.Now()
	s.state.Session.Start(now)
	s.state.LogStart(now)
	s.risk = 0
	s.peakRisk = 0
	s.samples.Reset()
	s.sessionID = s.idGen.New()
	s.scheduleLocked()
	s.logger.Info("session started", "session_id", s.sessionID, "category", s.state.Session.Category, "profile", s.profile.Name)
	s.saveLocked(ctx)
	return nil
}

func (s *SessionService) StopSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.finishSessionLocked(domain.EndedByUser)
	if !ok {
		return apperrors.ErrNoActiveSession
	}
	s.recordLocked(ctx, summary)
	s.saveLocked(ctx)
	return nil
}

// Tick advances the open session by one profile step. It does nothing when
// no session is open.
func (s *SessionService) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(ctx)
}

// EvaluateNudges raises a nudge when a trigger rule matches. A pending nudge
// suppresses evaluation entirely.
func (s *SessionService) EvaluateNudges(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluateLocked(ctx)
}

func (s *SessionService) SetCategory(ctx context.Context, category domain.Category) error {
	if err := category.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session.Category = category
	s.saveLocked(ctx)
	return nil
}

func (s *SessionService) SetAutoplay(ctx context.Context, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session.Autoplay = enabled
	s.saveLocked(ctx)
}

func (s *SessionService) SetBoredom(ctx context.Context, level int) error {
	if err := domain.ValidateBoredom(level); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session.Boredom = level
	s.saveLocked(ctx)
	return nil
}

func (s *SessionService) SetDailyLimit(ctx context.Context, minutes int) error {
	if err := domain.ValidateDailyLimit(minutes); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetDailyLimit(s.today(), minutes)
	s.evaluateAchievementsLocked()
	s.saveLocked(ctx)
	return nil
}

// SetProfile switches between real-time and accelerated simulation. An open
// session is rescheduled at the new cadence.
func (s *SessionService) SetProfile(accelerated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := domain.ProfileFor(accelerated)
	if next == s.profile {
		return
	}
	s.profile = next
	if s.state.Session.Active {
		s.scheduleLocked()
	}
	s.logger.Info("profile changed", "profile", next.Name)
	s.notifyLocked()
}

// SetIntention stores the user's stated reason for picking up the phone. It is
// advisory and only ends up in the journal.
func (s *SessionService) SetIntention(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intention = strings.TrimSpace(text)
	s.notifyLocked()
}

// Resolve applies the user's answer to the pending nudge.
func (s *SessionService) Resolve(ctx context.Context, resolution domain.Resolution) (domain.NudgeKind, error) {
	if err := resolution.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.today()
	var (
		kind domain.NudgeKind
		err  error
	)
	switch resolution {
	case domain.ResolveSnooze:
		kind, err = s.state.Snooze(day)
		if err != nil {
			return "", err
		}
	case domain.ResolveAccept, domain.ResolveBreak:
		if !s.state.Nudge.Active {
			return "", apperrors.ErrNoActiveNudge
		}
		reason := domain.EndedByAccept
		if resolution == domain.ResolveBreak {
			reason = domain.EndedByBreak
		}
		summary, ended := s.finishSessionLocked(reason)
		if resolution == domain.ResolveAccept {
			kind, err = s.state.Accept(day)
		} else {
			kind, err = s.state.TakeBreak()
			s.startBreakLocked()
		}
		if err != nil {
			return "", err
		}
		if ended {
			s.recordLocked(ctx, summary)
		}
	}
	s.evaluateAchievementsLocked()
	s.logger.Info("nudge resolved", "kind", kind, "resolution", resolution, "points", s.state.Ledger.TotalPoints)
	s.saveLocked(ctx)
	return kind, nil
}

// Reset wipes the store and starts over from defaults.
func (s *SessionService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if summary, ok := s.finishSessionLocked(domain.EndedByReset); ok {
		s.recordLocked(ctx, summary)
	}
	s.cancelBreakLocked()
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("clear snapshot failed", "error", err)
	}
	s.state = domain.Default(s.clock.Now())
	s.intention = ""
	s.logger.Info("engine reset to defaults")
	s.saveLocked(ctx)
}

// Close stops every periodic activity.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unscheduleLocked()
	s.cancelBreakLocked()
}

func (s *SessionService) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.today()
	return View{
		Day:              day,
		State:            s.state.Clone(),
		Today:            s.state.Today(day),
		Risk:             s.risk,
		RiskSamples:      s.samples.Values(),
		Profile:          s.profile,
		BreakSecondsLeft: s.breakLeft,
		Intention:        s.intention,
		WeeklySavings:    domain.WeeklySavings(s.state.History),
		SnoozesLeft:      s.state.SnoozesLeft(day),
	}
}

func (s *SessionService) today() string {
	return clock.DayKey(s.clock.Now())
}

func (s *SessionService) tickLocked(ctx context.Context) {
	if !s.state.Session.Active {
		return
	}
	step := s.profile.MinutesPerTick
	s.state.Session.DurationMinutes += step
	s.state.Accrue(s.today(), step)

	sess := s.state.Session
	s.risk = domain.Risk(sess.Category, sess.Autoplay, sess.Boredom)
	s.samples.Push(s.risk)
	if s.risk > s.peakRisk {
		s.peakRisk = s.risk
	}
	s.evaluateAchievementsLocked()
	s.saveLocked(ctx)
}

func (s *SessionService) evaluateLocked(ctx context.Context) {
	if !s.state.Session.Active || s.state.Nudge.Active {
		return
	}
	kind, ok := domain.EvaluateTrigger(domain.TriggerInput{
		Risk:              s.risk,
		SessionMinutes:    s.state.Session.DurationMinutes,
		TodayMinutes:      s.state.Today(s.today()).ScreenTimeMinutes,
		DailyLimitMinutes: s.state.DailyLimitMinutes,
		Starts:            s.state.StartLog,
		Now:               s.clock.Now(),
	})
	if !ok {
		return
	}
	s.state.Nudge, _ = s.state.Nudge.Raise(kind)
	s.logger.Info("nudge raised", "kind", kind, "risk", s.risk, "duration_minutes", s.state.Session.DurationMinutes)
	s.saveLocked(ctx)
}

func (s *SessionService) evaluateAchievementsLocked() {
	for _, a := range s.state.EvaluateAchievements() {
		s.logger.Info("achievement unlocked", "achievement", a)
	}
}

func (s *SessionService) scheduleLocked() {
	s.unscheduleLocked()
	epoch := s.epoch
	s.stopTick = s.sched.Every(s.profile.TickInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		s.tickLocked(context.Background())
	})
	s.stopCheck = s.sched.Every(s.profile.CheckInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		s.evaluateLocked(context.Background())
	})
}

func (s *SessionService) unscheduleLocked() {
	s.epoch++
	if s.stopTick != nil {
		s.stopTick()
		s.stopTick = nil
	}
	if s.stopCheck != nil {
		s.stopCheck()
		s.stopCheck = nil
	}
}

// finishSessionLocked stops ticking and resets the session, returning the
// journal summary when a session was actually open.
func (s *SessionService) finishSessionLocked(reason domain.EndReason) (domain.Summary, bool) {
	s.unscheduleLocked()
	sess := s.state.Session
	if !sess.Active {
		return domain.Summary{}, false
	}
	summary := domain.Summary{
		ID:              s.sessionID,
		Category:        sess.Category,
		Autoplay:        sess.Autoplay,
		Boredom:         sess.Boredom,
		EndedAt:         s.clock.Now(),
		DurationMinutes: sess.DurationMinutes,
		PeakRisk:        s.peakRisk,
		EndedBy:         reason,
		Intention:       s.intention,
	}
	if sess.StartedAt != nil {
		summary.StartedAt = *sess.StartedAt
	}
	s.state.Session.Stop()
	s.risk = 0
	s.peakRisk = 0
	s.samples.Reset()
	s.logger.Info("session ended", "session_id", s.sessionID, "reason", reason, "duration_minutes", summary.DurationMinutes)
	return summary, true
}

func (s *SessionService) startBreakLocked() {
	s.cancelBreakLocked()
	s.breakLeft = domain.BreakSeconds
	epoch := s.breakEpoch
	s.stopBreak = s.sched.Every(domain.BreakTickInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.breakEpoch {
			return
		}
		s.breakLeft--
		if s.breakLeft <= 0 {
			s.cancelBreakLocked()
			s.logger.Info("mindful break finished")
		}
		s.notifyLocked()
	})
}

func (s *SessionService) cancelBreakLocked() {
	s.breakEpoch++
	s.breakLeft = 0
	if s.stopBreak != nil {
		s.stopBreak()
		s.stopBreak = nil
	}
}

func (s *SessionService) recordLocked(ctx context.Context, summary domain.Summary) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Record(ctx, summary, s.state.Today(clock.DayKey(summary.EndedAt))); err != nil {
		s.logger.Warn("journal write failed", "session_id", summary.ID, "error", err)
	}
}

// saveLocked hands a copy of the state to the store. Failures are logged and
// never reach the caller.
func (s *SessionService) saveLocked(ctx context.Context) {
	if err := s.store.Save(ctx, s.state.Clone()); err != nil {
		s.logger.Warn("snapshot save failed", "error", err)
	}
	s.notifyLocked()
}

func (s *SessionService) notifyLocked() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
