package usecase

import (
	"context"
	"fmt"
	"math"

	"timeanchor/internal/modules/session/domain"
	sessiondto "timeanchor/internal/modules/session/dto"
	sessionin "timeanchor/internal/modules/session/port/in"
	"timeanchor/internal/modules/session/service"
	apperrors "timeanchor/internal/platform/errors"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Dashboard(_ context.Context) (sessiondto.DashboardOutput, error) {
	return dashboard(i.svc.View()), nil
}

func (i *Interactor) Start(ctx context.Context) (sessiondto.SessionOutput, error) {
	if err := i.svc.StartSession(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return session(i.svc.View().State.Session), nil
}

func (i *Interactor) Stop(ctx context.Context) (sessiondto.SessionOutput, error) {
	if err := i.svc.StopSession(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return session(i.svc.View().State.Session), nil
}

func (i *Interactor) Configure(ctx context.Context, input sessiondto.ConfigureInput) (sessiondto.SessionOutput, error) {
	if input.Category != nil {
		if err := i.svc.SetCategory(ctx, domain.Category(*input.Category)); err != nil {
			return sessiondto.SessionOutput{}, err
		}
	}
	if input.Boredom != nil {
		if err := i.svc.SetBoredom(ctx, *input.Boredom); err != nil {
			return sessiondto.SessionOutput{}, err
		}
	}
	if input.Autoplay != nil {
		i.svc.SetAutoplay(ctx, *input.Autoplay)
	}
	if input.Intention != nil {
		i.svc.SetIntention(*input.Intention)
	}
	return session(i.svc.View().State.Session), nil
}

func (i *Interactor) SetDailyLimit(ctx context.Context, minutes int) (sessiondto.DashboardOutput, error) {
	if err := i.svc.SetDailyLimit(ctx, minutes); err != nil {
		return sessiondto.DashboardOutput{}, err
	}
	return dashboard(i.svc.View()), nil
}

func (i *Interactor) SetAccelerated(_ context.Context, enabled bool) (sessiondto.DashboardOutput, error) {
	i.svc.SetProfile(enabled)
	return dashboard(i.svc.View()), nil
}

func (i *Interactor) Resolve(ctx context.Context, input sessiondto.ResolveInput) (sessiondto.ResolveOutput, error) {
	resolution := domain.Resolution(input.Resolution)
	kind, err := i.svc.Resolve(ctx, resolution)
	if err != nil {
		return sessiondto.ResolveOutput{}, err
	}
	view := i.svc.View()
	return sessiondto.ResolveOutput{
		Kind:             string(kind),
		Resolution:       string(resolution),
		Points:           view.State.Ledger.TotalPoints,
		SnoozesLeft:      view.SnoozesLeft,
		BreakSecondsLeft: view.BreakSecondsLeft,
	}, nil
}

func (i *Interactor) History(_ context.Context) (sessiondto.HistoryOutput, error) {
	view := i.svc.View()
	entries := make([]sessiondto.HistoryEntryOutput, 0, len(view.State.History))
	for _, e := range view.State.History {
		entries = append(entries, sessiondto.HistoryEntryOutput{
			Date:              e.Date,
			ScreenTimeMinutes: e.ScreenTimeMinutes,
			UnderLimit:        e.UnderLimit,
			Today:             e.Date == view.Day,
		})
	}
	return sessiondto.HistoryOutput{
		Entries:           entries,
		DailyLimitMinutes: view.State.DailyLimitMinutes,
		WeeklySavings:     view.WeeklySavings,
		Streak:            view.State.Ledger.CurrentStreak,
	}, nil
}

func (i *Interactor) Achievements(_ context.Context) ([]sessiondto.AchievementOutput, error) {
	ledger := i.svc.View().State.Ledger
	out := make([]sessiondto.AchievementOutput, 0, len(domain.Catalog))
	for _, a := range domain.Catalog {
		out = append(out, sessiondto.AchievementOutput{
			ID:          string(a.ID),
			Icon:        a.Icon,
			Name:        a.Name,
			Description: a.Description,
			Unlocked:    ledger.Has(a.ID),
		})
	}
	return out, nil
}

func (i *Interactor) Leaderboard(_ context.Context) ([]sessiondto.PeerOutput, error) {
	peers := i.svc.View().State.Leaderboard()
	out := make([]sessiondto.PeerOutput, 0, len(peers))
	for idx, p := range peers {
		out = append(out, sessiondto.PeerOutput{
			Rank:         idx + 1,
			Name:         p.Name,
			SavedMinutes: p.SavedMinutes,
			Streak:       p.Streak,
			IsUser:       p.Name == domain.UserPeerName,
		})
	}
	return out, nil
}

func (i *Interactor) Reset(ctx context.Context) (sessiondto.DashboardOutput, error) {
	i.svc.Reset(ctx)
	return dashboard(i.svc.View()), nil
}

// Simulate applies the configuration, starts a session and blocks until a
// nudge is raised, then answers it. Cancelling ctx stops the session.
func (i *Interactor) Simulate(ctx context.Context, input sessiondto.SimulateInput) (sessiondto.SimulateOutput, error) {
	resolution := domain.Resolution(input.Resolution)
	if resolution == "" {
		resolution = domain.ResolveAccept
	}
	if err := resolution.Validate(); err != nil {
		return sessiondto.SimulateOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if _, err := i.Configure(ctx, input.Configure); err != nil {
		return sessiondto.SimulateOutput{}, err
	}
	if err := i.svc.StartSession(ctx); err != nil {
		return sessiondto.SimulateOutput{}, err
	}

	var view service.View
	for {
		view = i.svc.View()
		if view.State.Nudge.Active {
			break
		}
		select {
		case <-ctx.Done():
			_ = i.svc.StopSession(context.WithoutCancel(ctx))
			return sessiondto.SimulateOutput{}, fmt.Errorf("waiting for nudge: %w", ctx.Err())
		case <-i.svc.Changes():
		}
	}

	out := sessiondto.SimulateOutput{
		Nudge:          nudge(view.State.Nudge),
		SessionMinutes: view.State.Session.DurationMinutes,
		TodayMinutes:   view.Today.ScreenTimeMinutes,
	}
	resolved, err := i.Resolve(ctx, sessiondto.ResolveInput{Resolution: string(resolution)})
	if err != nil {
		return out, err
	}
	out.Resolve = resolved
	return out, nil
}

func (i *Interactor) Changes() <-chan struct{} {
	return i.svc.Changes()
}

func dashboard(view service.View) sessiondto.DashboardOutput {
	today := view.Today
	categories := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		categories[i] = string(c)
	}
	return sessiondto.DashboardOutput{
		Day:         view.Day,
		Profile:     view.Profile.Name,
		Accelerated: view.Profile == domain.Accelerated,
		Categories:  categories,
		Session:     session(view.State.Session),
		Risk:        view.Risk,
		RiskSamples: view.RiskSamples,
		Today: sessiondto.DayOutput{
			Date:              today.Date,
			ScreenTimeMinutes: today.ScreenTimeMinutes,
			NudgesAccepted:    today.NudgesAccepted,
			NudgesSnoozed:     today.NudgesSnoozed,
			SnoozesUsed:       today.SnoozesUsed,
		},
		DailyLimitMinutes: view.State.DailyLimitMinutes,
		RemainingMinutes:  math.Max(0, float64(view.State.DailyLimitMinutes)-today.ScreenTimeMinutes),
		Nudge:             nudge(view.State.Nudge),
		BreakSecondsLeft:  view.BreakSecondsLeft,
		Points:            view.State.Ledger.TotalPoints,
		Streak:            view.State.Ledger.CurrentStreak,
		WeeklySavings:     view.WeeklySavings,
		SnoozesLeft:       view.SnoozesLeft,
		Intention:         view.Intention,
	}
}

func session(s domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		Active:          s.Active,
		Category:        string(s.Category),
		Autoplay:        s.Autoplay,
		Boredom:         s.Boredom,
		DurationMinutes: s.DurationMinutes,
		StartedAt:       s.StartedAt,
	}
}

func nudge(n domain.Nudge) sessiondto.NudgeOutput {
	if !n.Active {
		return sessiondto.NudgeOutput{}
	}
	return sessiondto.NudgeOutput{Active: true, Kind: string(n.Kind), Message: n.Kind.Message()}
}
