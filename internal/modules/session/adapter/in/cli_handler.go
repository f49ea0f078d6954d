package in

import (
	"context"
	"strings"

	sessiondto "timeanchor/internal/modules/session/dto"
	sessionin "timeanchor/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}

func (h CLIHandler) History(ctx context.Context) (sessiondto.HistoryOutput, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Achievements(ctx context.Context) ([]sessiondto.AchievementOutput, error) {
	return h.usecase.Achievements(ctx)
}

func (h CLIHandler) Leaderboard(ctx context.Context) ([]sessiondto.PeerOutput, error) {
	return h.usecase.Leaderboard(ctx)
}

func (h CLIHandler) SetLimit(ctx context.Context, minutes int) (sessiondto.DashboardOutput, error) {
	return h.usecase.SetDailyLimit(ctx, minutes)
}

func (h CLIHandler) Reset(ctx context.Context) (sessiondto.DashboardOutput, error) {
	return h.usecase.Reset(ctx)
}

// Simulate runs one headless session at the accelerated profile. Empty category keeps the saved one;
// boredom below zero keeps the saved level.
func (h CLIHandler) Simulate(ctx context.Context, category string, autoplay bool, boredom int, intention, resolution string) (sessiondto.SimulateOutput, error) {
	input := sessiondto.SimulateInput{
		Configure:  sessiondto.ConfigureInput{Autoplay: &autoplay},
		Resolution: strings.ToLower(strings.TrimSpace(resolution)),
	}
	if category = strings.ToLower(strings.TrimSpace(category)); category != "" {
		input.Configure.Category = &category
	}
	if boredom >= 0 {
		input.Configure.Boredom = &boredom
	}
	if intention != "" {
		input.Configure.Intention = &intention
	}
	if _, err := h.usecase.SetAccelerated(ctx, true); err != nil {
		return sessiondto.SimulateOutput{}, err
	}
	return h.usecase.Simulate(ctx, input)
}
