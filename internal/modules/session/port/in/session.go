package in

import (
	"context"

	"timeanchor/internal/modules/session/dto"
)

type Usecase interface {
	Dashboard(ctx context.Context) (dto.DashboardOutput, error)
	Start(ctx context.Context) (dto.SessionOutput, error)
	Stop(ctx context.Context) (dto.SessionOutput, error)
	Configure(ctx context.Context, input dto.ConfigureInput) (dto.SessionOutput, error)
	SetDailyLimit(ctx context.Context, minutes int) (dto.DashboardOutput, error)
	SetAccelerated(ctx context.Context, enabled bool) (dto.DashboardOutput, error)
	Resolve(ctx context.Context, input dto.ResolveInput) (dto.ResolveOutput, error)
	History(ctx context.Context) (dto.HistoryOutput, error)
	Achievements(ctx context.Context) ([]dto.AchievementOutput, error)
	Leaderboard(ctx context.Context) ([]dto.PeerOutput, error)
	Reset(ctx context.Context) (dto.DashboardOutput, error)
	Simulate(ctx context.Context, input dto.SimulateInput) (dto.SimulateOutput, error)
	Changes() <-chan struct{}
}
