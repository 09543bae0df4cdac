package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
	log "github.com/sirupsen/logrus"

	"channelmaster/internal/channel"
)

// recentLimit is how many recently edited channels the dashboard lists.
const recentLimit = 10

// DashboardData is passed to the dashboard view.
type DashboardData struct {
	ChannelCount   int
	RecentChannels []channel.RecentChannel
}

// ChannelReader is the read side of *channel.Store used here.
type ChannelReader interface {
	CountChannels(ctx context.Context) (int, error)
	GetRecentlyUpdated(ctx context.Context, limit int) ([]channel.RecentChannel, error)
}

// Service aggregates dashboard data.
type Service struct {
	channelStore ChannelReader
}

// NewService
func NewService(cs ChannelReader) *Service {
	return &Service{channelStore: cs}
}

// GetDashboardData runs both read queries in parallel.
func (s *Service) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	var data DashboardData
	eg, ctx := errgroup.WithContext(ctx)

	// 1. Row count
	eg.Go(func() error {
		count, err := s.channelStore.CountChannels(ctx)
		if err != nil {
			log.Errorf("GetDashboardData: CountChannels failed: %v", err)
			return err
		}
		data.ChannelCount = count
		return nil
	})

	// 2. Recent edits
	eg.Go(func() error {
		recent, err := s.channelStore.GetRecentlyUpdated(ctx, recentLimit)
		if err != nil {
			log.Errorf("GetDashboardData: GetRecentlyUpdated failed: %v", err)
			return err
		}
		data.RecentChannels = recent
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &data, nil
}
