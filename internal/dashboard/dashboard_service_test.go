package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelmaster/internal/channel"
)

type fakeReader struct {
	count    int
	recent   []channel.RecentChannel
	countErr error
	limit    int
}

func (f *fakeReader) CountChannels(context.Context) (int, error) {
	return f.count, f.countErr
}

func (f *fakeReader) GetRecentlyUpdated(_ context.Context, limit int) ([]channel.RecentChannel, error) {
	f.limit = limit
	return f.recent, nil
}

func TestGetDashboardData(t *testing.T) {
	reader := &fakeReader{
		count:  3,
		recent: []channel.RecentChannel{{ChannelID: "UC1", UpdatedAt: time.Now()}},
	}

	data, err := NewService(reader).GetDashboardData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, data.ChannelCount)
	assert.Len(t, data.RecentChannels, 1)
	assert.Equal(t, recentLimit, reader.limit)
}

func TestGetDashboardDataError(t *testing.T) {
	reader := &fakeReader{countErr: errors.New("db down")}

	_, err := NewService(reader).GetDashboardData(context.Background())
	assert.EqualError(t, err, "db down")
}
