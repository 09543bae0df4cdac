package channel

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// channelColumns is the fixed column list written by UpsertChannel
// (everything except updated_at, which the server stamps).
var channelColumns = []string{
	"channel_id",
	"channel_title",
	"date_created",
	"url",
	"artist_name",
	"status",
	"label_pub",
	"lms",
	"login_affiliation",
	"network",
	"access_level",
	"gain_create",
	"date_gained",
	"oac",
	"verified",
	"vevo_id",
	"oac_requested",
	"oac_date_requested",
	"oac_merge_confirmation_date",
	"notes",
	"ypp_status",
	"access_lost",
	"date_of_loss",
	"updated_by",
}

var (
	selectChannelQuery = "SELECT " + strings.Join(channelColumns, ", ") + ", updated_at FROM channel_master WHERE channel_id = ? LIMIT 1"
	upsertChannelQuery = buildUpsertQuery()
)

func buildUpsertQuery() string {
	named := make([]string, 0, len(channelColumns))
	updates := make([]string, 0, len(channelColumns))
	for _, col := range channelColumns {
		named = append(named, ":"+col)
		if col == "channel_id" {
			continue
		}
		updates = append(updates, col+" = new."+col)
	}
	updates = append(updates, "updated_at = CURRENT_TIMESTAMP(6)")

	return "INSERT INTO channel_master (" + strings.Join(channelColumns, ", ") + ", updated_at) " +
		"VALUES (" + strings.Join(named, ", ") + ", CURRENT_TIMESTAMP(6)) AS new " +
		"ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")
}

// Store
type Store struct {
	db *sqlx.DB
}

// NewStore
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// FetchChannel returns the stored row, or (nil, nil) when no row exists.
func (s *Store) FetchChannel(ctx context.Context, channelID string) (*ChannelRecord, error) {
	if channelID == "" {
		return nil, ErrEmptyChannelID
	}

	var record ChannelRecord
	err := s.db.GetContext(ctx, &record, selectChannelQuery, channelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("FetchChannel DB error (ChannelID: %s): %v", channelID, err)
		return nil, classifyReadError(err)
	}
	return &record, nil
}

// UpsertChannel inserts the record or overwrites every non-key column of the
// existing row in one statement. updated_at is always stamped by the server.
func (s *Store) UpsertChannel(ctx context.Context, record *ChannelRecord) error {
	if record == nil || record.ChannelID == "" {
		return ErrEmptyChannelID
	}

	_, err := s.db.NamedExecContext(ctx, upsertChannelQuery, record)
	if err != nil {
		log.Errorf("UpsertChannel DB error (ChannelID: %s): %v", record.ChannelID, err)
		return classifyWriteError(err)
	}
	log.Infof("UpsertChannel stored channel %s", record.ChannelID)
	return nil
}

// CountChannels
func (s *Store) CountChannels(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM channel_master")
	if err != nil {
		log.Errorf("CountChannels DB error: %v", err)
		return 0, classifyReadError(err)
	}
	return count, nil
}

// GetRecentlyUpdated returns the last edited rows, newest first.
func (s *Store) GetRecentlyUpdated(ctx context.Context, limit int) ([]RecentChannel, error) {
	var rows []RecentChannel
	query := `
		SELECT channel_id, channel_title, artist_name, updated_by, updated_at
		FROM channel_master
		ORDER BY updated_at DESC
		LIMIT ?
	`
	err := s.db.SelectContext(ctx, &rows, query, limit)
	if err != nil {
		log.Errorf("GetRecentlyUpdated DB error: %v", err)
		return nil, classifyReadError(err)
	}
	return rows, nil
}
