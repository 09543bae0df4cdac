package channel

import (
	"time"
)

// URLPrefix is prepended to the channel id to build the public channel URL.
const URLPrefix = "https://www.youtube.com/channel/"

// ChannelRecord is one row of the 'channel_master' table.
type ChannelRecord struct {
	ChannelID string `json:"channel_id" db:"channel_id"`

	// Managed by the YouTube overlay
	ChannelTitle *string    `json:"channel_title" db:"channel_title"`
	DateCreated  *time.Time `json:"date_created" db:"date_created"`
	URL          *string    `json:"url" db:"url"`

	// Managed by the operator
	ArtistName               *string    `json:"artist_name" db:"artist_name"`
	Status                   *string    `json:"status" db:"status"`
	LabelPub                 *string    `json:"label_pub" db:"label_pub"` // varchar, Y/N semantics
	LMS                      *string    `json:"lms" db:"lms"`             // varchar, Y/N semantics
	LoginAffiliation         *string    `json:"login_affiliation" db:"login_affiliation"`
	Network                  *string    `json:"network" db:"network"`
	AccessLevel              *string    `json:"access_level" db:"access_level"`
	GainCreate               *string    `json:"gain_create" db:"gain_create"`
	DateGained               *time.Time `json:"date_gained" db:"date_gained"`
	OAC                      bool       `json:"oac" db:"oac"`
	Verified                 bool       `json:"verified" db:"verified"`
	VevoID                   *string    `json:"vevo_id" db:"vevo_id"`
	OACRequested             bool       `json:"oac_requested" db:"oac_requested"`
	OACDateRequested         *time.Time `json:"oac_date_requested" db:"oac_date_requested"`
	OACMergeConfirmationDate *time.Time `json:"oac_merge_confirmation_date" db:"oac_merge_confirmation_date"`
	Notes                    *string    `json:"notes" db:"notes"`
	YPPStatus                *string    `json:"ypp_status" db:"ypp_status"`
	AccessLost               bool       `json:"access_lost" db:"access_lost"`
	DateOfLoss               *time.Time `json:"date_of_loss" db:"date_of_loss"`

	// Audit
	UpdatedBy *string    `json:"updated_by" db:"updated_by"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// RecentChannel is a dashboard row.
type RecentChannel struct {
	ChannelID    string    `db:"channel_id"`
	ChannelTitle *string   `db:"channel_title"`
	ArtistName   *string   `db:"artist_name"`
	UpdatedBy    *string   `db:"updated_by"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ComputeURL returns URLPrefix + channelID, or "" for an empty id.
func ComputeURL(channelID string) string {
	if channelID == "" {
		return ""
	}
	return URLPrefix + channelID
}
