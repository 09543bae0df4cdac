package channel

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ChannelForm is the editable form state, exactly as the operator sees and
// posts it. Dates travel as YYYY-MM-DD strings, booleans as checkboxes.
type ChannelForm struct {
	ChannelTitle             string `json:"channel_title" form:"channel_title"`
	ArtistName               string `json:"artist_name" form:"artist_name"`
	Status                   string `json:"status" form:"status"`
	LabelPub                 string `json:"label_pub" form:"label_pub"`
	LMS                      string `json:"lms" form:"lms"`
	LoginAffiliation         string `json:"login_affiliation" form:"login_affiliation"`
	Network                  string `json:"network" form:"network"`
	AccessLevel              string `json:"access_level" form:"access_level"`
	GainCreate               string `json:"gain_create" form:"gain_create"`
	DateGained               string `json:"date_gained" form:"date_gained"`
	OAC                      bool   `json:"oac" form:"oac"`
	Verified                 bool   `json:"verified" form:"verified"`
	VevoID                   string `json:"vevo_id" form:"vevo_id"`
	OACRequested             bool   `json:"oac_requested" form:"oac_requested"`
	OACDateRequested         string `json:"oac_date_requested" form:"oac_date_requested"`
	OACMergeConfirmationDate string `json:"oac_merge_confirmation_date" form:"oac_merge_confirmation_date"`
	Notes                    string `json:"notes" form:"notes"`
	YPPStatus                string `json:"ypp_status" form:"ypp_status"`
	AccessLost               bool   `json:"access_lost" form:"access_lost"`
	DateOfLoss               string `json:"date_of_loss" form:"date_of_loss"`
	UpdatedBy                string `json:"updated_by" form:"updated_by"`

	// Read-only, display only. Never read back on save.
	DateCreated string `json:"date_created" form:"-"`
}

// normOpt trims and maps blank text to NULL.
func normOpt(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// formatDate renders a nullable date for <input type="date">.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// parseFormDate reads an optional YYYY-MM-DD value as midnight UTC.
func parseFormDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidDate, field, raw)
	}
	return &t, nil
}
