package channel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelmaster/internal/youtube"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDisplayDefaultsTitlePrecedence(t *testing.T) {
	stored := &ChannelRecord{ChannelID: "UC1", ChannelTitle: strPtr("Stored Title")}

	form := DisplayDefaults(stored, &youtube.ChannelInfo{Title: strPtr("Fetched Title")})
	assert.Equal(t, "Fetched Title", form.ChannelTitle)

	form = DisplayDefaults(stored, &youtube.ChannelInfo{})
	assert.Equal(t, "Stored Title", form.ChannelTitle)

	form = DisplayDefaults(stored, &youtube.ChannelInfo{Title: strPtr("")})
	assert.Equal(t, "Stored Title", form.ChannelTitle)

	form = DisplayDefaults(stored, nil)
	assert.Equal(t, "Stored Title", form.ChannelTitle)

	form = DisplayDefaults(nil, nil)
	assert.Equal(t, "", form.ChannelTitle)
}

func TestDisplayDefaultsDateCreatedPrecedence(t *testing.T) {
	stored := &ChannelRecord{ChannelID: "UC1", DateCreated: datePtr(2020, 1, 1)}

	form := DisplayDefaults(stored, &youtube.ChannelInfo{DateCreated: datePtr(2012, 3, 1)})
	assert.Equal(t, "2012-03-01", form.DateCreated)

	form = DisplayDefaults(stored, nil)
	assert.Equal(t, "2020-01-01", form.DateCreated)

	form = DisplayDefaults(nil, nil)
	assert.Equal(t, "", form.DateCreated)
}

func TestDisplayDefaultsNormalizesStoredValues(t *testing.T) {
	stored := &ChannelRecord{
		ChannelID:        "UC1",
		ArtistName:       strPtr("Artist"),
		Status:           strPtr("Public"),
		LabelPub:         strPtr("yes"),
		LMS:              strPtr("maybe"),
		LoginAffiliation: strPtr("Not A Label"),
		AccessLevel:      strPtr("Owner"),
		DateGained:       datePtr(2021, 6, 30),
		OAC:              true,
		UpdatedBy:        strPtr("Lysa"),
	}

	form := DisplayDefaults(stored, nil)
	assert.Equal(t, "Artist", form.ArtistName)
	assert.Equal(t, "Public", form.Status)
	assert.Equal(t, "Y", form.LabelPub)
	assert.Equal(t, "", form.LMS)
	assert.Equal(t, "", form.LoginAffiliation)
	assert.Equal(t, "Owner", form.AccessLevel)
	assert.Equal(t, "2021-06-30", form.DateGained)
	assert.True(t, form.OAC)
	assert.False(t, form.Verified)
	assert.Empty(t, form.UpdatedBy, "updated_by comes from the signed-in operator, not the stored row")
}

func TestReconcileDropsStoredDateCreatedWithoutFetch(t *testing.T) {
	stored := &ChannelRecord{ChannelID: "UC1", DateCreated: datePtr(2020, 1, 1)}

	record, err := Reconcile(ReconcileInput{
		ChannelID: "UC1",
		Stored:    stored,
		Fetched:   nil,
		Form:      ChannelForm{},
		Policy:    DateCreatedFromFetch,
	})
	require.NoError(t, err)
	assert.Nil(t, record.DateCreated, "default policy persists only a fetched date_created")

	// a refresh that returned no date behaves the same
	record, err = Reconcile(ReconcileInput{
		ChannelID: "UC1",
		Stored:    stored,
		Fetched:   &youtube.ChannelInfo{},
	})
	require.NoError(t, err)
	assert.Nil(t, record.DateCreated)
}

func TestReconcileKeepStoredPolicy(t *testing.T) {
	stored := &ChannelRecord{ChannelID: "UC1", DateCreated: datePtr(2020, 1, 1)}

	record, err := Reconcile(ReconcileInput{
		ChannelID: "UC1",
		Stored:    stored,
		Policy:    DateCreatedKeepStored,
	})
	require.NoError(t, err)
	require.NotNil(t, record.DateCreated)
	assert.Equal(t, "2020-01-01", record.DateCreated.Format(dateLayout))

	// a fetched date still wins
	record, err = Reconcile(ReconcileInput{
		ChannelID: "UC1",
		Stored:    stored,
		Fetched:   &youtube.ChannelInfo{DateCreated: datePtr(2012, 3, 1)},
		Policy:    DateCreatedKeepStored,
	})
	require.NoError(t, err)
	assert.Equal(t, "2012-03-01", record.DateCreated.Format(dateLayout))

	// the stored record is not aliased
	record.DateCreated = nil
	assert.NotNil(t, stored.DateCreated)
}

func TestReconcileTakesTitleFromForm(t *testing.T) {
	record, err := Reconcile(ReconcileInput{
		ChannelID: "UC1",
		Stored:    &ChannelRecord{ChannelID: "UC1", ChannelTitle: strPtr("Stored")},
		Fetched:   &youtube.ChannelInfo{Title: strPtr("Fetched")},
		Form:      ChannelForm{ChannelTitle: "  Operator Edit  "},
	})
	require.NoError(t, err)
	require.NotNil(t, record.ChannelTitle)
	assert.Equal(t, "Operator Edit", *record.ChannelTitle)

	record, err = Reconcile(ReconcileInput{
		ChannelID: "UC1",
		Fetched:   &youtube.ChannelInfo{Title: strPtr("Fetched")},
		Form:      ChannelForm{ChannelTitle: "   "},
	})
	require.NoError(t, err)
	assert.Nil(t, record.ChannelTitle)
}

func TestReconcileOverwritesOperatorFields(t *testing.T) {
	stored := &ChannelRecord{
		ChannelID:  "UC1",
		ArtistName: strPtr("Old Artist"),
		Network:    strPtr("Old Network"),
		Status:     strPtr("Deleted"),
		OAC:        true,
		AccessLost: true,
		DateOfLoss: datePtr(2022, 2, 2),
		Notes:      strPtr("old notes"),
	}

	record, err := Reconcile(ReconcileInput{
		ChannelID: " UC1 ",
		Stored:    stored,
		Form: ChannelForm{
			ArtistName: "New Artist",
			Network:    "  ",
			Status:     "Public",
			LabelPub:   "N",
			GainCreate: "Create",
			DateGained: "2023-04-05",
			Verified:   true,
			UpdatedBy:  "  Lysa ",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "UC1", record.ChannelID)
	assert.Equal(t, "New Artist", *record.ArtistName)
	assert.Nil(t, record.Network)
	assert.Equal(t, "Public", *record.Status)
	assert.Equal(t, "N", *record.LabelPub)
	assert.Nil(t, record.LMS)
	assert.Equal(t, "Create", *record.GainCreate)
	assert.Equal(t, "2023-04-05", record.DateGained.Format(dateLayout))
	assert.False(t, record.OAC)
	assert.True(t, record.Verified)
	assert.False(t, record.AccessLost)
	assert.Nil(t, record.DateOfLoss)
	assert.Nil(t, record.Notes)
	assert.Equal(t, "https://www.youtube.com/channel/UC1", *record.URL)
	assert.Equal(t, "Lysa", *record.UpdatedBy)
	assert.Nil(t, record.UpdatedAt)
}

func TestReconcileRejectsInvalidInput(t *testing.T) {
	_, err := Reconcile(ReconcileInput{
		ChannelID: "UC1",
		Form: ChannelForm{
			Status:     "Archived",
			YPPStatus:  "Maybe",
			DateGained: "30/06/2021",
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOption))
	assert.True(t, errors.Is(err, ErrInvalidDate))
	assert.Contains(t, err.Error(), "ypp_status")

	_, err = Reconcile(ReconcileInput{ChannelID: "   "})
	assert.ErrorIs(t, err, ErrEmptyChannelID)
}

func TestParseDateCreatedPolicy(t *testing.T) {
	p, err := ParseDateCreatedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DateCreatedFromFetch, p)

	p, err = ParseDateCreatedPolicy("keep-stored")
	require.NoError(t, err)
	assert.Equal(t, DateCreatedKeepStored, p)

	_, err = ParseDateCreatedPolicy("newest")
	assert.Error(t, err)
}
