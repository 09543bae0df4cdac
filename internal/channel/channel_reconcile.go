package channel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"channelmaster/internal/youtube"
)

// DateCreatedPolicy decides which value of date_created is persisted on save.
type DateCreatedPolicy string

const (
	// DateCreatedFromFetch persists only the value fetched at the most recent
	// lookup. A lookup without a successful refresh blanks a stored date.
	DateCreatedFromFetch DateCreatedPolicy = "fetch"
	// DateCreatedKeepStored persists the fetched value when there is one and
	// otherwise keeps the stored date.
	DateCreatedKeepStored DateCreatedPolicy = "keep-stored"
)

// ParseDateCreatedPolicy accepts "" as the default (fetch).
func ParseDateCreatedPolicy(v string) (DateCreatedPolicy, error) {
	switch DateCreatedPolicy(strings.TrimSpace(v)) {
	case "", DateCreatedFromFetch:
		return DateCreatedFromFetch, nil
	case DateCreatedKeepStored:
		return DateCreatedKeepStored, nil
	}
	return "", fmt.Errorf("unknown date_created policy %q (want %q or %q)", v, DateCreatedFromFetch, DateCreatedKeepStored)
}

func (p DateCreatedPolicy) resolve(stored *ChannelRecord, fetched *youtube.ChannelInfo) *time.Time {
	if fetched != nil && fetched.DateCreated != nil {
		return copyTime(fetched.DateCreated)
	}
	if p == DateCreatedKeepStored && stored != nil {
		return copyTime(stored.DateCreated)
	}
	return nil
}

// DisplayDefaults builds the form the operator sees right after a lookup.
// Title and creation date prefer the fresh metadata and fall back to the
// stored row; every operator field comes from the stored row except
// updated_by, which the caller fills with the signed-in operator.
func DisplayDefaults(stored *ChannelRecord, fetched *youtube.ChannelInfo) ChannelForm {
	var form ChannelForm

	switch {
	case fetched != nil && fetched.Title != nil && *fetched.Title != "":
		form.ChannelTitle = *fetched.Title
	case stored != nil:
		form.ChannelTitle = derefString(stored.ChannelTitle)
	}

	switch {
	case fetched != nil && fetched.DateCreated != nil:
		form.DateCreated = formatDate(fetched.DateCreated)
	case stored != nil:
		form.DateCreated = formatDate(stored.DateCreated)
	}

	if stored == nil {
		return form
	}

	form.ArtistName = derefString(stored.ArtistName)
	form.Status = string(coerceOption(stored.Status, StatusOptions))
	form.LabelPub = string(NormalizeYN(stored.LabelPub))
	form.LMS = string(NormalizeYN(stored.LMS))
	form.LoginAffiliation = string(coerceOption(stored.LoginAffiliation, LoginAffiliationOptions))
	form.Network = derefString(stored.Network)
	form.AccessLevel = string(coerceOption(stored.AccessLevel, AccessLevelOptions))
	form.GainCreate = string(coerceOption(stored.GainCreate, GainCreateOptions))
	form.DateGained = formatDate(stored.DateGained)
	form.OAC = stored.OAC
	form.Verified = stored.Verified
	form.VevoID = derefString(stored.VevoID)
	form.OACRequested = stored.OACRequested
	form.OACDateRequested = formatDate(stored.OACDateRequested)
	form.OACMergeConfirmationDate = formatDate(stored.OACMergeConfirmationDate)
	form.Notes = derefString(stored.Notes)
	form.YPPStatus = string(coerceOption(stored.YPPStatus, YPPStatusOptions))
	form.AccessLost = stored.AccessLost
	form.DateOfLoss = formatDate(stored.DateOfLoss)

	return form
}

// ReconcileInput is everything the save path knows at the moment of saving.
type ReconcileInput struct {
	ChannelID string
	Stored    *ChannelRecord       // nil for a new channel
	Fetched   *youtube.ChannelInfo // nil when no refresh happened or it failed
	Form      ChannelForm
	Policy    DateCreatedPolicy
}

// Reconcile produces the exact record to upsert. The operator fields are a
// full overwrite from the form; nothing is merged with the stored row except
// date_created under DateCreatedKeepStored.
func Reconcile(in ReconcileInput) (*ChannelRecord, error) {
	channelID := strings.TrimSpace(in.ChannelID)
	if channelID == "" {
		return nil, ErrEmptyChannelID
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	status, err := parseOption("status", in.Form.Status, StatusOptions)
	collect(err)
	labelPub, err := parseOption("label_pub", in.Form.LabelPub, YesNoOptions)
	collect(err)
	lms, err := parseOption("lms", in.Form.LMS, YesNoOptions)
	collect(err)
	loginAffiliation, err := parseOption("login_affiliation", in.Form.LoginAffiliation, LoginAffiliationOptions)
	collect(err)
	accessLevel, err := parseOption("access_level", in.Form.AccessLevel, AccessLevelOptions)
	collect(err)
	gainCreate, err := parseOption("gain_create", in.Form.GainCreate, GainCreateOptions)
	collect(err)
	yppStatus, err := parseOption("ypp_status", in.Form.YPPStatus, YPPStatusOptions)
	collect(err)

	dateGained, err := parseFormDate("date_gained", in.Form.DateGained)
	collect(err)
	oacDateRequested, err := parseFormDate("oac_date_requested", in.Form.OACDateRequested)
	collect(err)
	oacMergeConfirmationDate, err := parseFormDate("oac_merge_confirmation_date", in.Form.OACMergeConfirmationDate)
	collect(err)
	dateOfLoss, err := parseFormDate("date_of_loss", in.Form.DateOfLoss)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	policy := in.Policy
	if policy == "" {
		policy = DateCreatedFromFetch
	}
	url := ComputeURL(channelID)

	return &ChannelRecord{
		ChannelID: channelID,

		ChannelTitle: normOpt(in.Form.ChannelTitle),
		DateCreated:  policy.resolve(in.Stored, in.Fetched),
		URL:          &url,

		ArtistName:               normOpt(in.Form.ArtistName),
		Status:                   optionPtr(status),
		LabelPub:                 optionPtr(labelPub),
		LMS:                      optionPtr(lms),
		LoginAffiliation:         optionPtr(loginAffiliation),
		Network:                  normOpt(in.Form.Network),
		AccessLevel:              optionPtr(accessLevel),
		GainCreate:               optionPtr(gainCreate),
		DateGained:               dateGained,
		OAC:                      in.Form.OAC,
		Verified:                 in.Form.Verified,
		VevoID:                   normOpt(in.Form.VevoID),
		OACRequested:             in.Form.OACRequested,
		OACDateRequested:         oacDateRequested,
		OACMergeConfirmationDate: oacMergeConfirmationDate,
		Notes:                    normOpt(in.Form.Notes),
		YPPStatus:                optionPtr(yppStatus),
		AccessLost:               in.Form.AccessLost,
		DateOfLoss:               dateOfLoss,

		UpdatedBy: normOpt(in.Form.UpdatedBy),
	}, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
