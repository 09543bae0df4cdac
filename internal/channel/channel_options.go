package channel

import (
	"fmt"
	"slices"
	"strings"
)

// Closed option sets for the dropdown fields. Every set has an explicit
// Unset ("") member, which is persisted as NULL.

type Status string

const (
	StatusUnset              Status = ""
	StatusPublic             Status = "Public"
	StatusDeleted            Status = "Deleted"
	StatusTakenDownCopyright Status = "Taken Down Due Copyright"
)

var StatusOptions = []Status{StatusUnset, StatusPublic, StatusDeleted, StatusTakenDownCopyright}

type LoginAffiliation string

const (
	LoginAffiliationUnset              LoginAffiliation = ""
	LoginAffiliationConcordMusic       LoginAffiliation = "Concord Music"
	LoginAffiliationConcordRecords     LoginAffiliation = "Concord Records"
	LoginAffiliationLomaVista          LoginAffiliation = "Loma Vista"
	LoginAffiliationCraftLatino        LoginAffiliation = "Craft Latino"
	LoginAffiliationFania              LoginAffiliation = "Fania"
	LoginAffiliationPulse              LoginAffiliation = "Pulse"
	LoginAffiliationConcordTheatricals LoginAffiliation = "Concord Theatricals"
	LoginAffiliationFantasy            LoginAffiliation = "Fantasy"
	LoginAffiliationBicycle            LoginAffiliation = "Bicycle"
	LoginAffiliationRounder            LoginAffiliation = "Rounder"
	LoginAffiliationEasyEye            LoginAffiliation = "Easy Eye"
	LoginAffiliationKidzBop            LoginAffiliation = "Kidz Bop"
	LoginAffiliationWindUp             LoginAffiliation = "Wind-Up"
	LoginAffiliationUnknown            LoginAffiliation = "Unknown"
)

var LoginAffiliationOptions = []LoginAffiliation{
	LoginAffiliationUnset,
	LoginAffiliationConcordMusic,
	LoginAffiliationConcordRecords,
	LoginAffiliationLomaVista,
	LoginAffiliationCraftLatino,
	LoginAffiliationFania,
	LoginAffiliationPulse,
	LoginAffiliationConcordTheatricals,
	LoginAffiliationFantasy,
	LoginAffiliationBicycle,
	LoginAffiliationRounder,
	LoginAffiliationEasyEye,
	LoginAffiliationKidzBop,
	LoginAffiliationWindUp,
	LoginAffiliationUnknown,
}

type AccessLevel string

const (
	AccessLevelUnset   AccessLevel = ""
	AccessLevelOwner   AccessLevel = "Owner"
	AccessLevelEditor  AccessLevel = "Editor"
	AccessLevelManager AccessLevel = "Manager"
	AccessLevelViewer  AccessLevel = "Viewer"
)

var AccessLevelOptions = []AccessLevel{AccessLevelUnset, AccessLevelOwner, AccessLevelEditor, AccessLevelManager, AccessLevelViewer}

type GainCreate string

const (
	GainCreateUnset  GainCreate = ""
	GainCreateGain   GainCreate = "Gain"
	GainCreateCreate GainCreate = "Create"
)

var GainCreateOptions = []GainCreate{GainCreateUnset, GainCreateGain, GainCreateCreate}

type YPPStatus string

const (
	YPPStatusUnset      YPPStatus = ""
	YPPStatusEligible   YPPStatus = "Eligible"
	YPPStatusEnrolled   YPPStatus = "Enrolled"
	YPPStatusIneligible YPPStatus = "Ineligible"
)

var YPPStatusOptions = []YPPStatus{YPPStatusUnset, YPPStatusEligible, YPPStatusEnrolled, YPPStatusIneligible}

// YesNo backs LABEL_PUB and LMS. The columns are free text, so stored
// values go through NormalizeYN before they reach the form.
type YesNo string

const (
	YNUnset YesNo = ""
	YNYes   YesNo = "Y"
	YNNo    YesNo = "N"
)

var YesNoOptions = []YesNo{YNUnset, YNYes, YNNo}

var (
	ynTruthy = []string{"Y", "YES", "TRUE", "T", "1"}
	ynFalsy  = []string{"N", "NO", "FALSE", "F", "0"}
)

// NormalizeYN maps a stored free-text value to Y, N or unset.
func NormalizeYN(v *string) YesNo {
	if v == nil {
		return YNUnset
	}
	vv := strings.ToUpper(strings.TrimSpace(*v))
	switch {
	case slices.Contains(ynTruthy, vv):
		return YNYes
	case slices.Contains(ynFalsy, vv):
		return YNNo
	}
	return YNUnset
}

// parseOption validates operator input against a closed set.
func parseOption[T ~string](field, raw string, options []T) (T, error) {
	v := T(strings.TrimSpace(raw))
	if slices.Contains(options, v) {
		return v, nil
	}
	var unset T
	return unset, fmt.Errorf("%w: %s=%q", ErrInvalidOption, field, raw)
}

// coerceOption reads a stored value; anything outside the set reads as unset.
func coerceOption[T ~string](stored *string, options []T) T {
	var unset T
	if stored == nil {
		return unset
	}
	v := T(*stored)
	if slices.Contains(options, v) {
		return v
	}
	return unset
}

// optionPtr turns the Unset member into NULL.
func optionPtr[T ~string](v T) *string {
	if v == "" {
		return nil
	}
	s := string(v)
	return &s
}
