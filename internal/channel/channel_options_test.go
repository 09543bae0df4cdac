package channel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeYN(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  YesNo
	}{
		{"Y", strPtr("Y"), YNYes},
		{"lower yes", strPtr("yes"), YNYes},
		{"TRUE", strPtr("TRUE"), YNYes},
		{"t", strPtr("t"), YNYes},
		{"1", strPtr("1"), YNYes},
		{"padded y", strPtr("  y "), YNYes},
		{"N", strPtr("N"), YNNo},
		{"no", strPtr("no"), YNNo},
		{"false", strPtr("false"), YNNo},
		{"F", strPtr("F"), YNNo},
		{"0", strPtr("0"), YNNo},
		{"maybe", strPtr("maybe"), YNUnset},
		{"empty", strPtr(""), YNUnset},
		{"nil", nil, YNUnset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeYN(tt.input))
		})
	}
}

func TestParseOption(t *testing.T) {
	v, err := parseOption("status", " Public ", StatusOptions)
	require.NoError(t, err)
	assert.Equal(t, StatusPublic, v)

	v, err = parseOption("status", "", StatusOptions)
	require.NoError(t, err)
	assert.Equal(t, StatusUnset, v)

	_, err = parseOption("status", "Archived", StatusOptions)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOption))
	assert.Contains(t, err.Error(), "status")
}

func TestCoerceOption(t *testing.T) {
	assert.Equal(t, AccessLevelManager, coerceOption(strPtr("Manager"), AccessLevelOptions))
	assert.Equal(t, AccessLevelUnset, coerceOption(strPtr("manager"), AccessLevelOptions))
	assert.Equal(t, AccessLevelUnset, coerceOption(nil, AccessLevelOptions))
	assert.Equal(t, LoginAffiliationWindUp, coerceOption(strPtr("Wind-Up"), LoginAffiliationOptions))
}

func TestOptionPtr(t *testing.T) {
	assert.Nil(t, optionPtr(GainCreateUnset))
	p := optionPtr(GainCreateGain)
	require.NotNil(t, p)
	assert.Equal(t, "Gain", *p)
}

func TestOptionSetsStartWithUnset(t *testing.T) {
	assert.Equal(t, StatusUnset, StatusOptions[0])
	assert.Equal(t, LoginAffiliationUnset, LoginAffiliationOptions[0])
	assert.Equal(t, AccessLevelUnset, AccessLevelOptions[0])
	assert.Equal(t, GainCreateUnset, GainCreateOptions[0])
	assert.Equal(t, YPPStatusUnset, YPPStatusOptions[0])
	assert.Equal(t, YNUnset, YesNoOptions[0])
	assert.Len(t, LoginAffiliationOptions, 15)
}
