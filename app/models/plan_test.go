package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForPlanName(t *testing.T) {
	cases := map[string]string{
		"Monthly Membership":  TierMonthly,
		"BeterCalls Monthly":  TierMonthly,
		"Yearly Membership":   TierYearly,
		"Annual Pass":         TierYearly,
		"Lifetime Access":     TierLifetime,
		"LIFETIME":            TierLifetime,
		"Some Unknown Plan":   "",
		"":                    "",
	}

	for name, want := range cases {
		assert.Equal(t, want, TierForPlanName(name), "plan name %q", name)
	}
}

func TestPlanIsRecurring(t *testing.T) {
	assert.True(t, (&Plan{Interval: PlanIntervalMonthly}).IsRecurring())
	assert.True(t, (&Plan{Interval: PlanIntervalYearly}).IsRecurring())
	assert.False(t, (&Plan{Interval: PlanIntervalLifetime}).IsRecurring())
}

func TestPlanFeaturesRoundTrip(t *testing.T) {
	p := &Plan{}
	require.NoError(t, p.SetFeatures([]string{"All calls", "Discussion access"}))
	assert.Equal(t, []string{"All calls", "Discussion access"}, p.Features())
}

func TestPlanFeaturesBrokenJSON(t *testing.T) {
	p := &Plan{FeaturesJSON: "{broken"}
	assert.Nil(t, p.Features())

	p.FeaturesJSON = ""
	assert.Nil(t, p.Features())
}

func TestPlanValidateInterval(t *testing.T) {
	p := &Plan{Name: "Test", Price: 10, Interval: "weekly"}
	require.Error(t, p.Validate())

	p.Interval = PlanIntervalMonthly
	require.NoError(t, p.Validate())
}
