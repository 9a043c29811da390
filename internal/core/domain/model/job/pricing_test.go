package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
)

func float64Ptr(v float64) *float64 { return &v }

func TestNewPricing(t *testing.T) {
	p, err := job.NewPricing(float64Ptr(150), float64Ptr(120), float64Ptr(100), 10)
	require.NoError(t, err)
	assert.NoError(t, p.Validate())
	assert.Equal(t, 150.0, *p.FinalAmount())
	assert.Equal(t, 10.0, p.BookingFee())
}

func TestNewPricingRejectsNegativeAmounts(t *testing.T) {
	_, err := job.NewPricing(float64Ptr(-1), nil, nil, 0)
	assert.Error(t, err)

	_, err = job.NewPricing(nil, nil, nil, -5)
	assert.Error(t, err)
}

func TestPricingZeroValueIsInvalid(t *testing.T) {
	var p job.Pricing
	assert.ErrorIs(t, p.Validate(), job.ErrPricingIsNotConstructed)
}

func TestPricingTotalFeePriority(t *testing.T) {
	tests := []struct {
		name                     string
		final, quoted, estimated *float64
		want                     float64
	}{
		{"final wins over all", float64Ptr(150), float64Ptr(120), float64Ptr(100), 150},
		{"quoted wins over estimated", nil, float64Ptr(120), float64Ptr(100), 120},
		{"estimated as last resort", nil, nil, float64Ptr(100), 100},
		{"nothing set falls back to zero", nil, nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := job.NewPricing(tt.final, tt.quoted, tt.estimated, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.TotalFee())
		})
	}
}

func TestPricingProviderPayout(t *testing.T) {
	p, err := job.NewPricing(float64Ptr(100), nil, nil, 30)
	require.NoError(t, err)
	assert.Equal(t, 70.0, p.ProviderPayout())

	// Payout never goes below zero even when the fee exceeds the total.
	p, err = job.NewPricing(float64Ptr(10), nil, nil, 30)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.ProviderPayout())
}

func TestPricingDisplayFor(t *testing.T) {
	p, err := job.NewPricing(float64Ptr(100), nil, nil, 30)
	require.NoError(t, err)

	total, payout := p.DisplayFor(kernel.RoleTowTruck)
	assert.Equal(t, 100.0, total)
	assert.Equal(t, 70.0, payout)

	total, payout = p.DisplayFor(kernel.RoleMechanic)
	assert.Equal(t, 0.0, total)
	assert.Equal(t, 0.0, payout)
}

func TestZeroPricing(t *testing.T) {
	p := job.ZeroPricing()
	assert.NoError(t, p.Validate())
	assert.Equal(t, 0.0, p.TotalFee())
	assert.Equal(t, 0.0, p.BookingFee())
}
