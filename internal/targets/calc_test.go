package targets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleSettings() Settings {
	return Settings{
		Technicians:    4,
		WorkingDays:    22,
		HoursPerDay:    8,
		EfficiencyPct:  110,
		UtilizationPct: 85,
		LaborRate:      120,
		TargetGPPct:    65,
		Currency:       "EUR",
	}
}

func TestCalculate(t *testing.T) {
	got := Calculate(sampleSettings())

	// 4 techs x 22 days x 8h = 704 available
	require.Equal(t, 704.0, got.AvailableHours)
	// 704 x 0.85 x 1.10 = 658.24 sold
	require.Equal(t, 658.24, got.SoldHours)
	// 658.24 x 120 = 78988.80 revenue
	require.Equal(t, 78988.8, got.LaborRevenue)
	// 78988.80 x 0.65 = 51342.72 GP
	require.Equal(t, 51342.72, got.GrossProfit)
	// 51342.72 / 658.24 = 78.00 per sold hour
	require.Equal(t, 78.0, got.GPPerSoldHour)
	require.Equal(t, "EUR", got.Currency)
}

func TestCalculateZeroSoldHours(t *testing.T) {
	s := sampleSettings()
	s.Technicians = 0
	got := Calculate(s)
	require.Zero(t, got.AvailableHours)
	require.Zero(t, got.SoldHours)
	require.Zero(t, got.LaborRevenue)
	require.Zero(t, got.GrossProfit)
	require.Zero(t, got.GPPerSoldHour)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.Equal(t, 22, s.WorkingDays)
	require.Equal(t, 8.0, s.HoursPerDay)
	require.Equal(t, 100.0, s.EfficiencyPct)
	require.Equal(t, 100.0, s.UtilizationPct)
	require.Equal(t, "USD", s.Currency)

	// An unconfigured branch calculates to all-zero targets.
	require.Zero(t, Calculate(s).LaborRevenue)
}

func TestApplyOverrides(t *testing.T) {
	base := sampleSettings()

	require.Equal(t, base, Apply(base, Overrides{}))

	techs := 6
	rate := 130.0
	got := Apply(base, Overrides{Technicians: &techs, LaborRate: &rate})
	require.Equal(t, 6, got.Technicians)
	require.Equal(t, 130.0, got.LaborRate)
	// Untouched fields keep the baseline.
	require.Equal(t, base.WorkingDays, got.WorkingDays)
	require.Equal(t, base.TargetGPPct, got.TargetGPPct)
	// Apply works on a copy.
	require.Equal(t, 4, base.Technicians)
}

func TestSimulate(t *testing.T) {
	base := sampleSettings()
	techs := 5
	sim := Simulate(base, Overrides{Technicians: &techs})

	require.Equal(t, Calculate(base), sim.Baseline)
	require.Equal(t, Calculate(Apply(base, Overrides{Technicians: &techs})), sim.Scenario)

	// One extra tech: 176 more available hours.
	require.Equal(t, 176.0, sim.Deltas.AvailableHours)
	require.InDelta(t, sim.Scenario.GrossProfit-sim.Baseline.GrossProfit, sim.Deltas.GrossProfit, 0.01)
	require.NotNil(t, sim.Overrides.Technicians)
	require.Equal(t, 5, *sim.Overrides.Technicians)
}
