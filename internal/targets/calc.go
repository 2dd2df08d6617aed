package targets

import "math"

// Settings holds the per-branch inputs of the gross-profit target calculation.
type Settings struct {
	Technicians    int     `json:"technicians"`
	WorkingDays    int     `json:"working_days"`
	HoursPerDay    float64 `json:"hours_per_day"`
	EfficiencyPct  float64 `json:"efficiency_pct"`
	UtilizationPct float64 `json:"utilization_pct"`
	LaborRate      float64 `json:"labor_rate"`
	TargetGPPct    float64 `json:"target_gp_pct"`
	Currency       string  `json:"currency"`
}

// DefaultSettings are used for branches that have not been configured yet.
func DefaultSettings() Settings {
	return Settings{
		Technicians:    0,
		WorkingDays:    22,
		HoursPerDay:    8,
		EfficiencyPct:  100,
		UtilizationPct: 100,
		LaborRate:      0,
		TargetGPPct:    0,
		Currency:       "USD",
	}
}

// Calculated holds the monthly derived targets for a branch.
type Calculated struct {
	AvailableHours float64 `json:"available_hours"`
	SoldHours      float64 `json:"sold_hours"`
	LaborRevenue   float64 `json:"labor_revenue"`
	GrossProfit    float64 `json:"gross_profit"`
	GPPerSoldHour  float64 `json:"gp_per_sold_hour"`
	Currency       string  `json:"currency"`
}

// Calculate derives the monthly targets from settings.
//
//	available = technicians × working days × hours/day
//	sold      = available × utilization% × efficiency%
//	revenue   = sold × labor rate
//	GP        = revenue × target GP%
func Calculate(s Settings) Calculated {
	available := float64(s.Technicians) * float64(s.WorkingDays) * s.HoursPerDay
	sold := available * (s.UtilizationPct / 100) * (s.EfficiencyPct / 100)
	revenue := sold * s.LaborRate
	gp := revenue * (s.TargetGPPct / 100)
	gpPerHour := 0.0
	if sold > 0 {
		gpPerHour = gp / sold
	}
	return Calculated{
		AvailableHours: round2(available),
		SoldHours:      round2(sold),
		LaborRevenue:   round2(revenue),
		GrossProfit:    round2(gp),
		GPPerSoldHour:  round2(gpPerHour),
		Currency:       s.Currency,
	}
}

// Overrides are the optional what-if inputs of the simulator; nil fields
// keep the baseline value.
type Overrides struct {
	Technicians    *int     `json:"technicians,omitempty"`
	WorkingDays    *int     `json:"working_days,omitempty"`
	HoursPerDay    *float64 `json:"hours_per_day,omitempty"`
	EfficiencyPct  *float64 `json:"efficiency_pct,omitempty"`
	UtilizationPct *float64 `json:"utilization_pct,omitempty"`
	LaborRate      *float64 `json:"labor_rate,omitempty"`
	TargetGPPct    *float64 `json:"target_gp_pct,omitempty"`
}

// Apply returns a copy of s with non-nil overrides applied.
func Apply(s Settings, o Overrides) Settings {
	if o.Technicians != nil {
		s.Technicians = *o.Technicians
	}
	if o.WorkingDays != nil {
		s.WorkingDays = *o.WorkingDays
	}
	if o.HoursPerDay != nil {
		s.HoursPerDay = *o.HoursPerDay
	}
	if o.EfficiencyPct != nil {
		s.EfficiencyPct = *o.EfficiencyPct
	}
	if o.UtilizationPct != nil {
		s.UtilizationPct = *o.UtilizationPct
	}
	if o.LaborRate != nil {
		s.LaborRate = *o.LaborRate
	}
	if o.TargetGPPct != nil {
		s.TargetGPPct = *o.TargetGPPct
	}
	return s
}

// Simulation compares a baseline against a what-if scenario.
type Simulation struct {
	Baseline  Calculated `json:"baseline"`
	Scenario  Calculated `json:"scenario"`
	Deltas    Calculated `json:"deltas"`
	Overrides Overrides  `json:"overrides"`
}

// Simulate runs the what-if calculation. Pure; persists nothing.
func Simulate(base Settings, o Overrides) Simulation {
	baseline := Calculate(base)
	scenario := Calculate(Apply(base, o))
	return Simulation{
		Baseline: baseline,
		Scenario: scenario,
		Deltas: Calculated{
			AvailableHours: round2(scenario.AvailableHours - baseline.AvailableHours),
			SoldHours:      round2(scenario.SoldHours - baseline.SoldHours),
			LaborRevenue:   round2(scenario.LaborRevenue - baseline.LaborRevenue),
			GrossProfit:    round2(scenario.GrossProfit - baseline.GrossProfit),
			GPPerSoldHour:  round2(scenario.GPPerSoldHour - baseline.GPPerSoldHour),
			Currency:       base.Currency,
		},
		Overrides: o,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
