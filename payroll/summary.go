package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RANGE SUMMARY ACROSS BASES
// =============================================================================

// SummaryInput is the raw request for a range summary. An empty EmployeeID
// summarizes every employee; an empty PreferBasis uses the precedence list.
type SummaryInput struct {
	From        string
	To          string
	EmployeeID  EmployeeID
	PreferBasis string
	Settings    Settings
}

// Parse validates the input.
func (in SummaryInput) Parse() (Period, Basis, error) {
	period, err := ParsePeriod(in.From, in.To)
	if err != nil {
		return Period{}, "", err
	}
	var prefer Basis
	if in.PreferBasis != "" {
		prefer = Basis(in.PreferBasis)
		if !prefer.Valid() {
			return Period{}, "", &ValidationError{Field: "prefer_basis", Message: "unknown basis " + in.PreferBasis}
		}
	}
	return period, prefer, nil
}

// SummaryData is the materialized input of a range summary.
type SummaryData struct {
	Punches  []AttendancePunch
	Rates    []EmployeeRate
	Shifts   *ShiftResolver
	Location *time.Location
}

// SummarizeRange prices every attendance row in range on its primary basis.
// Rows come out ordered by date, then employee. A row with no applicable
// rate is kept with zero pay so totals never silently drop it.
func SummarizeRange(in SummaryInput, data SummaryData) (*RangeSummary, error) {
	period, prefer, err := in.Parse()
	if err != nil {
		return nil, err
	}
	settings := DefaultSettings().Merge(in.Settings)

	shifts := data.Shifts
	if shifts == nil {
		shifts = NewShiftResolver(nil, nil, nil)
	}

	histories := make(map[EmployeeID][]EmployeeRate)
	for _, r := range data.Rates {
		histories[r.EmployeeID] = append(histories[r.EmployeeID], r)
	}

	var punches []AttendancePunch
	for _, p := range data.Punches {
		if !period.Contains(p.WorkDate) {
			continue
		}
		if in.EmployeeID != "" && p.EmployeeID != in.EmployeeID {
			continue
		}
		punches = append(punches, p)
	}
	sort.SliceStable(punches, func(i, j int) bool {
		if !punches[i].WorkDate.Equal(punches[j].WorkDate) {
			return punches[i].WorkDate.Before(punches[j].WorkDate)
		}
		return punches[i].EmployeeID < punches[j].EmployeeID
	})

	summary := &RangeSummary{
		Period: period,
		Rows:   []SummaryRow{},
		Totals: SummaryTotals{Gross: decimal.Zero, ByBasis: map[Basis]decimal.Decimal{}},
	}

	for _, p := range punches {
		row := priceRow(p, histories[p.EmployeeID], prefer, settings, shifts, data.Location)
		summary.Rows = append(summary.Rows, row)

		summary.Totals.Gross = summary.Totals.Gross.Add(row.Pay)
		if row.Basis != "" {
			summary.Totals.ByBasis[row.Basis] = summary.Totals.ByBasis[row.Basis].Add(row.Pay)
		}
		summary.Totals.Count++
	}

	return summary, nil
}

func priceRow(p AttendancePunch, history []EmployeeRate, prefer Basis, settings Settings, shifts *ShiftResolver, loc *time.Location) SummaryRow {
	effective := shifts.Resolve(p.EmployeeID, p.WorkDate)
	split := SplitPunch(p, effective.Shift, loc)

	basis, amount, ok := SelectPrimaryBasis(history, prefer, settings.BasisPrecedence, p.WorkDate)

	row := SummaryRow{
		EmployeeID:       p.EmployeeID,
		Date:             p.WorkDate,
		Shift:            effective,
		Minutes:          split,
		Rates:            AsOfRates(history, p.WorkDate),
		Basis:            basis,
		RateApplied:      ok,
		HourlyEquivalent: decimal.Zero,
		Units:            p.Units,
		Pay:              decimal.Zero,
	}
	if ok {
		row.HourlyEquivalent = settings.HourlyEquivalent(basis, amount).Round(4)
		row.Pay = settings.Pay(basis, amount, split, p.Units)
	}
	return row
}
