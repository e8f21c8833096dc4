package payroll

// =============================================================================
// PERIOD - Inclusive date range walked by the aggregator
// =============================================================================

// Period is an inclusive range of calendar dates [Start, End].
type Period struct {
	Start Date
	End   Date
}

// ParsePeriod parses and validates a from/to pair. Empty values, bad formats
// and inverted ranges are all input validation failures.
func ParsePeriod(from, to string) (Period, error) {
	if from == "" {
		return Period{}, &ValidationError{Field: "from", Message: "is required"}
	}
	if to == "" {
		return Period{}, &ValidationError{Field: "to", Message: "is required"}
	}
	start, err := ParseDate(from)
	if err != nil {
		return Period{}, &ValidationError{Field: "from", Message: err.Error()}
	}
	end, err := ParseDate(to)
	if err != nil {
		return Period{}, &ValidationError{Field: "to", Message: err.Error()}
	}
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate rejects ranges whose end is before their start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return &ValidationError{Field: "to", Message: "must not be before from"}
	}
	return nil
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every date in the period in ascending order.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// SemiMonthlyPeriodFor returns the payroll cut-off containing d:
// the 1st through the 15th, or the 16th through the last day of the month.
func SemiMonthlyPeriodFor(d Date) Period {
	if d.Day() <= 15 {
		return Period{
			Start: NewDate(d.Year(), d.Month(), 1),
			End:   NewDate(d.Year(), d.Month(), 15),
		}
	}
	return Period{
		Start: NewDate(d.Year(), d.Month(), 16),
		End:   NewDate(d.Year(), d.Month()+1, 1).AddDays(-1),
	}
}

// PreviousPeriod returns the semi-monthly cut-off immediately before p.
func (p Period) PreviousPeriod() Period {
	return SemiMonthlyPeriodFor(p.Start.AddDays(-1))
}
