package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// AS-OF RATE RESOLUTION
// =============================================================================

// DefaultBasisPrecedence is the order tried when the caller does not prefer
// a basis: monthly, then semi-monthly, then daily, then hourly.
var DefaultBasisPrecedence = []Basis{BasisMonthly, BasisSemiMonthly, BasisDaily, BasisHourly}

// ResolveAsOfRate returns the amount of the latest row for basis whose
// EffectiveDate is on or before target. Rows dated after target are never
// chosen. Ties on EffectiveDate go to the higher Seq, then to the row that
// appears later in history. ok is false when no row qualifies.
func ResolveAsOfRate(history []EmployeeRate, basis Basis, target Date) (amount decimal.Decimal, ok bool) {
	var best *EmployeeRate
	for i := range history {
		r := &history[i]
		if r.Basis != basis || r.EffectiveDate.After(target) {
			continue
		}
		if best == nil ||
			r.EffectiveDate.After(best.EffectiveDate) ||
			(r.EffectiveDate.Equal(best.EffectiveDate) && r.Seq >= best.Seq) {
			best = r
		}
	}
	if best == nil {
		return decimal.Zero, false
	}
	return best.Amount, true
}

// AsOfRates resolves every basis for target. Bases with no qualifying row
// are absent from the map.
func AsOfRates(history []EmployeeRate, target Date) map[Basis]decimal.Decimal {
	rates := make(map[Basis]decimal.Decimal)
	for _, b := range AllBases {
		if amount, ok := ResolveAsOfRate(history, b, target); ok {
			rates[b] = amount
		}
	}
	return rates
}

// SelectPrimaryBasis picks the basis used to price a row. An explicit
// prefer is honoured even when it has no rate (ok=false, zero pay follows).
// Otherwise the first basis in precedence with a resolvable rate wins.
func SelectPrimaryBasis(history []EmployeeRate, prefer Basis, precedence []Basis, target Date) (basis Basis, amount decimal.Decimal, ok bool) {
	if prefer != "" {
		amount, ok = ResolveAsOfRate(history, prefer, target)
		return prefer, amount, ok
	}
	for _, b := range precedence {
		if amount, ok = ResolveAsOfRate(history, b, target); ok {
			return b, amount, true
		}
	}
	return "", decimal.Zero, false
}

// =============================================================================
// SETTINGS & CROSS-BASIS CONVERSION
// =============================================================================

// Settings holds the conversion constants. Zero fields fall back to defaults.
type Settings struct {
	HoursPerDay           decimal.Decimal
	StandardMinutesPerDay int
	DaysPerMonth          decimal.Decimal
	OvertimeMultiplier    decimal.Decimal
	BasisPrecedence       []Basis
}

var (
	defaultHoursPerDay        = decimal.NewFromInt(8)
	defaultDaysPerMonth       = decimal.NewFromInt(26)
	defaultOvertimeMultiplier = decimal.NewFromInt(1)
	sixty                     = decimal.NewFromInt(60)
	two                       = decimal.NewFromInt(2)
)

// DefaultStandardMinutesPerDay is 10h30m.
const DefaultStandardMinutesPerDay = 630

// DefaultSettings returns the reference conversion constants.
func DefaultSettings() Settings {
	return Settings{
		HoursPerDay:           defaultHoursPerDay,
		StandardMinutesPerDay: DefaultStandardMinutesPerDay,
		DaysPerMonth:          defaultDaysPerMonth,
		OvertimeMultiplier:    defaultOvertimeMultiplier,
		BasisPrecedence:       DefaultBasisPrecedence,
	}
}

// Merge returns s with every non-zero field of override applied.
func (s Settings) Merge(override Settings) Settings {
	if override.HoursPerDay.IsPositive() {
		s.HoursPerDay = override.HoursPerDay
	}
	if override.StandardMinutesPerDay > 0 {
		s.StandardMinutesPerDay = override.StandardMinutesPerDay
	}
	if override.DaysPerMonth.IsPositive() {
		s.DaysPerMonth = override.DaysPerMonth
	}
	if override.OvertimeMultiplier.IsPositive() {
		s.OvertimeMultiplier = override.OvertimeMultiplier
	}
	if len(override.BasisPrecedence) > 0 {
		s.BasisPrecedence = override.BasisPrecedence
	}
	return s
}

// normalized fills any unset field from DefaultSettings.
func (s Settings) normalized() Settings {
	return DefaultSettings().Merge(s)
}

// HourlyFromDaily converts a daily rate into an hourly one.
func (s Settings) HourlyFromDaily(daily decimal.Decimal) decimal.Decimal {
	s = s.normalized()
	return daily.Div(s.HoursPerDay)
}

// DailyRate projects an amount stored in basis onto one day.
// Hourly and piece amounts have no daily projection and report ok=false.
func (s Settings) DailyRate(basis Basis, amount decimal.Decimal) (decimal.Decimal, bool) {
	s = s.normalized()
	switch basis {
	case BasisDaily:
		return amount, true
	case BasisSemiMonthly:
		return amount.Mul(two).Div(s.DaysPerMonth), true
	case BasisMonthly:
		return amount.Div(s.DaysPerMonth), true
	default:
		return decimal.Zero, false
	}
}

// HourlyEquivalent projects an amount stored in basis onto one hour.
func (s Settings) HourlyEquivalent(basis Basis, amount decimal.Decimal) decimal.Decimal {
	if basis == BasisHourly {
		return amount
	}
	daily, ok := s.DailyRate(basis, amount)
	if !ok {
		return decimal.Zero
	}
	return s.HourlyFromDaily(daily)
}

// DailyEquivalent prices minutes as a fraction of a standard day:
// minutes / standard_minutes_per_day * dailyRate.
func (s Settings) DailyEquivalent(minutes decimal.Decimal, daily decimal.Decimal) decimal.Decimal {
	s = s.normalized()
	return minutes.Div(decimal.NewFromInt(int64(s.StandardMinutesPerDay))).Mul(daily)
}

// HourlyPay prices minutes directly against an hourly rate.
func HourlyPay(minutes decimal.Decimal, hourly decimal.Decimal) decimal.Decimal {
	return minutes.Div(sixty).Mul(hourly)
}

// Pay prices one row on basis. OT minutes are weighted by the overtime
// multiplier; piece pays units*amount and ignores minutes. The result is
// rounded to cents and never negative.
func (s Settings) Pay(basis Basis, amount decimal.Decimal, split MinuteSplit, units decimal.Decimal) decimal.Decimal {
	s = s.normalized()

	paid := decimal.NewFromInt(int64(split.Regular)).
		Add(decimal.NewFromInt(int64(split.OT)).Mul(s.OvertimeMultiplier))

	var pay decimal.Decimal
	switch basis {
	case BasisHourly:
		pay = HourlyPay(paid, amount)
	case BasisPiece:
		pay = units.Mul(amount)
	default:
		daily, ok := s.DailyRate(basis, amount)
		if !ok {
			return decimal.Zero
		}
		pay = s.DailyEquivalent(paid, daily)
	}
	return clampMoney(pay.Round(2))
}

func clampMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
