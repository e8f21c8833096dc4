package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// assertMoney compares decimals by value so "500" equals "500.00".
func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// =============================================================================
// AS-OF RESOLUTION
// =============================================================================

func TestResolveAsOfRate_LatestOnOrBeforeTarget(t *testing.T) {
	history := []payroll.EmployeeRate{
		rate("emp-1", "2025-01-01", payroll.BasisDaily, "450", 1),
		rate("emp-1", "2025-06-01", payroll.BasisDaily, "480", 2),
		rate("emp-1", "2025-10-10", payroll.BasisDaily, "500", 3),
	}

	tests := []struct {
		target string
		want   string
	}{
		{"2025-05-31", "450"},
		{"2025-06-01", "480"},
		{"2025-10-09", "480"}, // future row never chosen
		{"2025-10-10", "500"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			amount, ok := payroll.ResolveAsOfRate(history, payroll.BasisDaily, payroll.MustParseDate(tt.target))
			assert.True(t, ok)
			assertMoney(t, tt.want, amount)
		})
	}
}

func TestResolveAsOfRate_NothingEffectiveYet(t *testing.T) {
	history := []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisDaily, "500", 1)}

	amount, ok := payroll.ResolveAsOfRate(history, payroll.BasisDaily, payroll.MustParseDate("2025-09-30"))

	assert.False(t, ok)
	assert.True(t, amount.IsZero())
}

func TestResolveAsOfRate_OtherBasisIgnored(t *testing.T) {
	history := []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisHourly, "80", 1)}

	_, ok := payroll.ResolveAsOfRate(history, payroll.BasisDaily, payroll.MustParseDate("2025-10-09"))

	assert.False(t, ok)
}

func TestResolveAsOfRate_SameDateHigherSeqWins(t *testing.T) {
	// GIVEN: Two rows on the same date, listed out of insertion order
	// THEN: The row inserted last (higher Seq) wins

	history := []payroll.EmployeeRate{
		rate("emp-1", "2025-10-01", payroll.BasisDaily, "520", 7),
		rate("emp-1", "2025-10-01", payroll.BasisDaily, "500", 3),
	}

	amount, ok := payroll.ResolveAsOfRate(history, payroll.BasisDaily, payroll.MustParseDate("2025-10-09"))

	assert.True(t, ok)
	assertMoney(t, "520", amount)
}

func TestResolveAsOfRate_SameDateNoSeq_LaterRowWins(t *testing.T) {
	history := []payroll.EmployeeRate{
		rate("emp-1", "2025-10-01", payroll.BasisDaily, "500", 0),
		rate("emp-1", "2025-10-01", payroll.BasisDaily, "510", 0),
	}

	amount, _ := payroll.ResolveAsOfRate(history, payroll.BasisDaily, payroll.MustParseDate("2025-10-01"))

	assertMoney(t, "510", amount)
}

func TestAsOfRates_OnlyResolvableBases(t *testing.T) {
	history := []payroll.EmployeeRate{
		rate("emp-1", "2025-10-01", payroll.BasisMonthly, "26000", 1),
		rate("emp-1", "2025-10-01", payroll.BasisHourly, "100", 2),
		rate("emp-1", "2025-11-01", payroll.BasisDaily, "1200", 3),
	}

	rates := payroll.AsOfRates(history, payroll.MustParseDate("2025-10-09"))

	assert.Len(t, rates, 2)
	assertMoney(t, "26000", rates[payroll.BasisMonthly])
	assertMoney(t, "100", rates[payroll.BasisHourly])
	assert.NotContains(t, rates, payroll.BasisDaily)
}

// =============================================================================
// PRIMARY BASIS SELECTION
// =============================================================================

func TestSelectPrimaryBasis_MonthlyBeatsHourly(t *testing.T) {
	// GIVEN: Monthly and hourly rates both effective
	// THEN: Default precedence picks monthly

	history := []payroll.EmployeeRate{
		rate("emp-1", "2025-10-01", payroll.BasisHourly, "100", 1),
		rate("emp-1", "2025-10-01", payroll.BasisMonthly, "26000", 2),
	}

	basis, amount, ok := payroll.SelectPrimaryBasis(history, "", payroll.DefaultBasisPrecedence, payroll.MustParseDate("2025-10-09"))

	assert.True(t, ok)
	assert.Equal(t, payroll.BasisMonthly, basis)
	assertMoney(t, "26000", amount)
}

func TestSelectPrimaryBasis_PreferenceHonoured(t *testing.T) {
	history := []payroll.EmployeeRate{
		rate("emp-1", "2025-10-01", payroll.BasisHourly, "100", 1),
		rate("emp-1", "2025-10-01", payroll.BasisMonthly, "26000", 2),
	}
	target := payroll.MustParseDate("2025-10-09")

	basis, amount, ok := payroll.SelectPrimaryBasis(history, payroll.BasisHourly, payroll.DefaultBasisPrecedence, target)
	assert.True(t, ok)
	assert.Equal(t, payroll.BasisHourly, basis)
	assertMoney(t, "100", amount)

	// A preferred basis without a rate is kept, with no rate applied
	basis, amount, ok = payroll.SelectPrimaryBasis(history, payroll.BasisPiece, payroll.DefaultBasisPrecedence, target)
	assert.False(t, ok)
	assert.Equal(t, payroll.BasisPiece, basis)
	assert.True(t, amount.IsZero())
}

func TestSelectPrimaryBasis_PieceNotInDefaultPrecedence(t *testing.T) {
	history := []payroll.EmployeeRate{rate("emp-1", "2025-10-01", payroll.BasisPiece, "12.50", 1)}

	basis, _, ok := payroll.SelectPrimaryBasis(history, "", payroll.DefaultBasisPrecedence, payroll.MustParseDate("2025-10-09"))
	assert.False(t, ok)
	assert.Equal(t, payroll.Basis(""), basis)

	precedence := append([]payroll.Basis{}, payroll.DefaultBasisPrecedence...)
	precedence = append(precedence, payroll.BasisPiece)
	basis, amount, ok := payroll.SelectPrimaryBasis(history, "", precedence, payroll.MustParseDate("2025-10-09"))
	assert.True(t, ok)
	assert.Equal(t, payroll.BasisPiece, basis)
	assertMoney(t, "12.50", amount)
}

func TestParseBasis(t *testing.T) {
	b, err := payroll.ParseBasis("semi_monthly")
	assert.NoError(t, err)
	assert.Equal(t, payroll.BasisSemiMonthly, b)

	_, err = payroll.ParseBasis("weekly")
	assert.ErrorIs(t, err, payroll.ErrInvalidInput)

	_, err = payroll.ParseBasis("")
	assert.ErrorIs(t, err, payroll.ErrInvalidInput)
}

// =============================================================================
// CONVERSIONS & PAY
// =============================================================================

func TestSettings_DailyRate(t *testing.T) {
	s := payroll.DefaultSettings()

	daily, ok := s.DailyRate(payroll.BasisMonthly, dec("26000"))
	assert.True(t, ok)
	assertMoney(t, "1000", daily)

	daily, ok = s.DailyRate(payroll.BasisSemiMonthly, dec("13000"))
	assert.True(t, ok)
	assertMoney(t, "1000", daily)

	daily, ok = s.DailyRate(payroll.BasisDaily, dec("630"))
	assert.True(t, ok)
	assertMoney(t, "630", daily)

	_, ok = s.DailyRate(payroll.BasisHourly, dec("100"))
	assert.False(t, ok)
	_, ok = s.DailyRate(payroll.BasisPiece, dec("12.50"))
	assert.False(t, ok)
}

func TestSettings_HourlyEquivalent(t *testing.T) {
	s := payroll.DefaultSettings()

	assertMoney(t, "80", s.HourlyEquivalent(payroll.BasisDaily, dec("640")))
	assertMoney(t, "125", s.HourlyEquivalent(payroll.BasisMonthly, dec("26000")))
	assertMoney(t, "95", s.HourlyEquivalent(payroll.BasisHourly, dec("95")))
	assertMoney(t, "0", s.HourlyEquivalent(payroll.BasisPiece, dec("12.50")))

	tenHours := payroll.Settings{HoursPerDay: dec("10")}
	assertMoney(t, "64", tenHours.HourlyEquivalent(payroll.BasisDaily, dec("640")))
}

func TestSettings_Pay(t *testing.T) {
	s := payroll.DefaultSettings()

	tests := []struct {
		name   string
		basis  payroll.Basis
		amount string
		split  payroll.MinuteSplit
		units  string
		want   string
	}{
		{"daily full standard day", payroll.BasisDaily, "630", payroll.MinuteSplit{Regular: 630, Total: 630}, "0", "630.00"},
		{"daily half day", payroll.BasisDaily, "630", payroll.MinuteSplit{Regular: 315, Total: 315}, "0", "315.00"},
		{"daily pro-rated with OT", payroll.BasisDaily, "630", payroll.MinuteSplit{Regular: 595, OT: 70, Total: 665}, "0", "665.00"},
		{"monthly", payroll.BasisMonthly, "26000", payroll.MinuteSplit{Regular: 600, Total: 600}, "0", "952.38"},
		{"semi-monthly", payroll.BasisSemiMonthly, "13000", payroll.MinuteSplit{Regular: 630, Total: 630}, "0", "1000.00"},
		{"hourly", payroll.BasisHourly, "100", payroll.MinuteSplit{Regular: 90, Total: 90}, "0", "150.00"},
		{"piece ignores minutes", payroll.BasisPiece, "12.50", payroll.MinuteSplit{Regular: 600, Total: 600}, "40", "500.00"},
		{"negative amount clamps", payroll.BasisHourly, "-100", payroll.MinuteSplit{Regular: 60, Total: 60}, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.want, s.Pay(tt.basis, dec(tt.amount), tt.split, dec(tt.units)))
		})
	}
}

func TestSettings_PayOvertimeMultiplier(t *testing.T) {
	s := payroll.Settings{OvertimeMultiplier: dec("1.25")}

	pay := s.Pay(payroll.BasisHourly, dec("60"), payroll.MinuteSplit{Regular: 60, OT: 60, Total: 120}, decimal.Zero)

	assertMoney(t, "135.00", pay)
}

func TestSettings_MergeKeepsDefaultsForZeroFields(t *testing.T) {
	merged := payroll.DefaultSettings().Merge(payroll.Settings{DaysPerMonth: dec("22")})

	assertMoney(t, "22", merged.DaysPerMonth)
	assertMoney(t, "8", merged.HoursPerDay)
	assert.Equal(t, payroll.DefaultStandardMinutesPerDay, merged.StandardMinutesPerDay)
	assertMoney(t, "1", merged.OvertimeMultiplier)
	assert.Equal(t, payroll.DefaultBasisPrecedence, merged.BasisPrecedence)
}
