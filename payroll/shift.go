package payroll

// =============================================================================
// SHIFT RESOLVER - Precedence chain: override -> weekly -> rest day
// =============================================================================

// ShiftTier is one level of the precedence chain. Lookup reports whether the
// tier has an entry for (employee, date); a found entry with a nil shift ID
// is an explicit "no shift" and still ends resolution.
type ShiftTier interface {
	Source() ShiftSource
	Lookup(employeeID EmployeeID, date Date) (shiftID *ShiftID, found bool)
}

// OverrideTier answers from per-date overrides.
type OverrideTier struct {
	entries map[overrideKey]*ShiftID
}

type overrideKey struct {
	EmployeeID EmployeeID
	Date       Date
}

// NewOverrideTier indexes overrides. A later row for the same key wins.
func NewOverrideTier(overrides []ShiftOverride) *OverrideTier {
	t := &OverrideTier{entries: make(map[overrideKey]*ShiftID, len(overrides))}
	for _, o := range overrides {
		t.entries[overrideKey{EmployeeID: o.EmployeeID, Date: o.Date}] = o.ShiftID
	}
	return t
}

func (t *OverrideTier) Source() ShiftSource { return SourceOverride }

func (t *OverrideTier) Lookup(employeeID EmployeeID, date Date) (*ShiftID, bool) {
	id, ok := t.entries[overrideKey{EmployeeID: employeeID, Date: date}]
	return id, ok
}

// WeeklyTier answers from day-of-week assignments (Sunday = 7).
type WeeklyTier struct {
	entries map[weeklyKey]*ShiftID
}

type weeklyKey struct {
	EmployeeID EmployeeID
	DayOfWeek  int
}

// NewWeeklyTier indexes weekly assignments. A later row for the same key wins.
func NewWeeklyTier(assignments []WeeklyShiftAssignment) *WeeklyTier {
	t := &WeeklyTier{entries: make(map[weeklyKey]*ShiftID, len(assignments))}
	for _, a := range assignments {
		t.entries[weeklyKey{EmployeeID: a.EmployeeID, DayOfWeek: a.DayOfWeek}] = a.ShiftID
	}
	return t
}

func (t *WeeklyTier) Source() ShiftSource { return SourceWeekly }

func (t *WeeklyTier) Lookup(employeeID EmployeeID, date Date) (*ShiftID, bool) {
	id, ok := t.entries[weeklyKey{EmployeeID: employeeID, DayOfWeek: IsoWeekday(date)}]
	return id, ok
}

// ShiftResolver walks its tiers in order; the first tier with an entry wins.
// Results are never merged across tiers.
type ShiftResolver struct {
	Tiers  []ShiftTier
	Shifts map[ShiftID]ShiftDefinition
}

// NewShiftResolver builds the standard two-tier chain.
func NewShiftResolver(shifts []ShiftDefinition, overrides []ShiftOverride, weekly []WeeklyShiftAssignment) *ShiftResolver {
	defs := make(map[ShiftID]ShiftDefinition, len(shifts))
	for _, s := range shifts {
		defs[s.ID] = s
	}
	return &ShiftResolver{
		Tiers:  []ShiftTier{NewOverrideTier(overrides), NewWeeklyTier(weekly)},
		Shifts: defs,
	}
}

// Resolve returns the effective shift for (employeeID, date).
// No configuration at all is the rest day, not an error. A tier pointing at
// a shift ID that is not defined also resolves to the rest day.
func (r *ShiftResolver) Resolve(employeeID EmployeeID, date Date) EffectiveShift {
	result := EffectiveShift{EmployeeID: employeeID, Date: date, Source: SourceNone}
	for _, tier := range r.Tiers {
		shiftID, found := tier.Lookup(employeeID, date)
		if !found {
			continue
		}
		result.Source = tier.Source()
		if shiftID == nil {
			return result
		}
		if def, ok := r.Shifts[*shiftID]; ok {
			shift := def.Clone()
			result.Shift = &shift
		}
		return result
	}
	return result
}
