package payroll

import "time"

// =============================================================================
// MINUTE SPLITTER
// =============================================================================

// SplitMinutes classifies the minutes between timeIn and timeOut against the
// shift configured for workDate. Shift times are composed onto workDate in
// loc; punches are absolute instants.
//
// Rules:
//   - either punch missing: everything is zero
//   - no shift, no end time or no grace window: all worked minutes are OT
//   - timeOut before shiftEnd+grace: no OT at all, regular = total
//   - otherwise OT counts from shiftEnd (not from the grace cutoff)
//
// Lateness and undertime are measured against start/end time only and do
// not depend on the grace window.
func SplitMinutes(workDate Date, timeIn, timeOut *time.Time, shift *ShiftDefinition, loc *time.Location) MinuteSplit {
	if timeIn == nil || timeOut == nil {
		return MinuteSplit{}
	}
	in, out := *timeIn, *timeOut

	split := MinuteSplit{Total: clampZero(minutesBetween(in, out))}

	if !shift.HasOvertimeWindow() {
		split.OT = split.Total
	} else {
		shiftEnd := Compose(workDate, *shift.EndTime, loc)
		graceCutoff := shiftEnd.Add(time.Duration(*shift.OTGraceMinutes) * time.Minute)

		if out.Before(graceCutoff) {
			split.Regular = split.Total
		} else {
			split.Regular = clampZero(minutesBetween(in, shiftEnd))
			split.OT = clampZero(split.Total - split.Regular)
		}
	}

	if shift != nil && shift.StartTime != nil {
		shiftStart := Compose(workDate, *shift.StartTime, loc)
		if in.After(shiftStart) {
			split.LateMinutes = clampZero(minutesBetween(shiftStart, in))
		}
	}
	if shift != nil && shift.EndTime != nil {
		shiftEnd := Compose(workDate, *shift.EndTime, loc)
		if out.Before(shiftEnd) {
			split.UndertimeMinutes = clampZero(minutesBetween(out, shiftEnd))
		}
	}

	return split
}

// SplitPunch runs SplitMinutes for an attendance row. Rows without a full
// punch pair but with recorded minutes are booked as regular minutes.
func SplitPunch(p AttendancePunch, shift *ShiftDefinition, loc *time.Location) MinuteSplit {
	if p.TimeIn != nil && p.TimeOut != nil {
		return SplitMinutes(p.WorkDate, p.TimeIn, p.TimeOut, shift, loc)
	}
	if p.RecordedMinutes != nil {
		m := clampZero(*p.RecordedMinutes)
		return MinuteSplit{Regular: m, Total: m}
	}
	return MinuteSplit{}
}
