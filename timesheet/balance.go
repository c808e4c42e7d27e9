package timesheet

import "github.com/warp/timesheet/generic"

// =============================================================================
// BALANCE CALCULATOR
// =============================================================================

// Finalize closes the month:
//
//	target = working_time - transfer_in - credited
//	worked = committed + dynamic
//	out    = worked - target
//
// Nothing is clamped.
func Finalize(c Contract, transferIn, credited, committed, dynamic generic.WorkDuration) (target, worked generic.WorkDuration, out generic.TransferBalance) {
	target = c.WorkingTime - transferIn - credited
	worked = committed + dynamic
	out = generic.TransferBalance{In: transferIn, Out: worked - target}
	return target, worked, out
}

// Capacity is the dynamic work still needed to reach the target.
func Capacity(target, committed generic.WorkDuration) generic.WorkDuration {
	return (target - committed).Max(0)
}

func sumWorked(entries []generic.ScheduledEntry) generic.WorkDuration {
	var total generic.WorkDuration
	for _, e := range entries {
		if e.Source.IsWork() {
			total += e.Worked()
		}
	}
	return total
}
