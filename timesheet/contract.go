package timesheet

import "github.com/warp/timesheet/generic"

// SelectContract returns the first contract of the department that is valid
// in the month.
func SelectContract(contracts []Contract, department string, period generic.MonthPeriod) (Contract, error) {
	for _, c := range contracts {
		if c.Department == department && c.ValidIn(period) {
			return c, nil
		}
	}
	return Contract{}, &generic.NoMatchingContractError{Department: department, Period: period}
}
