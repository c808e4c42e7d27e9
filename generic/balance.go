/*
balance.go - Transfer balance between consecutive months

PURPOSE:
  Hours are carried from one month into the next. A month starts with the
  balance the previous month handed over and ends with a new one. The two
  values are independent signed scalars: the outgoing balance never depends
  on the incoming one except through the target.

BALANCE EQUATION:
  target      = working_time - transfer_in - credited
  worked      = committed + dynamic
  transfer_out = worked - target

  No clamping. A negative transfer_in (a debt from last month) raises the
  target; a positive one lowers it.

EXAMPLE:
  Contract 40:00, transfer_in 2:00, holiday credit 3:20:
    target = 40:00 - 2:00 - 3:20 = 34:40
    worked = 34:40 -> transfer_out = 0:00

SEE ALSO:
  - timesheet/balance.go: Finalize computes these values
  - schedule.go: Carries the outgoing balance
*/
package generic

import "fmt"

// =============================================================================
// TRANSFER BALANCE
// =============================================================================

// TransferBalance holds the incoming and outgoing carry-over of a month.
type TransferBalance struct {
	In  WorkDuration
	Out WorkDuration
}

// Carry returns the balance the following month starts with.
func (t TransferBalance) Carry() TransferBalance { return TransferBalance{In: t.Out} }

// Delta is the change of the balance within the month.
func (t TransferBalance) Delta() WorkDuration { return t.Out - t.In }

func (t TransferBalance) String() string {
	return fmt.Sprintf("in %s, out %s", t.In, t.Out)
}
