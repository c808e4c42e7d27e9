package timesheet

import "github.com/warp/timesheet/generic"

// ResolveFlex gives every flex request its share of the capacity left after
// the fixed requests, proportional to its weight. Shares are floored; the
// remainder goes to the middle flex request. Requests without flex are
// returned unchanged, order is preserved.
func ResolveFlex(requests []DynamicRequest, capacity generic.WorkDuration) []DynamicRequest {
	out := make([]DynamicRequest, len(requests))
	copy(out, requests)

	var fixed generic.WorkDuration
	var weights int
	var flex []int
	for i, r := range out {
		if r.Flex > 0 {
			weights += r.Flex
			flex = append(flex, i)
			continue
		}
		fixed += r.Duration.Max(0)
	}
	if len(flex) == 0 {
		return out
	}

	rest := (capacity - fixed).Max(0)
	var given generic.WorkDuration
	for _, i := range flex {
		share := generic.WorkDuration(int(rest) * out[i].Flex / weights)
		out[i].Duration = share
		given += share
	}
	out[flex[len(flex)/2]].Duration += rest - given
	return out
}
