package paging

// Policy decides how many of a victim's frames are reclaimed once the victim
// has been picked. Victim selection itself is shared by every policy.
type Policy interface {
	// Name identifies the policy in logs.
	Name() string

	// Choose returns the frames to reclaim from owned (the victim's frames,
	// ascending) when want more free frames are needed. The result must be a
	// subset of owned, in ascending order.
	Choose(owned []int, want int) []int
}

// WholeProcess reclaims every frame of the victim regardless of how many are
// needed. A process is either fully resident or not resident at all.
type WholeProcess struct{}

func (WholeProcess) Name() string { return "whole-process" }

func (WholeProcess) Choose(owned []int, _ int) []int { return owned }

// Partial reclaims only as many frames as are needed, lowest frame index
// first. The victim stays partially resident. Picking by frame index is a
// deterministic choice, not LRU within the victim.
type Partial struct{}

func (Partial) Name() string { return "partial" }

func (Partial) Choose(owned []int, want int) []int {
	if want <= 0 {
		return nil
	}
	return owned[:min(want, len(owned))]
}
