package model

// LoadStage represents how far a media asset has progressed through loading
type LoadStage string

const (
	// StageNotRequested means no fetch has been attempted for the asset
	StageNotRequested LoadStage = "NotRequested"

	// StageRequested means a fetch is in flight
	StageRequested LoadStage = "Requested"

	// StagePartiallyLoaded means a low-quality rendition is displayable
	StagePartiallyLoaded LoadStage = "PartiallyLoaded"

	// StageLoaded means the full asset is available
	StageLoaded LoadStage = "Loaded"

	// StageFailed means the fetch failed; a retry returns to Requested
	StageFailed LoadStage = "Failed"
)

// stageRank orders the monotonic stages. Failed sits outside the ramp and is
// handled separately because it is the only stage a descriptor can leave.
var stageRank = map[LoadStage]int{
	StageNotRequested:    0,
	StageRequested:       1,
	StagePartiallyLoaded: 2,
	StageLoaded:          3,
}

// String returns the string representation of LoadStage
func (ls LoadStage) String() string {
	return string(ls)
}

// IsTerminal returns true if no further transition is expected without a retry
func (ls LoadStage) IsTerminal() bool {
	return ls == StageLoaded || ls == StageFailed
}

// CanTransition reports whether moving from ls to next is a legal stage
// transition. Stages only move forward; the single exception is retrying a
// failed load, which returns to Requested.
func (ls LoadStage) CanTransition(next LoadStage) bool {
	if ls == StageFailed {
		return next == StageRequested
	}
	if next == StageFailed {
		return ls != StageLoaded
	}
	from, ok := stageRank[ls]
	if !ok {
		return false
	}
	to, ok := stageRank[next]
	if !ok {
		return false
	}
	return to > from
}
