package domain

// GradualWeightUpdate is a scheduled linear weight interpolation window for a
// weighted-family pool. The engine never interpolates; the window only decides
// whether the cached weights are due for a refresh.
type GradualWeightUpdate struct {
	PoolID             string
	ScheduledTimestamp int64
	StartTimestamp     int64
	EndTimestamp       int64
}

// GradualAmpUpdate is the amplification-parameter analogue for stable-like
// pools. A stopped update collapses the window onto the stop timestamp.
type GradualAmpUpdate struct {
	PoolID             string
	ScheduledTimestamp int64
	StartTimestamp     int64
	EndTimestamp       int64
}

// UpdateDueGracePeriod extends a gradual-update window so that the first swap
// after a quiet period still refreshes the cached value.
const UpdateDueGracePeriod = 7 * 86400

// Due reports whether a refresh is needed at the given block timestamp.
func (u *GradualWeightUpdate) Due(timestamp int64) bool {
	return u.StartTimestamp <= timestamp && u.EndTimestamp+UpdateDueGracePeriod >= timestamp
}

// Due reports whether a refresh is needed at the given block timestamp.
func (u *GradualAmpUpdate) Due(timestamp int64) bool {
	return u.StartTimestamp <= timestamp && u.EndTimestamp+UpdateDueGracePeriod >= timestamp
}
