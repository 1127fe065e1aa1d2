package quantifiers

// Effort is the coarse check level requested by the ground search
type Effort int

const (
	EffortStandard Effort = iota
	EffortFull
	EffortLastCall
)

func (e Effort) String() string {
	switch e {
	case EffortStandard:
		return "standard"
	case EffortFull:
		return "full"
	case EffortLastCall:
		return "last-call"
	}
	return "unknown"
}

// QEffort is the tier of a single engine check. Tiers are tried in
// increasing order within one Check call.
type QEffort int

const (
	QEffortConflict QEffort = iota
	QEffortModel
	QEffortLastCall
	// QEffortNone is returned by modules that never need a model
	QEffortNone
)

func (q QEffort) String() string {
	switch q {
	case QEffortConflict:
		return "conflict"
	case QEffortModel:
		return "model"
	case QEffortLastCall:
		return "last-call"
	case QEffortNone:
		return "none"
	}
	return "unknown"
}
