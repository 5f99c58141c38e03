package cases

// legalTransitions is the complete transition table. A case starts as active,
// may move to resolved, not_found or closed, and a not_found case may still be
// closed. resolved and closed accept no further moves.
var legalTransitions = map[Status][]Status{
	StatusActive:   {StatusResolved, StatusNotFound, StatusClosed},
	StatusNotFound: {StatusClosed},
	StatusResolved: {},
	StatusClosed:   {},
}

// CanTransition reports whether a case may move from one status to another.
// It is a pure lookup with no side effects.
func CanTransition(from, to Status) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
