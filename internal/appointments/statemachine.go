package appointments

// allowedTransitions encodes the lifecycle: pending and confirmed are the
// only non-terminal states. Nothing leaves completed or canceled.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusCompleted, StatusCanceled},
}

// CanTransition reports whether from → to is a legal lifecycle change.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns ErrInvalidTransition for an illegal change,
// including no-op cancels of already canceled or completed appointments.
func checkTransition(from, to Status) error {
	if !to.Valid() || !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}
