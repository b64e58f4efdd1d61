package questionnaire

// snapshotSavedMsg is sent after leaving has persisted the attempt.
type snapshotSavedMsg struct {
	Err error
}
