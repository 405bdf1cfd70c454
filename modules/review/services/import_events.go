package services

// ImportCompletedEvent is published once per import, including aborted ones.
type ImportCompletedEvent struct {
	Summary Summary
}
