package session

// Window returns the last maxTurns entries of history in original order.
// Shorter histories are returned as-is. The returned slice shares backing
// storage with history and must be treated as read-only; history itself is
// never mutated.
//
// Callers assembling context for an in-flight query must window the history
// *before* appending the current user turn: the window represents prior
// turns only, and the context assembler re-inserts the query inside the
// augmented final message. Windowing after the append would duplicate the
// query in the prompt.
func Window(history []Turn, maxTurns int) []Turn {
	if maxTurns <= 0 {
		return nil
	}
	if len(history) <= maxTurns {
		return history
	}
	return history[len(history)-maxTurns:]
}
