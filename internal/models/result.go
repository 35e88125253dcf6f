package models

// Result is the outcome of a player-facing operation. Business-rule refusals
// (deadline passed, insufficient XP, duplicate submission) are expected
// outcomes and are reported here rather than as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Failure builds a failed Result with the given message.
func Failure(message string) Result {
	return Result{Success: false, Message: message}
}

// Ok builds a successful Result with the given message.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}
