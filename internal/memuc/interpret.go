package memuc

import "strings"

// SuccessRule decides from memuc's output whether a command that exited
// with status zero actually succeeded.
type SuccessRule func(output string) bool

// Contains succeeds when marker appears anywhere in the output.
func Contains(marker string) SuccessRule {
	return func(output string) bool {
		return strings.Contains(output, marker)
	}
}

// Built-in rules.
var (
	// MarkerSuccess is the rule for commands that print SUCCESS when done.
	MarkerSuccess = Contains("SUCCESS")

	// MarkerValue is the rule for commands that print a "Value: ..." line.
	MarkerValue = Contains("Value")

	// MarkerAny relies on the exit status alone, for commands whose output
	// may legitimately be empty.
	MarkerAny SuccessRule = func(string) bool { return true }

	// MarkerOutput is the rule for commands whose output is the answer: any
	// non-blank output counts.
	MarkerOutput SuccessRule = func(output string) bool { return strings.TrimSpace(output) != "" }
)

// Interpret classifies an Outcome. A timed out run yields a *TimeoutError.
// Otherwise the run succeeded only if memuc exited zero and rule accepts the
// output. Anything else yields a *ToolError carrying the output verbatim. A
// nil rule is MarkerAny.
func Interpret(op string, out *Outcome, rule SuccessRule) error {
	if out.TimedOut {
		return &TimeoutError{Op: op, Timeout: out.Timeout, Output: out.Output}
	}
	if rule == nil {
		rule = MarkerAny
	}
	if out.ExitCode == 0 && rule(out.Output) {
		return nil
	}
	return &ToolError{Op: op, ExitCode: out.ExitCode, Output: out.Output}
}
