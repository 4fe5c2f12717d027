// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with lifecycle logging via ShellExecutor, exposes
// OSCommandRunner for default process execution, and defines the typed
// failure values that carry a failed command's arguments, exit code, and
// captured output streams verbatim.
package execshell
