package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandStartedLogMessageConstant          = "external command started"
	commandCompletedLogMessageConstant        = "external command completed"
	commandFailedLogMessageConstant           = "external command failed"
	logFieldCommandNameConstant               = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	commandFailureHeaderTemplateConstant      = "command failed: %s %s"
	commandFailureDirectorySuffixTemplate     = " (in %s)"
	commandFailureExitCodeTemplateConstant    = "\nexit code: %d"
	commandFailureStandardOutputTemplate      = "\nSTDOUT:\n%s"
	commandFailureStandardErrorTemplate       = "\nSTDERR:\n%s"
	commandExecutionFailureTemplateConstant   = "unable to execute %s %s: %s"
	argumentJoinSeparatorConstant             = " "
)

// CommandName identifies an external executable invoked by the executor.
type CommandName string

// Supported executables.
const (
	CommandGit CommandName = "git"
)

// CommandDetails describes a single external command invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs a CommandName with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a finished command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution for testing.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that finished with a non-zero exit code.
// It preserves the invoked arguments and the captured output streams verbatim
// so callers can surface the tool's own diagnostics without summarizing them.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error renders the invoked command together with its exit code and both output streams.
func (failure CommandFailedError) Error() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(commandFailureHeaderTemplateConstant, failure.Command.Name, strings.Join(failure.Command.Details.Arguments, argumentJoinSeparatorConstant)))
	if len(strings.TrimSpace(failure.Command.Details.WorkingDirectory)) > 0 {
		builder.WriteString(fmt.Sprintf(commandFailureDirectorySuffixTemplate, failure.Command.Details.WorkingDirectory))
	}
	builder.WriteString(fmt.Sprintf(commandFailureExitCodeTemplateConstant, failure.Result.ExitCode))
	builder.WriteString(fmt.Sprintf(commandFailureStandardOutputTemplate, failure.Result.StandardOutput))
	builder.WriteString(fmt.Sprintf(commandFailureStandardErrorTemplate, failure.Result.StandardError))
	return builder.String()
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command    ShellCommand
	Underlying error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	underlyingMessage := ""
	if failure.Underlying != nil {
		underlyingMessage = failure.Underlying.Error()
	}
	return fmt.Sprintf(commandExecutionFailureTemplateConstant, failure.Command.Name, strings.Join(failure.Command.Details.Arguments, argumentJoinSeparatorConstant), underlyingMessage)
}

// Unwrap exposes the underlying execution failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Underlying
}

// ShellExecutor runs external commands through a CommandRunner with structured logging.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor after validating its dependencies.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: noopCommandEventObserver{}}, nil
}

// AttachEventObserver replaces the executor's command event observer.
func (executor *ShellExecutor) AttachEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.observer = noopCommandEventObserver{}
		return
	}
	executor.observer = observer
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs an arbitrary command, logging its lifecycle and converting
// non-zero exits and runner failures into typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Error(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Underlying: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)
	return executionResult, nil
}
