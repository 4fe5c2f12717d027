package ui

import (
	"context"
	"errors"
	"runtime"

	"github.com/avhall/protokoll/internal/execshell"
)

const (
	executorMissingMessageConstant = "shell executor not configured"

	darwinOperatingSystemConstant  = "darwin"
	windowsOperatingSystemConstant = "windows"
	darwinOpenCommandConstant      = "open"
	windowsOpenCommandConstant     = "cmd"
	windowsOpenSwitchConstant      = "/c"
	windowsOpenVerbConstant        = "start"
	windowsEmptyTitleConstant      = ""
	linuxOpenCommandConstant       = "xdg-open"
)

// ErrExecutorNotConfigured indicates the shell executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// DefaultApplicationOpener opens files with the platform's default handler,
// routing the launch through the shell executor so it is logged like any
// other external command.
type DefaultApplicationOpener struct {
	executor        *execshell.ShellExecutor
	operatingSystem string
}

// NewDefaultApplicationOpener constructs an opener for the current platform.
func NewDefaultApplicationOpener(executor *execshell.ShellExecutor) (*DefaultApplicationOpener, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &DefaultApplicationOpener{executor: executor, operatingSystem: runtime.GOOS}, nil
}

// OpenFile hands filePath to the platform's default application.
func (opener *DefaultApplicationOpener) OpenFile(executionContext context.Context, filePath string) error {
	commandName, commandArguments := opener.launchCommand(filePath)
	_, executionError := opener.executor.Execute(executionContext, execshell.ShellCommand{
		Name:    commandName,
		Details: execshell.CommandDetails{Arguments: commandArguments},
	})
	return executionError
}

func (opener *DefaultApplicationOpener) launchCommand(filePath string) (execshell.CommandName, []string) {
	switch opener.operatingSystem {
	case darwinOperatingSystemConstant:
		return execshell.CommandName(darwinOpenCommandConstant), []string{filePath}
	case windowsOperatingSystemConstant:
		// "start" treats its first quoted argument as a window title.
		return execshell.CommandName(windowsOpenCommandConstant), []string{windowsOpenSwitchConstant, windowsOpenVerbConstant, windowsEmptyTitleConstant, filePath}
	default:
		return execshell.CommandName(linuxOpenCommandConstant), []string{filePath}
	}
}
