package ui_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/avhall/protokoll/internal/execshell"
	"github.com/avhall/protokoll/internal/ui"
)

type recordingRunner struct {
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return execshell.ExecutionResult{}, nil
}

func TestNewDefaultApplicationOpenerRequiresExecutor(testInstance *testing.T) {
	_, constructionError := ui.NewDefaultApplicationOpener(nil)
	require.ErrorIs(testInstance, constructionError, ui.ErrExecutorNotConfigured)
}

func TestDefaultApplicationOpenerLaunchesPlatformHandler(testInstance *testing.T) {
	runner := &recordingRunner{}
	executor, executorError := execshell.NewShellExecutor(zaptest.NewLogger(testInstance), runner)
	require.NoError(testInstance, executorError)

	opener, constructionError := ui.NewDefaultApplicationOpener(executor)
	require.NoError(testInstance, constructionError)

	require.NoError(testInstance, opener.OpenFile(context.Background(), "/tmp/report.docx"))
	require.Len(testInstance, runner.recordedCommands, 1)
	require.NotEmpty(testInstance, runner.recordedCommands[0].Name)
	require.Contains(testInstance, runner.recordedCommands[0].Details.Arguments, "/tmp/report.docx")
}
