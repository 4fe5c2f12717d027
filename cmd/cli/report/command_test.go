package report_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/avhall/protokoll/cmd/cli/report"
	"github.com/avhall/protokoll/internal/protocol"
)

const reportDefinitionTemplateConstant = `team: Alpha
date: 2026-01-20
work_done:
  - Fixed bug A
status: needs-help
next_steps:
  - Deploy
`

func writeSettingsFixture(testInstance *testing.T) (settingsPath string, outputDirectory string) {
	temporaryDirectory := testInstance.TempDir()
	outputDirectory = filepath.Join(temporaryDirectory, "output")
	settingsPath = filepath.Join(temporaryDirectory, "settings.json")
	settingsContent := fmt.Sprintf(`{"output_dir": %q, "last_team": "Alpha"}`, outputDirectory)
	require.NoError(testInstance, os.WriteFile(settingsPath, []byte(settingsContent), 0o644))
	return settingsPath, outputDirectory
}

func loggerProviderForTest(testInstance *testing.T) func() *zap.Logger {
	return func() *zap.Logger {
		return zaptest.NewLogger(testInstance)
	}
}

func TestGenerateCommandWritesDocumentFromDefinition(testInstance *testing.T) {
	settingsPath, outputDirectory := writeSettingsFixture(testInstance)
	definitionPath := filepath.Join(testInstance.TempDir(), "report.yaml")
	require.NoError(testInstance, os.WriteFile(definitionPath, []byte(reportDefinitionTemplateConstant), 0o644))

	builder := report.GenerateCommandBuilder{
		LoggerProvider:       loggerProviderForTest(testInstance),
		SettingsPathProvider: func() string { return settingsPath },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetIn(strings.NewReader(""))
	command.SetOut(&strings.Builder{})
	command.SetArgs([]string{"--from", definitionPath})
	require.NoError(testInstance, command.Execute())

	decodedRecord, decodeError := protocol.NewCodec().Decode(filepath.Join(outputDirectory, "protokoll_Alpha_2026-01-20.docx"))
	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, []string{"Fixed bug A"}, decodedRecord.WorkDone)
	require.Equal(testInstance, protocol.StatusNeedsHelp, decodedRecord.Status)
	require.Equal(testInstance, []string{"Deploy"}, decodedRecord.NextSteps)
}

func TestGenerateCommandDefaultsTeamFromSettings(testInstance *testing.T) {
	settingsPath, outputDirectory := writeSettingsFixture(testInstance)

	builder := report.GenerateCommandBuilder{
		LoggerProvider:       loggerProviderForTest(testInstance),
		SettingsPathProvider: func() string { return settingsPath },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetIn(strings.NewReader(""))
	command.SetOut(&strings.Builder{})
	command.SetArgs([]string{"--date", "2026-01-20", "--work", "Fixed bug A"})
	require.NoError(testInstance, command.Execute())

	_, statError := os.Stat(filepath.Join(outputDirectory, "protokoll_Alpha_2026-01-20.docx"))
	require.NoError(testInstance, statError)
}

func TestGenerateCommandCancelsWhenDocumentExistsAndAnswerIsBlank(testInstance *testing.T) {
	settingsPath, outputDirectory := writeSettingsFixture(testInstance)
	existingPath := filepath.Join(outputDirectory, "protokoll_Alpha_2026-01-20.docx")
	require.NoError(testInstance, os.MkdirAll(outputDirectory, 0o755))

	_, encodeError := protocol.NewCodec().Encode(protocol.ReportRecord{Team: "Alpha", Date: "2026-01-20"}, existingPath)
	require.NoError(testInstance, encodeError)
	originalContent, readError := os.ReadFile(existingPath)
	require.NoError(testInstance, readError)

	builder := report.GenerateCommandBuilder{
		LoggerProvider:       loggerProviderForTest(testInstance),
		SettingsPathProvider: func() string { return settingsPath },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetIn(strings.NewReader("\n"))
	command.SetOut(outputBuffer)
	command.SetArgs([]string{"--team", "Alpha", "--date", "2026-01-20", "--work", "Changed content"})
	require.NoError(testInstance, command.Execute())

	unchangedContent, rereadError := os.ReadFile(existingPath)
	require.NoError(testInstance, rereadError)
	require.Equal(testInstance, originalContent, unchangedContent)
	require.Contains(testInstance, outputBuffer.String(), "cancelled")
}

func TestLoadCommandPrintsReportAsYAML(testInstance *testing.T) {
	settingsPath, outputDirectory := writeSettingsFixture(testInstance)
	require.NoError(testInstance, os.MkdirAll(outputDirectory, 0o755))

	documentPath := filepath.Join(outputDirectory, "protokoll_Alpha_2026-01-20.docx")
	_, encodeError := protocol.NewCodec().Encode(protocol.ReportRecord{
		Team:      "Alpha",
		Date:      "2026-01-20",
		WorkDone:  []string{"Fixed bug A"},
		Status:    protocol.StatusNeedsHelp,
		NextSteps: []string{"Deploy"},
	}, documentPath)
	require.NoError(testInstance, encodeError)

	builder := report.LoadCommandBuilder{
		LoggerProvider:       loggerProviderForTest(testInstance),
		SettingsPathProvider: func() string { return settingsPath },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetArgs([]string{documentPath})
	require.NoError(testInstance, command.Execute())

	printedOutput := outputBuffer.String()
	require.Contains(testInstance, printedOutput, "team: Alpha")
	require.Contains(testInstance, printedOutput, "date: \"2026-01-20\"")
	require.Contains(testInstance, printedOutput, "status: needs-help")
	require.Contains(testInstance, printedOutput, "- Fixed bug A")
}
