package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/avhall/protokoll/internal/protocol"
	"github.com/avhall/protokoll/internal/publish"
	"github.com/avhall/protokoll/internal/settings"
	"github.com/avhall/protokoll/internal/workflow"
)

type fakeCodec struct {
	encodedRecords []protocol.ReportRecord
	encodedPaths   []string
	encodeError    error
	encodeStarted  chan struct{}
	encodeRelease  chan struct{}
	decodedRecord  protocol.ReportRecord
	decodeError    error
}

func (codec *fakeCodec) Encode(record protocol.ReportRecord, destinationPath string) (string, error) {
	if codec.encodeStarted != nil {
		close(codec.encodeStarted)
		codec.encodeStarted = nil
	}
	if codec.encodeRelease != nil {
		<-codec.encodeRelease
	}
	codec.encodedRecords = append(codec.encodedRecords, record)
	codec.encodedPaths = append(codec.encodedPaths, destinationPath)
	if codec.encodeError != nil {
		return "", codec.encodeError
	}
	return destinationPath, nil
}

func (codec *fakeCodec) Decode(string) (protocol.ReportRecord, error) {
	return codec.decodedRecord, codec.decodeError
}

type fakeSettingsStore struct {
	loadedSettings settings.AppSettings
	savedSettings  []settings.AppSettings
	saveError      error
}

func (store *fakeSettingsStore) Load() settings.AppSettings {
	return store.loadedSettings
}

func (store *fakeSettingsStore) Save(applicationSettings settings.AppSettings) error {
	store.savedSettings = append(store.savedSettings, applicationSettings)
	return store.saveError
}

type fakePrompter struct {
	overwriteDecision workflow.OverwriteDecision
	branchName        string
	branchAccepted    bool
	promptedPaths     []string
	suggestedBranches []string
	notifications     []string
}

func (prompter *fakePrompter) PromptOverwriteOrLoad(documentPath string) (workflow.OverwriteDecision, error) {
	prompter.promptedPaths = append(prompter.promptedPaths, documentPath)
	return prompter.overwriteDecision, nil
}

func (prompter *fakePrompter) PromptBranchName(suggestedBranch string) (string, bool, error) {
	prompter.suggestedBranches = append(prompter.suggestedBranches, suggestedBranch)
	return prompter.branchName, prompter.branchAccepted, nil
}

func (prompter *fakePrompter) Notify(kind workflow.NotificationKind, message string) {
	prompter.notifications = append(prompter.notifications, fmt.Sprintf("%d %s", kind, message))
}

type fakePublisher struct {
	recordedOptions []publish.Options
	publishResult   publish.Result
	publishError    error
}

func (publisher *fakePublisher) Publish(_ context.Context, options publish.Options) (publish.Result, error) {
	publisher.recordedOptions = append(publisher.recordedOptions, options)
	return publisher.publishResult, publisher.publishError
}

type fakeFileOpener struct {
	openedPaths []string
	openError   error
}

func (opener *fakeFileOpener) OpenFile(_ context.Context, filePath string) error {
	opener.openedPaths = append(opener.openedPaths, filePath)
	return opener.openError
}

type prefixPathExpander struct {
	homeDirectory string
}

func (expander prefixPathExpander) Expand(candidatePath string) string {
	if strings.HasPrefix(candidatePath, "~/") {
		return filepath.Join(expander.homeDirectory, strings.TrimPrefix(candidatePath, "~/"))
	}
	return candidatePath
}

type orchestratorFixture struct {
	orchestrator *workflow.Orchestrator
	codec        *fakeCodec
	store        *fakeSettingsStore
	prompter     *fakePrompter
	publisher    *fakePublisher
	opener       *fakeFileOpener
}

func newOrchestratorFixture(testInstance *testing.T, outputDirectory string) orchestratorFixture {
	loadedSettings := settings.DefaultSettings()
	loadedSettings.OutputDir = outputDirectory
	loadedSettings.GitHub.RepoURL = "https://example.invalid/team/docs.git"
	loadedSettings.GitHub.LocalReposBase = "~/dev"

	fixture := orchestratorFixture{
		codec:     &fakeCodec{},
		store:     &fakeSettingsStore{loadedSettings: loadedSettings},
		prompter:  &fakePrompter{},
		publisher: &fakePublisher{},
		opener:    &fakeFileOpener{},
	}

	orchestrator, constructionError := workflow.NewOrchestrator(workflow.Dependencies{
		Codec:         fixture.codec,
		SettingsStore: fixture.store,
		Prompter:      fixture.prompter,
		Publisher:     fixture.publisher,
		FileOpener:    fixture.opener,
		PathExpander:  prefixPathExpander{homeDirectory: "/home/tester"},
		Logger:        zaptest.NewLogger(testInstance),
	})
	require.NoError(testInstance, constructionError)
	fixture.orchestrator = orchestrator
	return fixture
}

func reportRecordFixture() protocol.ReportRecord {
	return protocol.ReportRecord{
		Team:      "Alpha",
		Date:      "2026-01-20",
		WorkDone:  []string{"Fixed bug A"},
		Status:    protocol.StatusNeedsHelp,
		NextSteps: []string{"Deploy"},
	}
}

func TestNewOrchestratorValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  workflow.Dependencies
		expectedError error
	}{
		{
			name:          "missing_codec",
			dependencies:  workflow.Dependencies{SettingsStore: &fakeSettingsStore{}, Prompter: &fakePrompter{}},
			expectedError: workflow.ErrCodecNotConfigured,
		},
		{
			name:          "missing_settings_store",
			dependencies:  workflow.Dependencies{Codec: &fakeCodec{}, Prompter: &fakePrompter{}},
			expectedError: workflow.ErrSettingsStoreNotConfigured,
		},
		{
			name:          "missing_prompter",
			dependencies:  workflow.Dependencies{Codec: &fakeCodec{}, SettingsStore: &fakeSettingsStore{}},
			expectedError: workflow.ErrPrompterNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, constructionError := workflow.NewOrchestrator(testCase.dependencies)
			require.ErrorIs(testInstance, constructionError, testCase.expectedError)
		})
	}
}

func TestRunRejectsInvalidDateBeforeAnySideEffect(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())

	invalidRecord := reportRecordFixture()
	invalidRecord.Date = "20-01-2026"
	_, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{Record: invalidRecord})
	require.ErrorIs(testInstance, runError, protocol.ErrInvalidDateFormat)
	require.Empty(testInstance, fixture.codec.encodedPaths)
	require.Empty(testInstance, fixture.store.savedSettings)
}

func TestRunGeneratesDocumentAndPersistsLastTeam(testInstance *testing.T) {
	outputDirectory := testInstance.TempDir()
	fixture := newOrchestratorFixture(testInstance, outputDirectory)

	runResult, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{Record: reportRecordFixture()})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, workflow.OutcomeGenerated, runResult.Outcome)
	require.Equal(testInstance, filepath.Join(outputDirectory, "protokoll_Alpha_2026-01-20.docx"), runResult.DocumentPath)

	require.Len(testInstance, fixture.store.savedSettings, 1)
	require.Equal(testInstance, "Alpha", fixture.store.savedSettings[0].LastTeam)
	require.Empty(testInstance, fixture.publisher.recordedOptions)
	require.Empty(testInstance, fixture.opener.openedPaths)
}

func TestRunSubstitutesTeamPlaceholderForEmptyTeam(testInstance *testing.T) {
	outputDirectory := testInstance.TempDir()
	fixture := newOrchestratorFixture(testInstance, outputDirectory)

	emptyTeamRecord := reportRecordFixture()
	emptyTeamRecord.Team = "  "
	runResult, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{Record: emptyTeamRecord})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, filepath.Join(outputDirectory, "protokoll_Teamnamn_2026-01-20.docx"), runResult.DocumentPath)
	require.Equal(testInstance, "Teamnamn", runResult.Record.Team)

	require.Len(testInstance, fixture.store.savedSettings, 1)
	require.Equal(testInstance, "Teamnamn", fixture.store.savedSettings[0].LastTeam)
}

func TestRunOverwriteDecisions(testInstance *testing.T) {
	testCases := []struct {
		name            string
		decision        workflow.OverwriteDecision
		expectedOutcome workflow.RunOutcome
		expectEncode    bool
	}{
		{name: "cancel", decision: workflow.DecisionCancel, expectedOutcome: workflow.OutcomeCancelled, expectEncode: false},
		{name: "load_existing", decision: workflow.DecisionLoadExisting, expectedOutcome: workflow.OutcomeLoaded, expectEncode: false},
		{name: "create_new", decision: workflow.DecisionCreateNew, expectedOutcome: workflow.OutcomeGenerated, expectEncode: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputDirectory := testInstance.TempDir()
			existingPath := filepath.Join(outputDirectory, "protokoll_Alpha_2026-01-20.docx")
			require.NoError(testInstance, os.WriteFile(existingPath, []byte("existing"), 0o644))

			fixture := newOrchestratorFixture(testInstance, outputDirectory)
			fixture.prompter.overwriteDecision = testCase.decision
			fixture.codec.decodedRecord = protocol.ReportRecord{Team: "Alpha", Date: "2026-01-20"}

			runResult, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{Record: reportRecordFixture()})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedOutcome, runResult.Outcome)
			require.Equal(testInstance, []string{existingPath}, fixture.prompter.promptedPaths)
			if testCase.expectEncode {
				require.Equal(testInstance, []string{existingPath}, fixture.codec.encodedPaths)
			} else {
				require.Empty(testInstance, fixture.codec.encodedPaths)
			}
			if testCase.decision == workflow.DecisionLoadExisting {
				require.Equal(testInstance, fixture.codec.decodedRecord, runResult.Record)
			}
		})
	}
}

func TestRunContinuesWhenSettingsSaveFails(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())
	fixture.store.saveError = errors.New("disk full")

	runResult, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{Record: reportRecordFixture()})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, workflow.OutcomeGenerated, runResult.Outcome)
	require.Contains(testInstance, strings.Join(fixture.prompter.notifications, "\n"), "could not save settings")
}

func TestRunOpensDocumentWhenRequested(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())

	runResult, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{
		Record:            reportRecordFixture(),
		OpenAfterGenerate: true,
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{runResult.DocumentPath}, fixture.opener.openedPaths)
}

func TestRunTreatsOpenFailureAsWarning(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())
	fixture.opener.openError = errors.New("no handler registered")

	_, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{
		Record:            reportRecordFixture(),
		OpenAfterGenerate: true,
	})
	require.NoError(testInstance, runError)
	require.Contains(testInstance, strings.Join(fixture.prompter.notifications, "\n"), "could not open document")
}

func TestRunPublishUsesExplicitBranchWithoutPrompting(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())
	fixture.publisher.publishResult = publish.Result{BranchName: "protokoll", Committed: true, Pushed: true}

	runResult, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{
		Record:     reportRecordFixture(),
		Publish:    true,
		BranchName: "protokoll",
	})
	require.NoError(testInstance, runError)
	require.NotNil(testInstance, runResult.PublishResult)
	require.Empty(testInstance, fixture.prompter.suggestedBranches)

	require.Len(testInstance, fixture.publisher.recordedOptions, 1)
	recordedOptions := fixture.publisher.recordedOptions[0]
	require.Equal(testInstance, "protokoll", recordedOptions.BranchName)
	require.Equal(testInstance, filepath.Join("/home/tester", "dev"), recordedOptions.GitHub.LocalReposBase)
	require.Equal(testInstance, runResult.DocumentPath, recordedOptions.DocumentPath)
}

func TestRunPublishPromptsForBranchAndHonorsDecline(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())
	fixture.prompter.branchAccepted = false

	runResult, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{
		Record:  reportRecordFixture(),
		Publish: true,
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, workflow.OutcomeGenerated, runResult.Outcome)
	require.Nil(testInstance, runResult.PublishResult)
	require.Equal(testInstance, []string{"main"}, fixture.prompter.suggestedBranches)
	require.Empty(testInstance, fixture.publisher.recordedOptions)
}

func TestRunPublishSurfacesPublisherFailure(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())
	fixture.publisher.publishError = publish.ErrRepositoryURLMissing

	_, runError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{
		Record:     reportRecordFixture(),
		Publish:    true,
		BranchName: "main",
	})
	require.ErrorIs(testInstance, runError, publish.ErrRepositoryURLMissing)
}

func TestRunRejectsConcurrentExecutions(testInstance *testing.T) {
	fixture := newOrchestratorFixture(testInstance, testInstance.TempDir())
	fixture.codec.encodeStarted = make(chan struct{})
	fixture.codec.encodeRelease = make(chan struct{})
	encodeStarted := fixture.codec.encodeStarted

	firstRunFinished := make(chan error, 1)
	go func() {
		_, firstRunError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{Record: reportRecordFixture()})
		firstRunFinished <- firstRunError
	}()

	<-encodeStarted
	_, secondRunError := fixture.orchestrator.Run(context.Background(), workflow.RunOptions{Record: reportRecordFixture()})
	require.ErrorIs(testInstance, secondRunError, workflow.ErrRunInProgress)

	close(fixture.codec.encodeRelease)
	require.NoError(testInstance, <-firstRunFinished)
}
