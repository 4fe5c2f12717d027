package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/avhall/protokoll/internal/protocol"
	"github.com/avhall/protokoll/internal/publish"
)

const (
	codecMissingMessageConstant         = "document codec not configured"
	settingsStoreMissingMessageConstant = "settings store not configured"
	prompterMissingMessageConstant      = "prompter not configured"
	publisherMissingMessageConstant     = "publishing requested but no publisher configured"
	runInProgressMessageConstant        = "a report run is already in progress"

	dateRejectedTemplateConstant    = "report date rejected: %w"
	promptFailedTemplateConstant    = "prompt failed: %w"
	decodeFailedTemplateConstant    = "failed to load existing report: %w"
	encodeFailedTemplateConstant    = "failed to generate report: %w"
	publishFailedTemplateConstant   = "failed to publish report: %w"
	settingsSaveWarningConstant     = "could not save settings; continuing"
	documentOpenWarningConstant     = "could not open document; continuing"
	runCancelledMessageConstant     = "report generation cancelled"
	publishSkippedMessageConstant   = "publish skipped"
	documentWrittenTemplateConstant = "report written to %s"
	documentLoadedTemplateConstant  = "loaded existing report from %s"
	publishedTemplateConstant       = "report published to branch %s"
	noChangesPublishMessageConstant = "repository already up to date; nothing published"

	documentPathFieldConstant = "document_path"
)

// Orchestrator construction and run errors.
var (
	ErrCodecNotConfigured         = errors.New(codecMissingMessageConstant)
	ErrSettingsStoreNotConfigured = errors.New(settingsStoreMissingMessageConstant)
	ErrPrompterNotConfigured      = errors.New(prompterMissingMessageConstant)
	ErrPublisherNotConfigured     = errors.New(publisherMissingMessageConstant)
	ErrRunInProgress              = errors.New(runInProgressMessageConstant)
)

// RunOutcome summarizes how a run ended.
type RunOutcome int

// Possible run outcomes.
const (
	OutcomeGenerated RunOutcome = iota
	OutcomeLoaded
	OutcomeCancelled
)

// Dependencies enumerates the collaborators an Orchestrator needs. Publisher,
// FileOpener, and PathExpander are optional; runs that need an absent one fail
// or degrade at the point of use.
type Dependencies struct {
	Codec         DocumentCodec
	SettingsStore SettingsStore
	Prompter      Prompter
	Publisher     Publisher
	FileOpener    FileOpener
	PathExpander  PathExpander
	Logger        *zap.Logger
}

// RunOptions configures one report run.
type RunOptions struct {
	Record            protocol.ReportRecord
	OpenAfterGenerate bool
	Publish           bool
	BranchName        string
}

// RunResult captures the observable outcomes of a run.
type RunResult struct {
	Outcome       RunOutcome
	DocumentPath  string
	Record        protocol.ReportRecord
	PublishResult *publish.Result
}

// Orchestrator drives the full report lifecycle: date validation, the
// overwrite-or-load decision, document generation, settings persistence, and
// optional publishing. At most one run may be in flight at a time.
type Orchestrator struct {
	codec         DocumentCodec
	settingsStore SettingsStore
	prompter      Prompter
	publisher     Publisher
	fileOpener    FileOpener
	pathExpander  PathExpander
	logger        *zap.Logger
	runInFlight   atomic.Bool
}

// NewOrchestrator validates the required dependencies and returns an Orchestrator.
func NewOrchestrator(dependencies Dependencies) (*Orchestrator, error) {
	if dependencies.Codec == nil {
		return nil, ErrCodecNotConfigured
	}
	if dependencies.SettingsStore == nil {
		return nil, ErrSettingsStoreNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Orchestrator{
		codec:         dependencies.Codec,
		settingsStore: dependencies.SettingsStore,
		prompter:      dependencies.Prompter,
		publisher:     dependencies.Publisher,
		fileOpener:    dependencies.FileOpener,
		pathExpander:  dependencies.PathExpander,
		logger:        dependencies.Logger,
	}, nil
}

// Run executes one report lifecycle. Settings persistence and document
// opening are best-effort: their failures are surfaced as warnings and never
// abort a run that has already produced a document.
func (orchestrator *Orchestrator) Run(executionContext context.Context, options RunOptions) (RunResult, error) {
	if !orchestrator.runInFlight.CompareAndSwap(false, true) {
		return RunResult{}, ErrRunInProgress
	}
	defer orchestrator.runInFlight.Store(false)

	if validationError := protocol.ValidateDate(options.Record.Date); validationError != nil {
		return RunResult{}, fmt.Errorf(dateRejectedTemplateConstant, validationError)
	}
	options.Record.Team = protocol.NormalizeTeamName(options.Record.Team)

	applicationSettings := orchestrator.settingsStore.Load()
	outputDirectory := orchestrator.expandPath(applicationSettings.OutputDir)
	plannedPath, planError := protocol.PlannedDocumentPath(outputDirectory, options.Record.Team, options.Record.Date)
	if planError != nil {
		return RunResult{}, fmt.Errorf(dateRejectedTemplateConstant, planError)
	}

	if _, statError := os.Stat(plannedPath); statError == nil {
		overwriteDecision, promptError := orchestrator.prompter.PromptOverwriteOrLoad(plannedPath)
		if promptError != nil {
			return RunResult{}, fmt.Errorf(promptFailedTemplateConstant, promptError)
		}
		switch overwriteDecision {
		case DecisionCancel:
			orchestrator.prompter.Notify(NotificationInfo, runCancelledMessageConstant)
			return RunResult{Outcome: OutcomeCancelled, DocumentPath: plannedPath}, nil
		case DecisionLoadExisting:
			loadedRecord, decodeError := orchestrator.codec.Decode(plannedPath)
			if decodeError != nil {
				return RunResult{}, fmt.Errorf(decodeFailedTemplateConstant, decodeError)
			}
			orchestrator.prompter.Notify(NotificationInfo, fmt.Sprintf(documentLoadedTemplateConstant, plannedPath))
			return RunResult{Outcome: OutcomeLoaded, DocumentPath: plannedPath, Record: loadedRecord}, nil
		}
	}

	documentPath, encodeError := orchestrator.codec.Encode(options.Record, plannedPath)
	if encodeError != nil {
		return RunResult{}, fmt.Errorf(encodeFailedTemplateConstant, encodeError)
	}
	orchestrator.prompter.Notify(NotificationInfo, fmt.Sprintf(documentWrittenTemplateConstant, documentPath))

	applicationSettings.LastTeam = options.Record.Team
	if saveError := orchestrator.settingsStore.Save(applicationSettings); saveError != nil {
		orchestrator.logger.Warn(settingsSaveWarningConstant, zap.Error(saveError))
		orchestrator.prompter.Notify(NotificationWarning, settingsSaveWarningConstant)
	}

	if options.OpenAfterGenerate && orchestrator.fileOpener != nil {
		if openError := orchestrator.fileOpener.OpenFile(executionContext, documentPath); openError != nil {
			orchestrator.logger.Warn(documentOpenWarningConstant,
				zap.String(documentPathFieldConstant, documentPath), zap.Error(openError))
			orchestrator.prompter.Notify(NotificationWarning, documentOpenWarningConstant)
		}
	}

	runResult := RunResult{Outcome: OutcomeGenerated, DocumentPath: documentPath, Record: options.Record}
	if !options.Publish {
		return runResult, nil
	}
	if orchestrator.publisher == nil {
		return RunResult{}, ErrPublisherNotConfigured
	}

	branchName := strings.TrimSpace(options.BranchName)
	if len(branchName) == 0 {
		promptedBranch, accepted, promptError := orchestrator.prompter.PromptBranchName(applicationSettings.GitHub.DefaultBranch)
		if promptError != nil {
			return RunResult{}, fmt.Errorf(promptFailedTemplateConstant, promptError)
		}
		if !accepted {
			orchestrator.prompter.Notify(NotificationInfo, publishSkippedMessageConstant)
			return runResult, nil
		}
		branchName = promptedBranch
	}

	publishSettings := applicationSettings.GitHub
	publishSettings.LocalReposBase = orchestrator.expandPath(publishSettings.LocalReposBase)
	publishResult, publishError := orchestrator.publisher.Publish(executionContext, publish.Options{
		DocumentPath: documentPath,
		BranchName:   branchName,
		GitHub:       publishSettings,
	})
	if publishError != nil {
		orchestrator.prompter.Notify(NotificationError, publishError.Error())
		return RunResult{}, fmt.Errorf(publishFailedTemplateConstant, publishError)
	}

	if publishResult.Committed {
		orchestrator.prompter.Notify(NotificationInfo, fmt.Sprintf(publishedTemplateConstant, publishResult.BranchName))
	} else {
		orchestrator.prompter.Notify(NotificationInfo, noChangesPublishMessageConstant)
	}
	runResult.PublishResult = &publishResult
	return runResult, nil
}

func (orchestrator *Orchestrator) expandPath(candidatePath string) string {
	if orchestrator.pathExpander == nil {
		return candidatePath
	}
	return orchestrator.pathExpander.Expand(candidatePath)
}
