package report

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/avhall/protokoll/internal/execshell"
	"github.com/avhall/protokoll/internal/gitrepo"
	"github.com/avhall/protokoll/internal/protocol"
	"github.com/avhall/protokoll/internal/publish"
	"github.com/avhall/protokoll/internal/settings"
	"github.com/avhall/protokoll/internal/ui"
	"github.com/avhall/protokoll/internal/utils"
	pathutils "github.com/avhall/protokoll/internal/utils/path"
	"github.com/avhall/protokoll/internal/workflow"
)

const (
	executorConstructionErrorTemplateConstant  = "unable to construct shell executor: %w"
	gitClientConstructionErrorTemplateConstant = "unable to construct git client: %w"
	publisherConstructionErrorTemplateConstant = "unable to construct publisher: %w"
	storeConstructionErrorTemplateConstant     = "unable to construct settings store: %w"
	openerConstructionErrorTemplateConstant    = "unable to construct document opener: %w"
	recordRenderErrorTemplateConstant          = "unable to render report: %w"
	usingConfigurationMessageConstant          = "using configuration file"
	configurationFileFieldConstant             = "config_file"
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	if logger := provider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// buildWorkflowDependencies assembles the orchestration collaborators shared
// by the report commands: shell executor, git client, publisher, settings
// store, console prompter, and document opener.
func buildWorkflowDependencies(command *cobra.Command, logger *zap.Logger, humanReadableLogging bool, settingsPath string) (workflow.Dependencies, error) {
	if configurationFilePath, available := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); available && len(configurationFilePath) > 0 {
		logger.Debug(usingConfigurationMessageConstant, zap.String(configurationFileFieldConstant, configurationFilePath))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return workflow.Dependencies{}, fmt.Errorf(executorConstructionErrorTemplateConstant, executorError)
	}
	if humanReadableLogging {
		shellExecutor.AttachEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	gitClient, clientError := gitrepo.NewClient(shellExecutor)
	if clientError != nil {
		return workflow.Dependencies{}, fmt.Errorf(gitClientConstructionErrorTemplateConstant, clientError)
	}

	publisher, publisherError := publish.NewService(publish.Dependencies{GitClient: gitClient, Logger: logger})
	if publisherError != nil {
		return workflow.Dependencies{}, fmt.Errorf(publisherConstructionErrorTemplateConstant, publisherError)
	}

	homeExpander := pathutils.NewHomeExpander()
	settingsStore, storeError := settings.NewStore(homeExpander.Expand(settingsPath), logger)
	if storeError != nil {
		return workflow.Dependencies{}, fmt.Errorf(storeConstructionErrorTemplateConstant, storeError)
	}

	documentOpener, openerError := ui.NewDefaultApplicationOpener(shellExecutor)
	if openerError != nil {
		return workflow.Dependencies{}, fmt.Errorf(openerConstructionErrorTemplateConstant, openerError)
	}

	return workflow.Dependencies{
		Codec:         protocol.NewCodec(),
		SettingsStore: settingsStore,
		Prompter:      ui.NewConsolePrompter(command.InOrStdin(), utils.NewFlushingWriter(command.OutOrStdout())),
		Publisher:     publisher,
		FileOpener:    documentOpener,
		PathExpander:  homeExpander,
		Logger:        logger,
	}, nil
}

// renderedReport is the YAML shape used when printing a report to the console.
type renderedReport struct {
	Team         string   `yaml:"team"`
	Date         string   `yaml:"date"`
	Participants string   `yaml:"participants,omitempty"`
	WorkDone     []string `yaml:"work_done,omitempty"`
	Blockers     []string `yaml:"blockers,omitempty"`
	Status       string   `yaml:"status"`
	NextSteps    []string `yaml:"next_steps,omitempty"`
}

// renderRecord serializes a report record as YAML for console display. The
// shape matches what LoadReportDefinition accepts, so printed output can be
// fed back in through --from.
func renderRecord(record protocol.ReportRecord) (string, error) {
	renderedContent, marshalError := yaml.Marshal(renderedReport{
		Team:         record.Team,
		Date:         record.Date,
		Participants: record.Participants,
		WorkDone:     record.WorkDone,
		Blockers:     record.Blockers,
		Status:       record.Status.Name(),
		NextSteps:    record.NextSteps,
	})
	if marshalError != nil {
		return "", fmt.Errorf(recordRenderErrorTemplateConstant, marshalError)
	}
	return string(renderedContent), nil
}
