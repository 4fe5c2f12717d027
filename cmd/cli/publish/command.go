package publish

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avhall/protokoll/internal/execshell"
	"github.com/avhall/protokoll/internal/gitrepo"
	"github.com/avhall/protokoll/internal/publish"
	"github.com/avhall/protokoll/internal/settings"
	"github.com/avhall/protokoll/internal/ui"
	"github.com/avhall/protokoll/internal/utils"
	flagutils "github.com/avhall/protokoll/internal/utils/flags"
	pathutils "github.com/avhall/protokoll/internal/utils/path"
)

const (
	commandUseConstant              = "publish <document-path>"
	commandShortDescriptionConstant = "Publish a report document to the configured repository"
	commandLongDescriptionConstant  = "publish copies an existing report document into a clone of the configured repository, commits it, and pushes the branch."

	branchFlagNameConstant        = "branch"
	branchFlagDescriptionConstant = "Branch to publish to (skips the branch prompt)"

	executorConstructionErrorTemplateConstant  = "unable to construct shell executor: %w"
	gitClientConstructionErrorTemplateConstant = "unable to construct git client: %w"
	publisherConstructionErrorTemplateConstant = "unable to construct publisher: %w"
	storeConstructionErrorTemplateConstant     = "unable to construct settings store: %w"
	publishAbortedMessageConstant              = "publish aborted"
	usingConfigurationMessageConstant          = "using configuration file"
	configurationFileFieldConstant             = "config_file"
	publishedMessageTemplateConstant           = "published %s to branch %s\n"
	nothingToPublishMessageTemplateConstant    = "%s already up to date in the repository\n"
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the publish command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	SettingsPathProvider         func() string

	branchFlagValues *flagutils.BranchFlagValues
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	builder.branchFlagValues = flagutils.BindBranchFlags(command, flagutils.BranchFlagValues{}, flagutils.BranchFlagDefinition{
		Name:    branchFlagNameConstant,
		Usage:   branchFlagDescriptionConstant,
		Enabled: true,
	})

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	if configurationFilePath, available := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); available && len(configurationFilePath) > 0 {
		logger.Debug(usingConfigurationMessageConstant, zap.String(configurationFileFieldConstant, configurationFilePath))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return fmt.Errorf(executorConstructionErrorTemplateConstant, executorError)
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		shellExecutor.AttachEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	gitClient, clientError := gitrepo.NewClient(shellExecutor)
	if clientError != nil {
		return fmt.Errorf(gitClientConstructionErrorTemplateConstant, clientError)
	}

	publisher, publisherError := publish.NewService(publish.Dependencies{GitClient: gitClient, Logger: logger})
	if publisherError != nil {
		return fmt.Errorf(publisherConstructionErrorTemplateConstant, publisherError)
	}

	homeExpander := pathutils.NewHomeExpander()
	settingsPath := ""
	if builder.SettingsPathProvider != nil {
		settingsPath = builder.SettingsPathProvider()
	}
	settingsStore, storeError := settings.NewStore(homeExpander.Expand(settingsPath), logger)
	if storeError != nil {
		return fmt.Errorf(storeConstructionErrorTemplateConstant, storeError)
	}

	applicationSettings := settingsStore.Load()
	publishSettings := applicationSettings.GitHub
	publishSettings.LocalReposBase = homeExpander.Expand(publishSettings.LocalReposBase)

	branchName := ""
	if builder.branchFlagValues != nil {
		branchName = builder.branchFlagValues.Name
	}
	if len(branchName) == 0 {
		prompter := ui.NewConsolePrompter(command.InOrStdin(), utils.NewFlushingWriter(command.OutOrStdout()))
		promptedBranch, accepted, promptError := prompter.PromptBranchName(publishSettings.DefaultBranch)
		if promptError != nil {
			return promptError
		}
		if !accepted {
			fmt.Fprintln(command.OutOrStdout(), publishAbortedMessageConstant)
			return nil
		}
		branchName = promptedBranch
	}

	publishResult, publishError := publisher.Publish(command.Context(), publish.Options{
		DocumentPath: arguments[0],
		BranchName:   branchName,
		GitHub:       publishSettings,
	})
	if publishError != nil {
		return publishError
	}

	if publishResult.Committed {
		fmt.Fprintf(command.OutOrStdout(), publishedMessageTemplateConstant, publishResult.RelativePath, publishResult.BranchName)
	} else {
		fmt.Fprintf(command.OutOrStdout(), nothingToPublishMessageTemplateConstant, publishResult.RelativePath)
	}
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}
