package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avhall/protokoll/internal/protocol"
	flagutils "github.com/avhall/protokoll/internal/utils/flags"
	"github.com/avhall/protokoll/internal/workflow"
)

const (
	generateCommandUseConstant              = "generate"
	generateCommandShortDescriptionConstant = "Generate a standup/workshop report document"
	generateCommandLongDescriptionConstant  = "generate writes a report document from command-line flags or a YAML definition, optionally opens it, and optionally publishes it to the configured repository."

	teamFlagNameConstant            = "team"
	teamFlagDescriptionConstant     = "Team name (defaults to the last team used)"
	dateFlagNameConstant            = "date"
	dateFlagDescriptionConstant     = "Report date in YYYY-MM-DD form (defaults to today)"
	participantsFlagNameConstant    = "participants"
	participantsFlagDescription     = "Participants, free text"
	workFlagNameConstant            = "work"
	workFlagDescriptionConstant     = "Work item; repeat the flag for multiple entries"
	blockerFlagNameConstant         = "blocker"
	blockerFlagDescriptionConstant  = "Blocker; repeat the flag for multiple entries"
	nextStepFlagNameConstant        = "next"
	nextStepFlagDescriptionConstant = "Next step; repeat the flag for multiple entries"
	statusFlagNameConstant          = "status"
	statusFlagDescriptionConstant   = "Report status"
	fromFlagNameConstant            = "from"
	fromFlagDescriptionConstant     = "Path to a YAML report definition; overrides the content flags"
	openFlagNameConstant            = "open"
	openFlagDescriptionConstant     = "Open the generated document with the default application"
	publishFlagNameConstant         = "publish"
	publishFlagDescriptionConstant  = "Publish the generated document to the configured repository"
	branchFlagNameConstant          = "branch"
	branchFlagDescriptionConstant   = "Branch to publish to (skips the branch prompt)"

	reportDateLayoutConstant = "2006-01-02"
)

// GenerateCommandBuilder assembles the generate command.
type GenerateCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	SettingsPathProvider         func() string
	ConfigurationProvider        func() CommandConfiguration

	openFlagValue    bool
	publishFlagValue bool
	branchFlagValues *flagutils.BranchFlagValues
}

// Build constructs the generate command.
func (builder *GenerateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   generateCommandUseConstant,
		Short: generateCommandShortDescriptionConstant,
		Long:  generateCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(teamFlagNameConstant, "", teamFlagDescriptionConstant)
	command.Flags().String(dateFlagNameConstant, "", dateFlagDescriptionConstant)
	command.Flags().String(participantsFlagNameConstant, "", participantsFlagDescription)
	command.Flags().StringArray(workFlagNameConstant, nil, workFlagDescriptionConstant)
	command.Flags().StringArray(blockerFlagNameConstant, nil, blockerFlagDescriptionConstant)
	command.Flags().StringArray(nextStepFlagNameConstant, nil, nextStepFlagDescriptionConstant)
	statusFlagUsage := flagutils.FormatChoiceUsage(
		protocol.StatusOnTrack.Name(),
		[]string{protocol.StatusOnTrack.Name(), protocol.StatusSlightlyBehind.Name(), protocol.StatusNeedsHelp.Name()},
		statusFlagDescriptionConstant,
	)
	command.Flags().String(statusFlagNameConstant, "", statusFlagUsage)
	command.Flags().String(fromFlagNameConstant, "", fromFlagDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), &builder.openFlagValue, openFlagNameConstant, "", false, openFlagDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), &builder.publishFlagValue, publishFlagNameConstant, "", false, publishFlagDescriptionConstant)
	builder.branchFlagValues = flagutils.BindBranchFlags(command, flagutils.BranchFlagValues{}, flagutils.BranchFlagDefinition{
		Name:    branchFlagNameConstant,
		Usage:   branchFlagDescriptionConstant,
		Enabled: true,
	})

	return command, nil
}

func (builder *GenerateCommandBuilder) run(command *cobra.Command, _ []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	settingsPath := ""
	if builder.SettingsPathProvider != nil {
		settingsPath = builder.SettingsPathProvider()
	}

	workflowDependencies, dependenciesError := buildWorkflowDependencies(command, logger, humanReadableLogging, settingsPath)
	if dependenciesError != nil {
		return dependenciesError
	}

	record, recordError := builder.resolveRecord(command, workflowDependencies)
	if recordError != nil {
		return recordError
	}

	commandConfiguration := builder.resolveConfiguration()
	openAfterGenerate := commandConfiguration.Open
	if command.Flags().Changed(openFlagNameConstant) {
		openAfterGenerate = builder.openFlagValue
	}
	publishAfterGenerate := commandConfiguration.Publish
	if command.Flags().Changed(publishFlagNameConstant) {
		publishAfterGenerate = builder.publishFlagValue
	}
	branchName := ""
	if builder.branchFlagValues != nil {
		branchName = builder.branchFlagValues.Name
	}

	orchestrator, orchestratorError := workflow.NewOrchestrator(workflowDependencies)
	if orchestratorError != nil {
		return orchestratorError
	}

	runResult, runError := orchestrator.Run(command.Context(), workflow.RunOptions{
		Record:            record,
		OpenAfterGenerate: openAfterGenerate,
		Publish:           publishAfterGenerate,
		BranchName:        branchName,
	})
	if runError != nil {
		return runError
	}

	if runResult.Outcome == workflow.OutcomeLoaded {
		renderedRecord, renderError := renderRecord(runResult.Record)
		if renderError != nil {
			return renderError
		}
		fmt.Fprint(command.OutOrStdout(), renderedRecord)
	}

	return nil
}

func (builder *GenerateCommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return CommandConfiguration{}
	}
	return builder.ConfigurationProvider()
}

// resolveRecord builds the report record from the --from definition or the
// content flags. The team defaults to the last team used and the date to
// today, mirroring what the settings remember between runs.
func (builder *GenerateCommandBuilder) resolveRecord(command *cobra.Command, workflowDependencies workflow.Dependencies) (protocol.ReportRecord, error) {
	definitionPath, _ := command.Flags().GetString(fromFlagNameConstant)
	if len(strings.TrimSpace(definitionPath)) > 0 {
		return workflow.LoadReportDefinition(definitionPath)
	}

	statusName, _ := command.Flags().GetString(statusFlagNameConstant)
	reportStatus, statusError := protocol.ParseStatusName(statusName)
	if statusError != nil {
		return protocol.ReportRecord{}, statusError
	}

	teamName, _ := command.Flags().GetString(teamFlagNameConstant)
	if len(strings.TrimSpace(teamName)) == 0 {
		teamName = workflowDependencies.SettingsStore.Load().LastTeam
	}

	reportDate, _ := command.Flags().GetString(dateFlagNameConstant)
	if len(strings.TrimSpace(reportDate)) == 0 {
		reportDate = time.Now().Format(reportDateLayoutConstant)
	}

	participants, _ := command.Flags().GetString(participantsFlagNameConstant)
	workItems, _ := command.Flags().GetStringArray(workFlagNameConstant)
	blockerItems, _ := command.Flags().GetStringArray(blockerFlagNameConstant)
	nextStepItems, _ := command.Flags().GetStringArray(nextStepFlagNameConstant)

	return protocol.ReportRecord{
		Team:         strings.TrimSpace(teamName),
		Date:         strings.TrimSpace(reportDate),
		Participants: strings.TrimSpace(participants),
		WorkDone:     protocol.SplitLines(strings.Join(workItems, "\n")),
		Blockers:     protocol.SplitLines(strings.Join(blockerItems, "\n")),
		Status:       reportStatus,
		NextSteps:    protocol.SplitLines(strings.Join(nextStepItems, "\n")),
	}, nil
}
