package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avhall/protokoll/internal/protocol"
	"github.com/avhall/protokoll/internal/settings"
	pathutils "github.com/avhall/protokoll/internal/utils/path"
)

const (
	loadCommandUseConstant              = "load [document-path]"
	loadCommandShortDescription         = "Load an existing report document and print it"
	loadCommandLongDescriptionConstant  = "load reads a previously generated report document and prints its content as YAML. Without a path it looks up the planned document for the given team and date."
	loadedDocumentErrorTemplateConstant = "unable to load report document: %w"
)

// LoadCommandBuilder assembles the load command.
type LoadCommandBuilder struct {
	LoggerProvider       LoggerProvider
	SettingsPathProvider func() string
}

// Build constructs the load command.
func (builder *LoadCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   loadCommandUseConstant,
		Short: loadCommandShortDescription,
		Long:  loadCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(teamFlagNameConstant, "", teamFlagDescriptionConstant)
	command.Flags().String(dateFlagNameConstant, "", dateFlagDescriptionConstant)

	return command, nil
}

func (builder *LoadCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)

	documentPath := ""
	if len(arguments) > 0 {
		documentPath = strings.TrimSpace(arguments[0])
	}

	if len(documentPath) == 0 {
		resolvedPath, resolveError := builder.plannedDocumentPath(command, logger)
		if resolveError != nil {
			return resolveError
		}
		documentPath = resolvedPath
	}

	loadedRecord, decodeError := protocol.NewCodec().Decode(documentPath)
	if decodeError != nil {
		return fmt.Errorf(loadedDocumentErrorTemplateConstant, decodeError)
	}

	renderedRecord, renderError := renderRecord(loadedRecord)
	if renderError != nil {
		return renderError
	}
	fmt.Fprint(command.OutOrStdout(), renderedRecord)
	return nil
}

func (builder *LoadCommandBuilder) plannedDocumentPath(command *cobra.Command, logger *zap.Logger) (string, error) {
	settingsPath := ""
	if builder.SettingsPathProvider != nil {
		settingsPath = builder.SettingsPathProvider()
	}

	homeExpander := pathutils.NewHomeExpander()
	settingsStore, storeError := settings.NewStore(homeExpander.Expand(settingsPath), logger)
	if storeError != nil {
		return "", fmt.Errorf(storeConstructionErrorTemplateConstant, storeError)
	}
	applicationSettings := settingsStore.Load()

	teamName, _ := command.Flags().GetString(teamFlagNameConstant)
	if len(strings.TrimSpace(teamName)) == 0 {
		teamName = applicationSettings.LastTeam
	}
	reportDate, _ := command.Flags().GetString(dateFlagNameConstant)
	if len(strings.TrimSpace(reportDate)) == 0 {
		reportDate = time.Now().Format(reportDateLayoutConstant)
	}

	return protocol.PlannedDocumentPath(homeExpander.Expand(applicationSettings.OutputDir), teamName, reportDate)
}
