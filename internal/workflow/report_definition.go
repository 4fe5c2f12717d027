package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avhall/protokoll/internal/protocol"
)

const (
	definitionPathRequiredMessageConstant = "report definition path must be provided"
	definitionLoadErrorTemplateConstant   = "failed to load report definition: %w"
	definitionParseErrorTemplateConstant  = "failed to parse report definition: %w"
	definitionStatusErrorTemplateConstant = "report definition has an invalid status: %w"
)

// ErrDefinitionPathRequired indicates no report definition path was supplied.
var ErrDefinitionPathRequired = errors.New(definitionPathRequiredMessageConstant)

// reportDefinition is the YAML shape of a report authored in a file.
type reportDefinition struct {
	Team         string   `yaml:"team"`
	Date         string   `yaml:"date"`
	Participants string   `yaml:"participants"`
	WorkDone     []string `yaml:"work_done"`
	Blockers     []string `yaml:"blockers"`
	Status       string   `yaml:"status"`
	NextSteps    []string `yaml:"next_steps"`
}

// LoadReportDefinition reads a YAML report definition from disk and converts
// it into a report record. The status field uses the same identifiers as the
// command line: on-track, behind, needs-help.
func LoadReportDefinition(filePath string) (protocol.ReportRecord, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return protocol.ReportRecord{}, ErrDefinitionPathRequired
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return protocol.ReportRecord{}, fmt.Errorf(definitionLoadErrorTemplateConstant, readError)
	}

	var definition reportDefinition
	if unmarshalError := yaml.Unmarshal(contentBytes, &definition); unmarshalError != nil {
		return protocol.ReportRecord{}, fmt.Errorf(definitionParseErrorTemplateConstant, unmarshalError)
	}

	reportStatus, statusError := protocol.ParseStatusName(definition.Status)
	if statusError != nil {
		return protocol.ReportRecord{}, fmt.Errorf(definitionStatusErrorTemplateConstant, statusError)
	}

	return protocol.ReportRecord{
		Team:         strings.TrimSpace(definition.Team),
		Date:         strings.TrimSpace(definition.Date),
		Participants: strings.TrimSpace(definition.Participants),
		WorkDone:     trimEntries(definition.WorkDone),
		Blockers:     trimEntries(definition.Blockers),
		Status:       reportStatus,
		NextSteps:    trimEntries(definition.NextSteps),
	}, nil
}

func trimEntries(entries []string) []string {
	var trimmedEntries []string
	for _, entry := range entries {
		trimmedEntry := strings.TrimSpace(entry)
		if len(trimmedEntry) > 0 {
			trimmedEntries = append(trimmedEntries, trimmedEntry)
		}
	}
	return trimmedEntries
}
