package workflow

import (
	"context"

	"github.com/avhall/protokoll/internal/protocol"
	"github.com/avhall/protokoll/internal/publish"
	"github.com/avhall/protokoll/internal/settings"
)

// OverwriteDecision is the user's answer when the planned document already exists.
type OverwriteDecision int

// Possible answers to the overwrite-or-load prompt.
const (
	DecisionCancel OverwriteDecision = iota
	DecisionCreateNew
	DecisionLoadExisting
)

// NotificationKind classifies messages surfaced to the user.
type NotificationKind int

// Notification severities.
const (
	NotificationInfo NotificationKind = iota
	NotificationWarning
	NotificationError
)

// Prompter is the interactive boundary of a run. Implementations decide how
// questions reach the user; the orchestrator only consumes the answers.
type Prompter interface {
	PromptOverwriteOrLoad(documentPath string) (OverwriteDecision, error)
	PromptBranchName(suggestedBranch string) (branchName string, accepted bool, promptError error)
	Notify(kind NotificationKind, message string)
}

// FileOpener hands a finished document to the platform's default application.
type FileOpener interface {
	OpenFile(executionContext context.Context, filePath string) error
}

// DocumentCodec converts report records to and from document files.
type DocumentCodec interface {
	Encode(record protocol.ReportRecord, destinationPath string) (string, error)
	Decode(sourcePath string) (protocol.ReportRecord, error)
}

// SettingsStore loads and persists the tool's preferences.
type SettingsStore interface {
	Load() settings.AppSettings
	Save(applicationSettings settings.AppSettings) error
}

// Publisher pushes a finished document to the configured repository.
type Publisher interface {
	Publish(executionContext context.Context, options publish.Options) (publish.Result, error)
}

// PathExpander resolves user home shortcuts in configured paths.
type PathExpander interface {
	Expand(candidatePath string) string
}
