package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/avhall/protokoll/internal/workflow"
)

const (
	overwritePromptTemplateConstant  = "Report %s already exists. [o]verwrite / [l]oad / [c]ancel: "
	branchPromptTemplateConstant     = "Publish to branch [%s] (blank accepts, n skips): "
	overwriteAnswerShortConstant     = "o"
	overwriteAnswerLongConstant      = "overwrite"
	loadAnswerShortConstant          = "l"
	loadAnswerLongConstant           = "load"
	declineAnswerShortConstant       = "n"
	declineAnswerLongConstant        = "no"
	notificationInfoPrefixConstant   = "INFO"
	notificationWarnPrefixConstant   = "WARNING"
	notificationErrorPrefixConstant  = "ERROR"
	notificationLineTemplateConstant = "%s: %s\n"
)

// ConsolePrompter implements the interactive boundary over a line-oriented
// reader and writer, normally stdin and stdout.
type ConsolePrompter struct {
	inputReader  *bufio.Reader
	outputWriter io.Writer
}

// NewConsolePrompter constructs a ConsolePrompter over the provided streams.
func NewConsolePrompter(inputReader io.Reader, outputWriter io.Writer) *ConsolePrompter {
	return &ConsolePrompter{inputReader: bufio.NewReader(inputReader), outputWriter: outputWriter}
}

// PromptOverwriteOrLoad asks what to do about an existing report document.
// Unrecognized answers cancel, so a stray newline never destroys a document.
func (prompter *ConsolePrompter) PromptOverwriteOrLoad(documentPath string) (workflow.OverwriteDecision, error) {
	answer, readError := prompter.ask(fmt.Sprintf(overwritePromptTemplateConstant, documentPath))
	if readError != nil {
		return workflow.DecisionCancel, readError
	}

	switch strings.ToLower(answer) {
	case overwriteAnswerShortConstant, overwriteAnswerLongConstant:
		return workflow.DecisionCreateNew, nil
	case loadAnswerShortConstant, loadAnswerLongConstant:
		return workflow.DecisionLoadExisting, nil
	default:
		return workflow.DecisionCancel, nil
	}
}

// PromptBranchName asks which branch to publish to. A blank answer accepts
// the suggestion; answering n or no skips publishing.
func (prompter *ConsolePrompter) PromptBranchName(suggestedBranch string) (string, bool, error) {
	answer, readError := prompter.ask(fmt.Sprintf(branchPromptTemplateConstant, suggestedBranch))
	if readError != nil {
		return "", false, readError
	}

	switch strings.ToLower(answer) {
	case declineAnswerShortConstant, declineAnswerLongConstant:
		return "", false, nil
	case "":
		return suggestedBranch, true, nil
	default:
		return answer, true, nil
	}
}

// Notify writes a severity-prefixed line to the output stream.
func (prompter *ConsolePrompter) Notify(kind workflow.NotificationKind, message string) {
	prefix := notificationInfoPrefixConstant
	switch kind {
	case workflow.NotificationWarning:
		prefix = notificationWarnPrefixConstant
	case workflow.NotificationError:
		prefix = notificationErrorPrefixConstant
	}
	fmt.Fprintf(prompter.outputWriter, notificationLineTemplateConstant, prefix, message)
}

func (prompter *ConsolePrompter) ask(question string) (string, error) {
	if _, writeError := io.WriteString(prompter.outputWriter, question); writeError != nil {
		return "", writeError
	}
	answerLine, readError := prompter.inputReader.ReadString('\n')
	if readError != nil && len(answerLine) == 0 {
		return "", readError
	}
	return strings.TrimSpace(answerLine), nil
}
