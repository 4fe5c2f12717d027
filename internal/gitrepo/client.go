package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/avhall/protokoll/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant = "git executor not configured"

	gitCloneSubcommandConstant           = "clone"
	gitFetchSubcommandConstant           = "fetch"
	gitFetchAllFlagConstant              = "--all"
	gitFetchPruneFlagConstant            = "--prune"
	gitBranchSubcommandConstant          = "branch"
	gitBranchListFlagConstant            = "--list"
	gitBranchRemoteFlagConstant          = "-r"
	gitCheckoutSubcommandConstant        = "checkout"
	gitCheckoutTrackFlagConstant         = "-t"
	gitCheckoutNewBranchFlagConstant     = "-b"
	gitSymbolicRefSubcommandConstant     = "symbolic-ref"
	gitRemoteHeadReferenceConstant       = "refs/remotes/origin/HEAD"
	gitAddSubcommandConstant             = "add"
	gitStatusSubcommandConstant          = "status"
	gitStatusPorcelainFlagConstant       = "--porcelain"
	gitCommitSubcommandConstant          = "commit"
	gitCommitMessageFlagConstant         = "-m"
	gitPushSubcommandConstant            = "push"
	gitPushSetUpstreamFlagConstant       = "-u"
	gitRevParseSubcommandConstant        = "rev-parse"
	gitRevParseAbbreviatedFlagConstant   = "--abbrev-ref"
	gitHeadReferenceConstant             = "HEAD"
	gitOriginRemoteNameConstant          = "origin"
	gitOriginReferencePrefixConstant     = "origin/"
	gitTerminalPromptEnvironmentName     = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisabled = "0"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by the client.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client issues git commands against one repository working tree at a time.
// It adds no policy of its own; sequencing decisions belong to callers.
type Client struct {
	executor GitExecutor
}

// NewClient constructs a Client from the provided executor.
func NewClient(executor GitExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// Clone clones remoteURL into destinationPath.
func (client *Client) Clone(executionContext context.Context, remoteURL string, destinationPath string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, remoteURL, destinationPath},
	})
	return executionError
}

// FetchAll refreshes every remote-tracking reference and prunes stale ones.
func (client *Client) FetchAll(executionContext context.Context, repositoryPath string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitFetchSubcommandConstant, gitFetchAllFlagConstant, gitFetchPruneFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// LocalBranchExists reports whether branchName exists as a local branch.
func (client *Client) LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	executionResult, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitBranchListFlagConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

// RemoteBranchExists reports whether origin carries branchName.
func (client *Client) RemoteBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	executionResult, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitBranchRemoteFlagConstant, gitBranchListFlagConstant, gitOriginReferencePrefixConstant + branchName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

// Checkout switches the working tree to an existing local branch.
func (client *Client) Checkout(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CheckoutTracking creates a local branch tracking origin/branchName.
func (client *Client) CheckoutTracking(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, gitCheckoutTrackFlagConstant, gitOriginReferencePrefixConstant + branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CheckoutNewFrom creates branchName starting at baseReference and switches to it.
func (client *Client) CheckoutNewFrom(executionContext context.Context, repositoryPath string, branchName string, baseReference string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, gitCheckoutNewBranchFlagConstant, branchName, baseReference},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// RemoteHeadBranch resolves the branch origin points HEAD at, for example
// "main" for refs/remotes/origin/main.
func (client *Client) RemoteHeadBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitSymbolicRefSubcommandConstant, gitRemoteHeadReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	resolvedReference := strings.TrimSpace(executionResult.StandardOutput)
	if separatorIndex := strings.LastIndex(resolvedReference, "/"); separatorIndex >= 0 {
		resolvedReference = resolvedReference[separatorIndex+1:]
	}
	return resolvedReference, nil
}

// Stage adds the given path to the index.
func (client *Client) Stage(executionContext context.Context, repositoryPath string, stagedPath string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, stagedPath},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// StatusPorcelain returns the trimmed machine-readable status output. An
// empty result means the working tree and index carry no changes.
func (client *Client) StatusPorcelain(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// Commit records the staged changes with the given message.
func (client *Client) Commit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCommitSubcommandConstant, gitCommitMessageFlagConstant, commitMessage},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// Push publishes the current branch to its configured upstream.
func (client *Client) Push(executionContext context.Context, repositoryPath string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// PushSetUpstream publishes branchName to origin and records it as upstream.
func (client *Client) PushSetUpstream(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, gitPushSetUpstreamFlagConstant, gitOriginRemoteNameConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CurrentBranch returns the abbreviated name of the checked-out branch.
func (client *Client) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := client.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitRevParseAbbreviatedFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (client *Client) executeGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[gitTerminalPromptEnvironmentName] = gitTerminalPromptEnvironmentDisabled
	return client.executor.ExecuteGit(executionContext, details)
}
