package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avhall/protokoll/internal/gitrepo"
	"github.com/avhall/protokoll/internal/settings"
)

const (
	gitClientMissingMessageConstant          = "git client not configured"
	repositoryURLMissingMessageConstant      = "repository url is not configured"
	ambiguousCloneDirectoryMessageConstant   = "clone destination exists but is not a git repository"
	invalidBranchNameMessageConstant         = "branch name contains characters git refuses"
	invalidBranchNameTemplateConstant        = "%w: %q"
	ambiguousCloneDirectoryTemplateConstant  = "%w: %s"
	documentReadErrorTemplateConstant        = "failed to read report document: %w"
	cloneErrorTemplateConstant               = "failed to clone repository: %w"
	fetchErrorTemplateConstant               = "failed to fetch repository updates: %w"
	branchResolutionErrorTemplateConstant    = "failed to resolve branch %q: %w"
	documentCopyErrorTemplateConstant        = "failed to place document in repository: %w"
	stageErrorTemplateConstant               = "failed to stage document: %w"
	statusErrorTemplateConstant              = "failed to inspect repository status: %w"
	commitErrorTemplateConstant              = "failed to commit document: %w"
	pushErrorTemplateConstant                = "failed to push branch %q: %w"
	currentBranchErrorTemplateConstant       = "failed to determine current branch: %w"
	disallowedBranchCharacterPatternConstant = `[\s~^:?*\[\]\\]`
	fallbackBaseBranchConstant               = "main"
	originReferencePrefixConstant            = "origin/"
	gitMetadataDirectoryConstant             = ".git"
	commitMessageTemplateConstant            = "%s: %s (%s)"
	commitTimestampLayoutConstant            = "2006-01-02 15:04"

	cloningRepositoryMessageConstant = "cloning repository"
	noChangesMessageConstant         = "document unchanged; nothing to publish"
	publishedMessageConstant         = "published report document"

	repositoryFieldConstant = "repository_path"
	branchFieldConstant     = "branch"
	documentFieldConstant   = "document"
)

// Publish failure modes callers are expected to branch on.
var (
	ErrGitClientNotConfigured  = errors.New(gitClientMissingMessageConstant)
	ErrRepositoryURLMissing    = errors.New(repositoryURLMissingMessageConstant)
	ErrAmbiguousCloneDirectory = errors.New(ambiguousCloneDirectoryMessageConstant)
	ErrInvalidBranchName       = errors.New(invalidBranchNameMessageConstant)
)

var disallowedBranchCharacterExpression = regexp.MustCompile(disallowedBranchCharacterPatternConstant)

// GitClient exposes the git operations publishing relies on.
type GitClient interface {
	Clone(executionContext context.Context, remoteURL string, destinationPath string) error
	FetchAll(executionContext context.Context, repositoryPath string) error
	LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	RemoteBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	Checkout(executionContext context.Context, repositoryPath string, branchName string) error
	CheckoutTracking(executionContext context.Context, repositoryPath string, branchName string) error
	CheckoutNewFrom(executionContext context.Context, repositoryPath string, branchName string, baseReference string) error
	RemoteHeadBranch(executionContext context.Context, repositoryPath string) (string, error)
	Stage(executionContext context.Context, repositoryPath string, stagedPath string) error
	StatusPorcelain(executionContext context.Context, repositoryPath string) (string, error)
	Commit(executionContext context.Context, repositoryPath string, commitMessage string) error
	Push(executionContext context.Context, repositoryPath string) error
	PushSetUpstream(executionContext context.Context, repositoryPath string, branchName string) error
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
}

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Dependencies enumerates external collaborators required for publishing.
type Dependencies struct {
	GitClient GitClient
	Clock     Clock
	Logger    *zap.Logger
}

// Options configures one publish operation. LocalReposBase is used as given;
// home-directory expansion is the caller's responsibility.
type Options struct {
	DocumentPath string
	BranchName   string
	GitHub       settings.GitHubSettings
}

// Result captures the observable outcomes of a publish.
type Result struct {
	RepositoryPath string
	BranchName     string
	RelativePath   string
	CommitMessage  string
	Committed      bool
	Pushed         bool
	SetUpstream    bool
}

// Service copies a report document into a clone of the configured repository
// and commits and pushes it on the requested branch.
type Service struct {
	gitClient GitClient
	clock     Clock
	logger    *zap.Logger
}

// NewService constructs a Service from the provided dependencies. A missing
// clock falls back to the system clock and a missing logger to a no-op one.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitClient == nil {
		return nil, ErrGitClientNotConfigured
	}
	if dependencies.Clock == nil {
		dependencies.Clock = SystemClock{}
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{gitClient: dependencies.GitClient, clock: dependencies.Clock, logger: dependencies.Logger}, nil
}

// Publish runs the full publish sequence: ensure a clone exists, put the
// requested branch in place, copy the document in, and commit and push it.
// A document identical to what the repository already holds short-circuits
// after staging; no empty commit is created and the run still succeeds.
func (service *Service) Publish(executionContext context.Context, options Options) (Result, error) {
	remoteURL := strings.TrimSpace(options.GitHub.RepoURL)
	if len(remoteURL) == 0 {
		return Result{}, ErrRepositoryURLMissing
	}

	branchName := strings.TrimSpace(options.BranchName)
	if len(branchName) == 0 {
		branchName = strings.TrimSpace(options.GitHub.DefaultBranch)
	}
	if len(branchName) == 0 {
		branchName = fallbackBaseBranchConstant
	}
	if validationError := ValidateBranchName(branchName); validationError != nil {
		return Result{}, validationError
	}

	documentContent, readError := os.ReadFile(options.DocumentPath)
	if readError != nil {
		return Result{}, fmt.Errorf(documentReadErrorTemplateConstant, readError)
	}

	repositoryPath := filepath.Join(options.GitHub.LocalReposBase, gitrepo.RepositoryName(remoteURL))
	if cloneError := service.ensureClone(executionContext, remoteURL, repositoryPath); cloneError != nil {
		return Result{}, cloneError
	}

	if branchError := service.resolveBranch(executionContext, repositoryPath, branchName); branchError != nil {
		return Result{}, fmt.Errorf(branchResolutionErrorTemplateConstant, branchName, branchError)
	}

	documentFileName := filepath.Base(options.DocumentPath)
	targetDirectory := filepath.Join(repositoryPath, options.GitHub.RepoSubdir)
	if directoryError := os.MkdirAll(targetDirectory, 0o755); directoryError != nil {
		return Result{}, fmt.Errorf(documentCopyErrorTemplateConstant, directoryError)
	}
	if writeError := os.WriteFile(filepath.Join(targetDirectory, documentFileName), documentContent, 0o644); writeError != nil {
		return Result{}, fmt.Errorf(documentCopyErrorTemplateConstant, writeError)
	}

	relativePath := filepath.ToSlash(filepath.Join(options.GitHub.RepoSubdir, documentFileName))
	if stageError := service.gitClient.Stage(executionContext, repositoryPath, relativePath); stageError != nil {
		return Result{}, fmt.Errorf(stageErrorTemplateConstant, stageError)
	}

	publishResult := Result{RepositoryPath: repositoryPath, BranchName: branchName, RelativePath: relativePath}

	statusOutput, statusError := service.gitClient.StatusPorcelain(executionContext, repositoryPath)
	if statusError != nil {
		return Result{}, fmt.Errorf(statusErrorTemplateConstant, statusError)
	}
	if len(statusOutput) == 0 {
		service.logger.Info(noChangesMessageConstant,
			zap.String(repositoryFieldConstant, repositoryPath),
			zap.String(documentFieldConstant, relativePath))
		return publishResult, nil
	}

	documentStem := strings.TrimSuffix(documentFileName, filepath.Ext(documentFileName))
	publishResult.CommitMessage = fmt.Sprintf(commitMessageTemplateConstant,
		options.GitHub.CommitPrefix, documentStem, service.clock.Now().Format(commitTimestampLayoutConstant))
	if commitError := service.gitClient.Commit(executionContext, repositoryPath, publishResult.CommitMessage); commitError != nil {
		return Result{}, fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	publishResult.Committed = true

	if pushError := service.gitClient.Push(executionContext, repositoryPath); pushError != nil {
		currentBranch, branchError := service.gitClient.CurrentBranch(executionContext, repositoryPath)
		if branchError != nil {
			return Result{}, fmt.Errorf(currentBranchErrorTemplateConstant, branchError)
		}
		if upstreamError := service.gitClient.PushSetUpstream(executionContext, repositoryPath, currentBranch); upstreamError != nil {
			return Result{}, fmt.Errorf(pushErrorTemplateConstant, currentBranch, upstreamError)
		}
		publishResult.SetUpstream = true
	}
	publishResult.Pushed = true

	service.logger.Info(publishedMessageConstant,
		zap.String(repositoryFieldConstant, repositoryPath),
		zap.String(branchFieldConstant, branchName),
		zap.String(documentFieldConstant, relativePath))
	return publishResult, nil
}

// ValidateBranchName rejects names containing whitespace or the metacharacters
// git reference names forbid.
func ValidateBranchName(branchName string) error {
	if disallowedBranchCharacterExpression.MatchString(branchName) {
		return fmt.Errorf(invalidBranchNameTemplateConstant, ErrInvalidBranchName, branchName)
	}
	return nil
}

// ensureClone guarantees repositoryPath holds a clone of remoteURL. A missing
// or empty directory is cloned into; an existing clone is refreshed; anything
// else is refused rather than guessed at.
func (service *Service) ensureClone(executionContext context.Context, remoteURL string, repositoryPath string) error {
	if _, statError := os.Stat(filepath.Join(repositoryPath, gitMetadataDirectoryConstant)); statError == nil {
		if fetchError := service.gitClient.FetchAll(executionContext, repositoryPath); fetchError != nil {
			return fmt.Errorf(fetchErrorTemplateConstant, fetchError)
		}
		return nil
	}

	directoryEntries, readError := os.ReadDir(repositoryPath)
	if readError == nil && len(directoryEntries) > 0 {
		return fmt.Errorf(ambiguousCloneDirectoryTemplateConstant, ErrAmbiguousCloneDirectory, repositoryPath)
	}

	service.logger.Info(cloningRepositoryMessageConstant, zap.String(repositoryFieldConstant, repositoryPath))
	if cloneError := service.gitClient.Clone(executionContext, remoteURL, repositoryPath); cloneError != nil {
		return fmt.Errorf(cloneErrorTemplateConstant, cloneError)
	}
	return nil
}

// resolveBranch puts branchName in place using the first strategy that
// applies: an existing local branch, a remote-tracking branch on origin, or
// a new branch started from origin's HEAD branch (falling back to main when
// the remote HEAD cannot be resolved).
func (service *Service) resolveBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	localExists, localError := service.gitClient.LocalBranchExists(executionContext, repositoryPath, branchName)
	if localError != nil {
		return localError
	}
	if localExists {
		return service.gitClient.Checkout(executionContext, repositoryPath, branchName)
	}

	remoteExists, remoteError := service.gitClient.RemoteBranchExists(executionContext, repositoryPath, branchName)
	if remoteError != nil {
		return remoteError
	}
	if remoteExists {
		return service.gitClient.CheckoutTracking(executionContext, repositoryPath, branchName)
	}

	baseBranch, headError := service.gitClient.RemoteHeadBranch(executionContext, repositoryPath)
	if headError != nil || len(baseBranch) == 0 {
		baseBranch = fallbackBaseBranchConstant
	}
	return service.gitClient.CheckoutNewFrom(executionContext, repositoryPath, branchName, originReferencePrefixConstant+baseBranch)
}
