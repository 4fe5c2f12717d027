package settings

const (
	defaultOutputDirectoryConstant = "./output"
	defaultTeamNameConstant        = "Teamnamn"
	defaultRepositoryURLConstant   = ""
	defaultLocalReposBaseConstant  = "~/dev"
	defaultRepoSubdirConstant      = "docs/protokoll"
	defaultBranchNameConstant      = "main"
	defaultCommitPrefixConstant    = "Lägg till protokoll"
)

// GitHubSettings configures where published reports are committed.
type GitHubSettings struct {
	RepoURL        string `json:"repo_url" mapstructure:"repo_url"`
	LocalReposBase string `json:"local_repos_base" mapstructure:"local_repos_base"`
	RepoSubdir     string `json:"repo_subdir" mapstructure:"repo_subdir"`
	DefaultBranch  string `json:"default_branch" mapstructure:"default_branch"`
	CommitPrefix   string `json:"commit_prefix" mapstructure:"commit_prefix"`
}

// AppSettings carries the persisted preferences of the tool. Every field has
// a usable default so a missing or damaged settings file never blocks a run.
type AppSettings struct {
	OutputDir string         `json:"output_dir" mapstructure:"output_dir"`
	LastTeam  string         `json:"last_team" mapstructure:"last_team"`
	GitHub    GitHubSettings `json:"github" mapstructure:"github"`
}

// DefaultSettings returns the baseline configuration applied before any
// persisted values are merged in.
func DefaultSettings() AppSettings {
	return AppSettings{
		OutputDir: defaultOutputDirectoryConstant,
		LastTeam:  defaultTeamNameConstant,
		GitHub: GitHubSettings{
			RepoURL:        defaultRepositoryURLConstant,
			LocalReposBase: defaultLocalReposBaseConstant,
			RepoSubdir:     defaultRepoSubdirConstant,
			DefaultBranch:  defaultBranchNameConstant,
			CommitPrefix:   defaultCommitPrefixConstant,
		},
	}
}
