// Package gitrepo wraps the git operations needed to publish report documents:
// cloning, branch inspection and checkout, staging, committing, and pushing.
// Every command runs with terminal prompts disabled so an unreachable or
// credential-hungry remote fails fast instead of hanging.
package gitrepo
