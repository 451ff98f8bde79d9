package driven

import "context"

// RepositoryClient fetches file contents from a source repository.
// Used by the webhook flow to pull the current version of paths named
// in a push notification.
type RepositoryClient interface {
	// GetFilesContent returns the current content of each path in the
	// given repository, in the same order as the input paths.
	GetFilesContent(ctx context.Context, paths []string, repoFullName string) ([]string, error)
}
