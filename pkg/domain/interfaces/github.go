package interfaces

//go:generate moq -out mocks/github_mock.go -pkg mocks . GitHubAPI GitHubAPIProvider

import (
	"context"

	"github.com/m-mizutani/ffbot/pkg/domain/model"
)

// GitHubAPI defines operations for interacting with GitHub API on behalf of one installation
type GitHubAPI interface {
	// CompareCommits returns how far the head branch is ahead of and behind the base branch
	CompareCommits(ctx context.Context, req *model.BranchComparisonRequest) (*model.BranchComparison, error)

	// UpdateReference moves a Git reference to the requested commit
	UpdateReference(ctx context.Context, req *model.UpdateReferenceRequest) error
}

// GitHubAPIProvider authenticates against GitHub and returns a GitHubAPI bound to the credential
type GitHubAPIProvider interface {
	GetAPI(ctx context.Context, auth model.AppInstallation) (GitHubAPI, error)
}
