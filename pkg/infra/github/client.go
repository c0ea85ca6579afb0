package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/domain/interfaces"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// client is bound to a single installation access token
type client struct {
	gh *github.Client
}

var _ interfaces.GitHubAPI = (*client)(nil)

// CompareCommits compares HeadBranch against BaseBranch
func (c *client) CompareCommits(ctx context.Context, req *model.BranchComparisonRequest) (*model.BranchComparison, error) {
	logger := ctxlog.From(ctx)

	owner, repo, err := splitRepositoryName(req.RepositoryName)
	if err != nil {
		return nil, unspecific(err)
	}

	comparison, resp, err := c.gh.Repositories.CompareCommits(ctx, owner, repo, req.BaseBranch, req.HeadBranch, nil)
	if err != nil {
		status := failureStatus(resp, err)
		if status == http.StatusNotFound {
			if msg, ok := upstreamMessage(err, "Repository not found"); ok {
				return nil, model.NewAPIError(model.APIErrorRepositoryNotFound, msg, err)
			}
		}

		logger.Error("Comparing commits failed",
			"status", status,
			"repository", req.RepositoryName,
			"error", err,
		)
		return nil, unspecific(goerr.Wrap(err, "failed to compare commits",
			goerr.V("repository", req.RepositoryName),
			goerr.V("status", status),
		))
	}

	// Counts are required and never negative
	if comparison.AheadBy == nil || comparison.BehindBy == nil ||
		comparison.GetAheadBy() < 0 || comparison.GetBehindBy() < 0 {
		logger.Error("Malformed commit comparison",
			"ahead_by", comparison.AheadBy,
			"behind_by", comparison.BehindBy,
		)
		return nil, unspecific(goerr.New("malformed commit comparison",
			goerr.V("repository", req.RepositoryName)))
	}

	return &model.BranchComparison{
		AheadBy:  comparison.GetAheadBy(),
		BehindBy: comparison.GetBehindBy(),
	}, nil
}

// UpdateReference moves Reference to SHA
func (c *client) UpdateReference(ctx context.Context, req *model.UpdateReferenceRequest) error {
	logger := ctxlog.From(ctx)

	owner, repo, err := splitRepositoryName(req.RepositoryName)
	if err != nil {
		return unspecific(err)
	}

	_, resp, err := c.gh.Git.UpdateRef(ctx, owner, repo, req.Reference, github.UpdateRef{
		SHA:   req.SHA,
		Force: github.Ptr(req.Force),
	})
	if err == nil {
		return nil
	}

	status := failureStatus(resp, err)
	switch status {
	case http.StatusNotFound:
		if msg, ok := upstreamMessage(err, "Repository not found"); ok {
			return model.NewAPIError(model.APIErrorRepositoryNotFound, msg, err)
		}

	case http.StatusForbidden:
		if msg, ok := upstreamMessage(err, "Not allowed to update reference"); ok {
			return model.NewAPIError(model.APIErrorAuthorization, msg, err)
		}
	}

	logger.Error("Updating reference failed",
		"status", status,
		"repository", req.RepositoryName,
		"reference", req.Reference,
		"error", err,
	)
	return unspecific(goerr.Wrap(err, "failed to update reference",
		goerr.V("repository", req.RepositoryName),
		goerr.V("reference", req.Reference),
		goerr.V("status", status),
	))
}
