package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/domain/interfaces"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// WorkflowRun fast-forwards the default branch to the head of a branch whose
// workflow run just succeeded.
type WorkflowRun struct {
	provider interfaces.GitHubAPIProvider
}

// NewWorkflowRun creates a new WorkflowRun
func NewWorkflowRun(provider interfaces.GitHubAPIProvider) *WorkflowRun {
	return &WorkflowRun{provider: provider}
}

// parseWorkflowRunEvent decodes a workflow_run payload and checks that the fields
// needed to act on it are present. head_branch and conclusion are optional.
func parseWorkflowRunEvent(body []byte) (*github.WorkflowRunEvent, error) {
	var event github.WorkflowRunEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, goerr.Wrap(err, "failed to decode workflow_run event")
	}

	switch {
	case event.Action == nil:
		return nil, goerr.New("missing field `action`")
	case event.WorkflowRun == nil:
		return nil, goerr.New("missing field `workflow_run`")
	case event.WorkflowRun.HeadSHA == nil:
		return nil, goerr.New("missing field `workflow_run.head_sha`")
	case event.Repo == nil:
		return nil, goerr.New("missing field `repository`")
	case event.Repo.FullName == nil:
		return nil, goerr.New("missing field `repository.full_name`")
	case event.Repo.DefaultBranch == nil:
		return nil, goerr.New("missing field `repository.default_branch`")
	case event.Installation == nil || event.Installation.ID == nil:
		return nil, goerr.New("missing field `installation.id`")
	}

	return &event, nil
}

// isSuccessful reports whether the run completed with conclusion success
func isSuccessful(event *github.WorkflowRunEvent) bool {
	return event.GetAction() == model.WorkflowRunActionCompleted &&
		event.GetWorkflowRun().GetConclusion() == model.WorkflowRunConclusionSuccess
}

// HandleEvent fast-forwards the default branch when the run succeeded and its head
// branch is exactly one commit ahead of the default branch without diverging.
// Every other situation is a no-op.
func (uc *WorkflowRun) HandleEvent(ctx context.Context, event *github.WorkflowRunEvent) error {
	logger := ctxlog.From(ctx)

	if !isSuccessful(event) {
		logger.Debug("Ignoring workflow run that did not succeed",
			"action", event.GetAction(),
			"conclusion", event.GetWorkflowRun().GetConclusion(),
		)
		return nil
	}

	// A run without a branch (e.g. triggered by a tag) has nothing to merge
	if event.GetWorkflowRun().HeadBranch == nil {
		logger.Info("Ignoring successful workflow run without head branch",
			"run_id", event.GetWorkflowRun().GetID(),
		)
		return nil
	}

	repositoryName := event.GetRepo().GetFullName()
	defaultBranch := event.GetRepo().GetDefaultBranch()
	headBranch := event.GetWorkflowRun().GetHeadBranch()
	headSHA := event.GetWorkflowRun().GetHeadSHA()
	installationID := event.GetInstallation().GetID()

	logger = logger.With(
		"repository", repositoryName,
		"installation_id", installationID,
		"default_branch", defaultBranch,
		"head_branch", headBranch,
	)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Processing successful workflow run event")

	api, err := uc.provider.GetAPI(ctx, model.AppInstallation{InstallationID: installationID})
	if err != nil {
		return model.NewEventError(model.EventErrorAPIRequestFailed, err)
	}

	comparison, err := api.CompareCommits(ctx, &model.BranchComparisonRequest{
		RepositoryName: repositoryName,
		BaseBranch:     defaultBranch,
		HeadBranch:     headBranch,
	})
	if err != nil {
		return model.NewEventError(model.EventErrorAPIRequestFailed, err)
	}

	logger.Info("Branch comparison was successful",
		"ahead_by", comparison.AheadBy,
		"behind_by", comparison.BehindBy,
	)

	if !comparison.CanFastForward() {
		logger.Info("Head branch is not eligible for fast-forward merge")
		return nil
	}

	// The default branch is never force-pushed
	if err := api.UpdateReference(ctx, &model.UpdateReferenceRequest{
		RepositoryName: repositoryName,
		Reference:      "heads/" + defaultBranch,
		SHA:            headSHA,
		Force:          false,
	}); err != nil {
		return model.NewEventError(model.EventErrorAPIRequestFailed, err)
	}

	logger.Info("Fast-forwarded default branch", "sha", headSHA)
	return nil
}
