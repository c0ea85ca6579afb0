package model

// AppInstallation authenticates as one installation of the GitHub App
type AppInstallation struct {
	InstallationID int64
}

// BranchComparisonRequest identifies two branches of a repository to compare
type BranchComparisonRequest struct {
	RepositoryName string // owner/repo
	BaseBranch     string
	HeadBranch     string
}

// BranchComparison is how far HeadBranch has moved relative to BaseBranch
type BranchComparison struct {
	AheadBy  int
	BehindBy int
}

// CanFastForward reports whether the head branch is exactly one commit ahead of
// the base branch and has not diverged from it.
func (c *BranchComparison) CanFastForward() bool {
	return c.AheadBy == 1 && c.BehindBy == 0
}

// UpdateReferenceRequest moves a Git reference to a commit
type UpdateReferenceRequest struct {
	RepositoryName string // owner/repo
	Reference      string // e.g. heads/main
	SHA            string
	Force          bool
}
