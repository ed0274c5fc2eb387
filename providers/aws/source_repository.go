package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codecommit"
)

// CodeCommitAPI is the subset of the CodeCommit client we call
type CodeCommitAPI interface {
	GetBranch(ctx context.Context, params *codecommit.GetBranchInput, optFns ...func(*codecommit.Options)) (*codecommit.GetBranchOutput, error)
}

// SourceRepository reads branch heads from CodeCommit
type SourceRepository struct {
	api CodeCommitAPI
}

// NewSourceRepository creates a new CodeCommit adapter
func NewSourceRepository(api CodeCommitAPI) *SourceRepository {
	return &SourceRepository{api: api}
}

// BranchHead returns the commit id at the tip of branch
func (r *SourceRepository) BranchHead(ctx context.Context, repository, branch string) (string, error) {
	result, err := r.api.GetBranch(ctx, &codecommit.GetBranchInput{
		RepositoryName: aws.String(repository),
		BranchName:     aws.String(branch),
	})
	if err != nil {
		return "", fmt.Errorf("codecommit GetBranch %s/%s: %w", repository, branch, err)
	}
	if result.Branch == nil || aws.ToString(result.Branch.CommitId) == "" {
		return "", fmt.Errorf("branch %s/%s has no commit", repository, branch)
	}
	return aws.ToString(result.Branch.CommitId), nil
}
