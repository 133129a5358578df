// Package review implements the review orchestration pipeline: it turns a
// qualifying webhook delivery into a seeded conversation, injects the pull
// request's changes, and requests a structured review from the conversation
// engine.
package review

import (
	"fmt"
	"strings"

	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/github"
)

// reviewRequestMessage is the fixed final message asking the engine for a
// comprehensive structured review.
const reviewRequestMessage = `Now that you've seen the PR changes, please provide a comprehensive review of the code. Include:

1. A summary of the changes
2. Code quality assessment
3. Potential bugs or issues
4. Performance considerations
5. Security concerns
6. Suggested improvements

If there are issues that need fixing, please describe them in detail.`

// buildInitialMessage composes the message that seeds a review conversation:
// PR metadata, the description body, one summary line per changed file in
// gateway order, and the fixed instructional prompt.
func buildInitialMessage(ref core.PullRequestRef, snap *github.PullRequestSnapshot, files []github.ChangedFile, policy *core.RepoPolicy) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# PR Review: %s\n\n", snap.Title)
	sb.WriteString("## PR Information\n")
	fmt.Fprintf(&sb, "- Repository: %s\n", ref.RepoFullName)
	fmt.Fprintf(&sb, "- PR Number: %d\n", ref.Number)
	fmt.Fprintf(&sb, "- PR URL: %s\n", snap.HTMLURL)
	fmt.Fprintf(&sb, "- Head Branch: %s\n", snap.HeadBranch)
	fmt.Fprintf(&sb, "- Base Branch: %s\n\n", snap.BaseBranch)

	sb.WriteString("## PR Description\n")
	sb.WriteString(snap.Body)
	sb.WriteString("\n\n## Files Changed\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "- %s (%s): +%d -%d (%d total changes)\n",
			f.Filename, f.Status, f.Additions, f.Deletions, f.Changes)
	}

	if policy != nil && len(policy.CustomInstructions) > 0 {
		sb.WriteString("\n## Repository Instructions\n")
		for _, instruction := range policy.CustomInstructions {
			fmt.Fprintf(&sb, "- %s\n", instruction)
		}
	}

	sb.WriteString(`
Please review this PR and provide feedback on:
1. Code quality and best practices
2. Potential bugs or issues
3. Performance considerations
4. Security concerns
5. Suggested improvements

If you find issues that need fixing, please create a new PR with the necessary changes.`)

	return sb.String()
}

// buildPatchMessage formats a unified diff for injection into the conversation.
func buildPatchMessage(file github.ChangedFile) string {
	return fmt.Sprintf("File: %s (%s)\n\n```diff\n%s\n```", file.Filename, file.Status, file.Patch)
}

// buildContentMessage formats a full file listing for files whose patch was
// not included in the API response.
func buildContentMessage(filename, content string) string {
	return fmt.Sprintf("File: %s (New file)\n\n```\n%s\n```", filename, content)
}

// refFromBlobURL extracts the commit reference from a changed file's blob
// URL, which has the form https://github.com/{owner}/{repo}/blob/{sha}/{path}.
func refFromBlobURL(blobURL string) string {
	parts := strings.Split(blobURL, "/")
	for i, part := range parts {
		if part == "blob" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
