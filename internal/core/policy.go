package core

// RepoPolicy represents the structure of an optional .reviewloop.yml file in
// the repository under review. It lets repository owners tune the review
// prompt without redeploying the service.
type RepoPolicy struct {
	// Custom instructions appended to the initial conversation message.
	CustomInstructions []string `yaml:"custom_instructions"`

	// Paths (directory prefixes) whose changed files are not injected into
	// the conversation. Example: ["vendor", "dist"]
	ExcludePaths []string `yaml:"exclude_paths"`
}

// DefaultRepoPolicy returns a policy with default values.
func DefaultRepoPolicy() *RepoPolicy {
	return &RepoPolicy{
		CustomInstructions: []string{},
		ExcludePaths:       []string{},
	}
}
