package feeds

import "devfeed/types"

// Display names used by the dashboard tabs
const (
	DisplayRepos     = "Trending Repositories"
	DisplayQuestions = "Stack Overflow"
	DisplayStories   = "Top Stories"
)

var sections = []types.SectionDescriptor{
	{Key: types.FeedRepos, DisplayName: DisplayRepos},
	{Key: types.FeedQuestions, DisplayName: DisplayQuestions},
	{Key: types.FeedStories, DisplayName: DisplayStories},
}

// Sections returns the static, ordered section table
func Sections() []types.SectionDescriptor {
	out := make([]types.SectionDescriptor, len(sections))
	copy(out, sections)
	return out
}
