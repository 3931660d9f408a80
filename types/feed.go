package types

import (
	"encoding/json"
	"time"
)

// FeedKey identifies one of the normalized feeds in a FeedBundle
type FeedKey string

const (
	FeedRepos     FeedKey = "repos"
	FeedQuestions FeedKey = "questions"
	FeedStories   FeedKey = "stories"
)

// RawBundle is the undecoded aggregation payload, keyed by source name.
// Nothing about the shape of a branch is guaranteed.
type RawBundle map[string]json.RawMessage

// Item is the common view renderers get over any normalized entry
type Item interface {
	ItemID() ID
	ItemTitle() string
	ItemURL() string
}

// RepoItem is a trending code repository
type RepoItem struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	FullName       string `json:"full_name"`
	OwnerAvatarURL string `json:"owner_avatar_url,omitempty"`
	Description    string `json:"description"`
	Language       string `json:"language,omitempty"`
	StarCount      int    `json:"star_count"`
	ForkCount      int    `json:"fork_count"`
	URL            string `json:"url"`
}

func (r RepoItem) ItemID() ID        { return r.ID }
func (r RepoItem) ItemTitle() string { return r.Name }
func (r RepoItem) ItemURL() string   { return r.URL }

// QuestionItem is a Q&A site question
type QuestionItem struct {
	ID         ID       `json:"id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Score      int      `json:"score"`
	AuthorName string   `json:"author_name,omitempty"`
	URL        string   `json:"url"`
}

func (q QuestionItem) ItemID() ID        { return q.ID }
func (q QuestionItem) ItemTitle() string { return q.Title }
func (q QuestionItem) ItemURL() string   { return q.URL }

// StoryItem is a link-aggregator story
type StoryItem struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author,omitempty"`
	Score    int       `json:"score"`
	URL      string    `json:"url"`
	PostedAt time.Time `json:"posted_at"`
}

func (s StoryItem) ItemID() ID        { return s.ID }
func (s StoryItem) ItemTitle() string { return s.Title }
func (s StoryItem) ItemURL() string   { return s.URL }

// FeedBundle is the normalized snapshot of all feeds after one fetch.
// Slices keep source order. A bundle is never mutated once built.
type FeedBundle struct {
	Repos     []RepoItem     `json:"repos"`
	Questions []QuestionItem `json:"questions"`
	Stories   []StoryItem    `json:"stories"`
}

// Items returns a fresh slice over the feed named by key, or nil for an
// unknown key.
func (b FeedBundle) Items(key FeedKey) []Item {
	switch key {
	case FeedRepos:
		return toItems(b.Repos)
	case FeedQuestions:
		return toItems(b.Questions)
	case FeedStories:
		return toItems(b.Stories)
	default:
		return nil
	}
}

// Len reports the number of items in the feed named by key
func (b FeedBundle) Len(key FeedKey) int {
	switch key {
	case FeedRepos:
		return len(b.Repos)
	case FeedQuestions:
		return len(b.Questions)
	case FeedStories:
		return len(b.Stories)
	default:
		return 0
	}
}

func toItems[T Item](in []T) []Item {
	out := make([]Item, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// SectionDescriptor pairs a feed with how it is presented
type SectionDescriptor struct {
	Key         FeedKey
	DisplayName string
}

// Items is the section's accessor over a bundle
func (s SectionDescriptor) Items(b FeedBundle) []Item {
	return b.Items(s.Key)
}
