package feeds

import (
	"encoding/json"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"devfeed/types"

	"github.com/samber/lo"
)

const (
	// MaxDescriptionRunes is the longest repo description kept before truncation
	MaxDescriptionRunes = 60

	// Ellipsis is appended to a truncated description
	Ellipsis = "..."

	// NoDescription replaces a missing repo description
	NoDescription = "No description available"
)

// Source keys in the aggregation payload. Each branch repeats its own key
// one level down: {"github": {"github": {...}}}.
const (
	SourceGitHub        = "github"
	SourceStackOverflow = "stackoverflow"
	SourceHackerNews    = "hackernews"
)

type rawRepo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	FullName string   `json:"full_name"`
	Owner    *struct {
		AvatarURL string `json:"avatar_url"`
	} `json:"owner"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Stars       *int    `json:"stargazers_count"`
	Forks       *int    `json:"forks_count"`
	HTMLURL     string  `json:"html_url"`
}

type rawQuestion struct {
	ID    types.ID `json:"question_id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	Score *int     `json:"score"`
	Owner *struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Link string `json:"link"`
}

type rawStory struct {
	ID    types.ID `json:"id"`
	Title string   `json:"title"`
	By    *string  `json:"by"`
	Score *int     `json:"score"`
	Time  *int64   `json:"time"`
	URL   string   `json:"url"`
}

// Normalize maps an aggregation payload onto the canonical bundle. It never
// fails: a missing or malformed branch yields an empty feed and a single
// undecodable item is skipped without affecting its neighbours.
func Normalize(raw types.RawBundle) types.FeedBundle {
	return types.FeedBundle{
		Repos:     normalizeRepos(itemsOf(branch(raw, SourceGitHub))),
		Questions: normalizeQuestions(itemsOf(branch(raw, SourceStackOverflow))),
		Stories:   normalizeStories(listOf(branch(raw, SourceHackerNews))),
	}
}

// branch unwraps raw[source][source]
func branch(raw types.RawBundle, source string) json.RawMessage {
	outer, ok := raw[source]
	if !ok {
		return nil
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(outer, &inner); err != nil {
		return nil
	}
	return inner[source]
}

// itemsOf reads {"items": [...]} and returns the raw elements
func itemsOf(msg json.RawMessage) []json.RawMessage {
	if len(msg) == 0 {
		return nil
	}
	var envelope struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		return nil
	}
	return listOf(envelope.Items)
}

func listOf(msg json.RawMessage) []json.RawMessage {
	if len(msg) == 0 {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(msg, &list); err != nil {
		return nil
	}
	return list
}

// decodeObject rejects null and non-object elements up front so the
// callers only ever see well-formed records.
func decodeObject[T any](msg json.RawMessage) (T, bool) {
	var out T
	trimmed := strings.TrimSpace(string(msg))
	if !strings.HasPrefix(trimmed, "{") {
		return out, false
	}
	if err := json.Unmarshal(msg, &out); err != nil {
		return out, false
	}
	return out, true
}

func normalizeRepos(in []json.RawMessage) []types.RepoItem {
	return lo.FilterMap(in, func(msg json.RawMessage, _ int) (types.RepoItem, bool) {
		r, ok := decodeObject[rawRepo](msg)
		if !ok {
			return types.RepoItem{}, false
		}
		item := types.RepoItem{
			ID:          r.ID,
			Name:        r.Name,
			FullName:    r.FullName,
			Description: TruncateDescription(lo.FromPtrOr(r.Description, "")),
			Language:    lo.FromPtrOr(r.Language, ""),
			StarCount:   max(0, lo.FromPtrOr(r.Stars, 0)),
			ForkCount:   max(0, lo.FromPtrOr(r.Forks, 0)),
			URL:         r.HTMLURL,
		}
		if r.Owner != nil {
			item.OwnerAvatarURL = r.Owner.AvatarURL
		}
		return item, true
	})
}

func normalizeQuestions(in []json.RawMessage) []types.QuestionItem {
	return lo.FilterMap(in, func(msg json.RawMessage, _ int) (types.QuestionItem, bool) {
		q, ok := decodeObject[rawQuestion](msg)
		if !ok {
			return types.QuestionItem{}, false
		}
		item := types.QuestionItem{
			ID:    q.ID,
			Title: html.UnescapeString(q.Title),
			Tags:  lo.Ternary(q.Tags == nil, []string{}, q.Tags),
			Score: lo.FromPtrOr(q.Score, 0),
			URL:   q.Link,
		}
		if q.Owner != nil {
			item.AuthorName = html.UnescapeString(q.Owner.DisplayName)
		}
		return item, true
	})
}

func normalizeStories(in []json.RawMessage) []types.StoryItem {
	return lo.FilterMap(in, func(msg json.RawMessage, _ int) (types.StoryItem, bool) {
		s, ok := decodeObject[rawStory](msg)
		if !ok || s.Time == nil || *s.Time <= 0 {
			return types.StoryItem{}, false
		}
		return types.StoryItem{
			ID:       s.ID,
			Title:    s.Title,
			Author:   lo.FromPtrOr(s.By, ""),
			Score:    lo.FromPtrOr(s.Score, 0),
			URL:      s.URL,
			PostedAt: time.Unix(*s.Time, 0).UTC(),
		}, true
	})
}

// TruncateDescription applies the display rule for repo descriptions
func TruncateDescription(desc string) string {
	if desc == "" {
		return NoDescription
	}
	if utf8.RuneCountInString(desc) <= MaxDescriptionRunes {
		return desc
	}
	return string([]rune(desc)[:MaxDescriptionRunes]) + Ellipsis
}
