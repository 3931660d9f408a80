package feeds_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"devfeed/feeds"
	"devfeed/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawBundle(t *testing.T, body string) types.RawBundle {
	t.Helper()
	var raw types.RawBundle
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

const fullPayload = `{
	"github": {"github": {"items": [
		{"id": 1, "name": "x", "full_name": "o/x", "owner": {"avatar_url": "a"}, "description": "tool", "language": "Go", "stargazers_count": 5, "forks_count": 2, "html_url": "u"}
	]}},
	"stackoverflow": {"stackoverflow": {"items": [
		{"question_id": 10, "title": "How do I &amp; why?", "tags": ["go"], "score": 3, "owner": {"display_name": "ann"}, "link": "q"}
	]}},
	"hackernews": {"hackernews": [
		{"id": 100, "title": "Show HN", "by": "pg", "score": 42, "time": 1700000000, "url": "s"}
	]}
}`

func TestNormalizeEndToEndRepo(t *testing.T) {
	raw := rawBundle(t, `{"github":{"github":{"items":[{"id":1,"name":"x","stargazers_count":5,"forks_count":0,"html_url":"u"}]}}}`)

	bundle := feeds.Normalize(raw)

	require.Len(t, bundle.Repos, 1)
	assert.Equal(t, types.ID("1"), bundle.Repos[0].ID)
	assert.Equal(t, "x", bundle.Repos[0].Name)
	assert.Equal(t, 5, bundle.Repos[0].StarCount)
	assert.Equal(t, 0, bundle.Repos[0].ForkCount)
	assert.Equal(t, "u", bundle.Repos[0].URL)
	assert.Equal(t, feeds.NoDescription, bundle.Repos[0].Description)
	assert.NotNil(t, bundle.Questions)
	assert.Empty(t, bundle.Questions)
	assert.NotNil(t, bundle.Stories)
	assert.Empty(t, bundle.Stories)
}

func TestNormalizeFullPayload(t *testing.T) {
	bundle := feeds.Normalize(rawBundle(t, fullPayload))

	require.Len(t, bundle.Repos, 1)
	assert.Equal(t, types.RepoItem{
		ID:             "1",
		Name:           "x",
		FullName:       "o/x",
		OwnerAvatarURL: "a",
		Description:    "tool",
		Language:       "Go",
		StarCount:      5,
		ForkCount:      2,
		URL:            "u",
	}, bundle.Repos[0])

	require.Len(t, bundle.Questions, 1)
	assert.Equal(t, types.QuestionItem{
		ID:         "10",
		Title:      "How do I & why?",
		Tags:       []string{"go"},
		Score:      3,
		AuthorName: "ann",
		URL:        "q",
	}, bundle.Questions[0])

	require.Len(t, bundle.Stories, 1)
	assert.Equal(t, types.StoryItem{
		ID:       "100",
		Title:    "Show HN",
		Author:   "pg",
		Score:    42,
		URL:      "s",
		PostedAt: time.Unix(1700000000, 0).UTC(),
	}, bundle.Stories[0])
}

func TestNormalizeMissingBranches(t *testing.T) {
	full := rawBundle(t, fullPayload)
	sources := []string{feeds.SourceGitHub, feeds.SourceStackOverflow, feeds.SourceHackerNews}

	// every subset of the three branches, encoded as a bitmask of what is dropped
	for mask := 0; mask < 1<<len(sources); mask++ {
		raw := types.RawBundle{}
		var dropped []string
		for i, src := range sources {
			if mask&(1<<i) != 0 {
				dropped = append(dropped, src)
				continue
			}
			raw[src] = full[src]
		}

		t.Run("drop "+strings.Join(dropped, ","), func(t *testing.T) {
			bundle := feeds.Normalize(raw)
			assert.Equal(t, mask&1 == 0, len(bundle.Repos) == 1)
			assert.Equal(t, mask&2 == 0, len(bundle.Questions) == 1)
			assert.Equal(t, mask&4 == 0, len(bundle.Stories) == 1)
			assert.NotNil(t, bundle.Repos)
			assert.NotNil(t, bundle.Questions)
			assert.NotNil(t, bundle.Stories)
		})
	}
}

func TestNormalizeMalformedBranches(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "nil bundle", body: `null`},
		{name: "empty object", body: `{}`},
		{name: "branches are null", body: `{"github": null, "stackoverflow": null, "hackernews": null}`},
		{name: "inner missing", body: `{"github": {}, "stackoverflow": {}, "hackernews": {}}`},
		{name: "items missing", body: `{"github": {"github": {}}, "stackoverflow": {"stackoverflow": {}}}`},
		{name: "error envelopes", body: `{"github": {"error": "boom"}, "stackoverflow": {"stackoverflow": {"error": "boom"}}, "hackernews": {"error": "boom"}}`},
		{name: "mistyped branches", body: `{"github": [], "stackoverflow": "x", "hackernews": {"hackernews": {"items": []}}}`},
		{name: "items not a list", body: `{"github": {"github": {"items": {"id": 1}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := feeds.Normalize(rawBundle(t, tt.body))
			assert.Empty(t, bundle.Repos)
			assert.Empty(t, bundle.Questions)
			assert.Empty(t, bundle.Stories)
		})
	}
}

func TestNormalizeSkipsBadItems(t *testing.T) {
	raw := rawBundle(t, `{
		"github": {"github": {"items": [
			"not an object",
			{"id": 1, "name": "a", "stargazers_count": "many"},
			{"id": 2, "name": "b", "stargazers_count": -4, "forks_count": -1},
			null
		]}},
		"hackernews": {"hackernews": [
			null,
			{"id": 1, "title": "no time"},
			{"id": 2, "title": "zero time", "time": 0},
			{"id": 3, "title": "ok", "time": 60}
		]}
	}`)

	bundle := feeds.Normalize(raw)

	require.Len(t, bundle.Repos, 1)
	assert.Equal(t, "b", bundle.Repos[0].Name)
	assert.Equal(t, 0, bundle.Repos[0].StarCount)
	assert.Equal(t, 0, bundle.Repos[0].ForkCount)

	require.Len(t, bundle.Stories, 1)
	assert.Equal(t, types.ID("3"), bundle.Stories[0].ID)
	assert.Equal(t, time.Unix(60, 0).UTC(), bundle.Stories[0].PostedAt)
}

func TestNormalizeQuestionDefaults(t *testing.T) {
	raw := rawBundle(t, `{"stackoverflow": {"stackoverflow": {"items": [{"question_id": 7, "title": "t", "link": "l"}]}}}`)

	bundle := feeds.Normalize(raw)

	require.Len(t, bundle.Questions, 1)
	assert.Equal(t, []string{}, bundle.Questions[0].Tags)
	assert.Equal(t, 0, bundle.Questions[0].Score)
	assert.Empty(t, bundle.Questions[0].AuthorName)
}

func TestNormalizeKeepsSourceOrder(t *testing.T) {
	raw := rawBundle(t, `{"github": {"github": {"items": [{"id": 3, "name": "c"}, {"id": 1, "name": "a"}, {"id": "2", "name": "b"}]}}}`)

	bundle := feeds.Normalize(raw)

	names := make([]string, 0, len(bundle.Repos))
	for _, r := range bundle.Repos {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
	assert.Equal(t, types.ID("2"), bundle.Repos[2].ID)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := rawBundle(t, fullPayload)

	first, err := json.Marshal(feeds.Normalize(raw))
	require.NoError(t, err)
	second, err := json.Marshal(feeds.Normalize(raw))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTruncateDescription(t *testing.T) {
	sixty := strings.Repeat("a", 60)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: feeds.NoDescription},
		{name: "short", input: "tiny", expected: "tiny"},
		{name: "exactly 60", input: sixty, expected: sixty},
		{name: "61 characters", input: sixty + "b", expected: sixty + "..."},
		{name: "multibyte runes", input: strings.Repeat("é", 61), expected: strings.Repeat("é", 60) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, feeds.TruncateDescription(tt.input))
		})
	}
}

func TestSections(t *testing.T) {
	sections := feeds.Sections()
	require.Len(t, sections, 3)
	assert.Equal(t, types.FeedRepos, sections[0].Key)
	assert.Equal(t, feeds.DisplayRepos, sections[0].DisplayName)
	assert.Equal(t, types.FeedQuestions, sections[1].Key)
	assert.Equal(t, types.FeedStories, sections[2].Key)

	// callers get their own copy
	sections[0].DisplayName = "changed"
	assert.Equal(t, feeds.DisplayRepos, feeds.Sections()[0].DisplayName)

	bundle := feeds.Normalize(rawBundle(t, fullPayload))
	items := sections[2].Items(bundle)
	require.Len(t, items, 1)
	assert.Equal(t, "Show HN", items[0].ItemTitle())
}
