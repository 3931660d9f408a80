package tui

import (
	"fmt"
	"strings"

	"devfeed/types"

	"github.com/samber/lo"
)

// renderItem draws one normalized entry. Unknown item kinds fall back to
// their title and link.
func renderItem(item types.Item) string {
	switch it := item.(type) {
	case types.RepoItem:
		return renderRepo(it)
	case types.QuestionItem:
		return renderQuestion(it)
	case types.StoryItem:
		return renderStory(it)
	default:
		return ItemTitleStyle.Render(item.ItemTitle()) + "\n" + InfoStyle.Render(item.ItemURL())
	}
}

func renderRepo(r types.RepoItem) string {
	var b strings.Builder
	name := lo.CoalesceOrEmpty(r.FullName, r.Name)
	b.WriteString(ItemTitleStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(r.Description)
	b.WriteString("\n")
	b.WriteString(StarStyle.Render(fmt.Sprintf("★ %d", r.StarCount)))
	b.WriteString(InfoStyle.Render(fmt.Sprintf("  ⑂ %d  %s  %s",
		r.ForkCount,
		lo.CoalesceOrEmpty(r.Language, TextNoLanguage),
		r.URL,
	)))
	return b.String()
}

func renderQuestion(q types.QuestionItem) string {
	var b strings.Builder
	b.WriteString(ItemTitleStyle.Render(q.Title))
	b.WriteString("\n")
	if len(q.Tags) > 0 {
		tags := lo.Map(q.Tags, func(tag string, _ int) string { return TagStyle.Render(tag) })
		b.WriteString(strings.Join(tags, " "))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(fmt.Sprintf("score %d · by %s  %s",
		q.Score,
		lo.CoalesceOrEmpty(q.AuthorName, TextAnonymous),
		q.URL,
	)))
	return b.String()
}

func renderStory(s types.StoryItem) string {
	var b strings.Builder
	b.WriteString(ItemTitleStyle.Render(s.Title))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("%d points by %s · %s  %s",
		s.Score,
		lo.CoalesceOrEmpty(s.Author, TextAnonymous),
		s.PostedAt.Local().Format(TextDateLayout),
		s.URL,
	)))
	return b.String()
}

// renderSection draws at most limit items of one section
func renderSection(section types.SectionDescriptor, bundle types.FeedBundle, limit int) string {
	items := section.Items(bundle)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf(TextSectionHeader, section.DisplayName, len(items))))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(InfoStyle.Render(TextEmptySection))
		return b.String()
	}

	shown := items[:min(len(items), limit)]
	b.WriteString(strings.Join(lo.Map(shown, func(it types.Item, _ int) string {
		return renderItem(it)
	}), "\n\n"))

	if rest := len(items) - len(shown); rest > 0 {
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf(TextMoreItems, rest)))
	}
	return b.String()
}
