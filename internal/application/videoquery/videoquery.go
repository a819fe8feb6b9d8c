// Package videoquery resolves a team video listing from search text,
// project and language filters, and a sort key.
package videoquery

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"teamvideos/internal/domain/video"
)

// NoVideosText is shown when a query matches nothing.
const NoVideosText = "Sorry, no videos here"

// ProjectNone selects videos that are not in any project.
const ProjectNone = "none"

// Polarity selects whether a language filter requires or excludes a completed subtitle.
type Polarity int

const (
	// Has keeps videos with a completed subtitle in the language.
	Has Polarity = iota
	// Missing keeps videos without a completed subtitle in the language.
	Missing
)

// LanguageFilter is one language constraint. Code may be a language code
// ("ru") or an English display name ("Russian").
type LanguageFilter struct {
	Code     string
	Polarity Polarity
}

// SortKey orders the result.
type SortKey string

const (
	SortNameAsc       SortKey = "name"
	SortNameDesc      SortKey = "-name"
	SortNewest        SortKey = "-time"
	SortOldest        SortKey = "time"
	SortMostSubtitles SortKey = "-subs"
)

// DefaultSort is used when no sort key is given.
const DefaultSort = SortNewest

// SortOptions lists the sort keys with their labels, in display order.
var SortOptions = []struct {
	Key   SortKey
	Label string
}{
	{SortNewest, "time, newest"},
	{SortOldest, "time, oldest"},
	{SortNameAsc, "name, a-z"},
	{SortNameDesc, "name, z-a"},
	{SortMostSubtitles, "most subtitles"},
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortNameAsc, SortNameDesc, SortNewest, SortOldest, SortMostSubtitles:
		return true
	}
	return false
}

// Query is a resolved listing request.
type Query struct {
	Text      string
	Project   string // "" = any, ProjectNone = no project, otherwise a project ID
	Languages []LanguageFilter
	Sort      SortKey
}

// Filtered reports whether the query narrows the listing beyond sorting.
func (q Query) Filtered() bool {
	return strings.TrimSpace(q.Text) != "" || q.Project != "" || len(q.Languages) > 0
}

// Result is the ordered outcome of Resolve.
type Result struct {
	Videos []video.Video
}

// NoMatch reports the empty-result state. It is not an error.
func (r Result) NoMatch() bool {
	return len(r.Videos) == 0
}

// Titles returns the result titles in order.
func (r Result) Titles() []string {
	titles := make([]string, len(r.Videos))
	for i, v := range r.Videos {
		titles[i] = v.Title
	}
	return titles
}

// Resolve filters and orders videos.
// PRE: videos are in creation order
// POST: result is a new slice; ties in the sort keep input order
// INVARIANT: videos is not mutated
func Resolve(videos []video.Video, q Query) Result {
	m := newMatcher(q)
	out := make([]video.Video, 0, len(videos))
	for _, v := range videos {
		if m.matches(v) {
			out = append(out, v)
		}
	}
	sortVideos(out, q.Sort)
	return Result{Videos: out}
}

type matcher struct {
	fold      cases.Caser
	tokens    []string
	project   string
	languages []LanguageFilter
}

func newMatcher(q Query) *matcher {
	m := &matcher{
		fold:    cases.Fold(),
		project: q.Project,
	}
	for _, tok := range strings.Fields(q.Text) {
		m.tokens = append(m.tokens, m.normalize(tok))
	}
	for _, lf := range q.Languages {
		lf.Code = strings.ToLower(strings.TrimSpace(lf.Code))
		if lf.Code != "" {
			m.languages = append(m.languages, lf)
		}
	}
	return m
}

func (m *matcher) normalize(s string) string {
	return m.fold.String(norm.NFC.String(s))
}

func (m *matcher) matches(v video.Video) bool {
	return m.matchesProject(v) && m.matchesLanguages(v) && m.matchesText(v)
}

func (m *matcher) matchesProject(v video.Video) bool {
	switch m.project {
	case "":
		return true
	case ProjectNone:
		return v.ProjectID == ""
	default:
		return v.ProjectID == m.project
	}
}

func (m *matcher) matchesLanguages(v video.Video) bool {
	for _, lf := range m.languages {
		has := hasCompleted(v, lf.Code)
		if lf.Polarity == Has && !has {
			return false
		}
		if lf.Polarity == Missing && has {
			return false
		}
	}
	return true
}

// hasCompleted matches a filter against subtitle codes and their English names.
func hasCompleted(v video.Video, filter string) bool {
	for _, s := range v.Subtitles {
		if !s.Complete {
			continue
		}
		if strings.EqualFold(s.Code, filter) || strings.EqualFold(LanguageName(s.Code), filter) {
			return true
		}
	}
	return false
}

func (m *matcher) matchesText(v video.Video) bool {
	if len(m.tokens) == 0 {
		return true
	}
	fields := []string{m.normalize(v.Title), m.normalize(v.Description)}
	for _, s := range v.Subtitles {
		if s.Text != "" {
			fields = append(fields, m.normalize(s.Text))
		}
	}
	for _, tok := range m.tokens {
		if !containsAny(fields, tok) {
			return false
		}
	}
	return true
}

func containsAny(fields []string, tok string) bool {
	for _, f := range fields {
		if strings.Contains(f, tok) {
			return true
		}
	}
	return false
}

// sortVideos orders in place. Titles compare as NFC code points, case-sensitive,
// so uppercase initials sort before lowercase ones.
func sortVideos(videos []video.Video, key SortKey) {
	if !key.Valid() {
		key = DefaultSort
	}
	var less func(a, b video.Video) int
	switch key {
	case SortNameAsc:
		less = func(a, b video.Video) int { return strings.Compare(norm.NFC.String(a.Title), norm.NFC.String(b.Title)) }
	case SortNameDesc:
		less = func(a, b video.Video) int { return strings.Compare(norm.NFC.String(b.Title), norm.NFC.String(a.Title)) }
	case SortNewest:
		less = func(a, b video.Video) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		less = func(a, b video.Video) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortMostSubtitles:
		less = func(a, b video.Video) int { return cmp.Compare(b.SubtitleCount(), a.SubtitleCount()) }
	}
	slices.SortStableFunc(videos, less)
}
