package videoquery

import (
	"net/url"
	"strings"
)

// Query parameter names used by the team videos page.
const (
	ParamText        = "q"
	ParamLanguage    = "lang"
	ParamLangMissing = "lang_missing"
	ParamProject     = "project"
	ParamSort        = "sort"
)

// ParseQuery reads a Query from URL query values. Repeated lang and
// lang_missing values add filters. Unknown sort keys fall back to DefaultSort.
// The project value is passed through unchanged; callers map slugs to IDs.
func ParseQuery(values url.Values) Query {
	q := Query{
		Text:    strings.TrimSpace(values.Get(ParamText)),
		Project: strings.TrimSpace(values.Get(ParamProject)),
		Sort:    ParseSortKey(values.Get(ParamSort)),
	}
	for _, code := range values[ParamLanguage] {
		if code = strings.TrimSpace(code); code != "" {
			q.Languages = append(q.Languages, LanguageFilter{Code: code, Polarity: Has})
		}
	}
	for _, code := range values[ParamLangMissing] {
		if code = strings.TrimSpace(code); code != "" {
			q.Languages = append(q.Languages, LanguageFilter{Code: code, Polarity: Missing})
		}
	}
	return q
}

// ParseSortKey maps a raw sort value to a SortKey.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.TrimSpace(s))
	if !k.Valid() {
		return DefaultSort
	}
	return k
}

// Values encodes q back into URL query values, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Text != "" {
		v.Set(ParamText, q.Text)
	}
	if q.Project != "" {
		v.Set(ParamProject, q.Project)
	}
	for _, lf := range q.Languages {
		if lf.Polarity == Missing {
			v.Add(ParamLangMissing, lf.Code)
		} else {
			v.Add(ParamLanguage, lf.Code)
		}
	}
	if q.Sort != "" && q.Sort != DefaultSort {
		v.Set(ParamSort, string(q.Sort))
	}
	return v
}
