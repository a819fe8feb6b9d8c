package videoquery

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"teamvideos/internal/domain/video"
)

var englishNames = display.English.Languages()

// LanguageName returns the English display name for a subtitle code
// ("ru" → "Russian"). Unparseable codes are returned unchanged.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := englishNames.Name(tag); name != "" {
		return name
	}
	return code
}

// LanguageOption is one entry of a language filter menu.
type LanguageOption struct {
	Code string
	Name string
}

// LanguageOptions lists the distinct subtitle languages across videos, sorted by name.
func LanguageOptions(videos []video.Video) []LanguageOption {
	seen := make(map[string]bool)
	var opts []LanguageOption
	for _, v := range videos {
		for _, s := range v.Subtitles {
			if seen[s.Code] {
				continue
			}
			seen[s.Code] = true
			opts = append(opts, LanguageOption{Code: s.Code, Name: LanguageName(s.Code)})
		}
	}
	slices.SortFunc(opts, func(a, b LanguageOption) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return opts
}
