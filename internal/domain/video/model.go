package video

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 2048
)

// Domain errors
var (
	ErrEmptyTitle        = errors.New("video title cannot be empty")
	ErrTitleTooLong      = errors.New("video title cannot exceed 2048 characters")
	ErrInvalidURL        = errors.New("video url must be an absolute http(s) url")
	ErrNotFound          = errors.New("video not found")
	ErrNotInTeam         = errors.New("video does not belong to the team")
	ErrEmptyLanguageCode = errors.New("subtitle language code cannot be empty")
)

// SubtitleLanguage is one subtitle track of a video.
// An incomplete track is "in progress".
type SubtitleLanguage struct {
	Code     string
	Complete bool
	Text     string
}

// Video holds state for the Video concept.
// INVARIANT: a video belongs to at most one team and at most one project of that team
type Video struct {
	ID          string
	Title       string
	Description string
	URL         string
	CreatedAt   time.Time
	TeamID      string
	ProjectID   string
	Subtitles   []SubtitleLanguage
}

// Validate checks if the Video has valid data.
// PRE: Video struct is populated
// POST: Returns nil if valid, error otherwise
func (v *Video) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return ErrEmptyTitle
	}
	if len(v.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	u, err := url.Parse(v.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	if v.ProjectID != "" && v.TeamID == "" {
		return errors.New("video cannot be in a project without a team")
	}
	for _, s := range v.Subtitles {
		if s.Code == "" {
			return ErrEmptyLanguageCode
		}
	}
	return nil
}

// Subtitle returns the track for code.
// INVARIANT: Video fields are not mutated
func (v *Video) Subtitle(code string) (SubtitleLanguage, bool) {
	for _, s := range v.Subtitles {
		if s.Code == code {
			return s, true
		}
	}
	return SubtitleLanguage{}, false
}

// HasCompleted reports whether the video has a completed subtitle in code.
// INVARIANT: Video fields are not mutated
func (v *Video) HasCompleted(code string) bool {
	s, ok := v.Subtitle(code)
	return ok && s.Complete
}

// LanguageCodes returns every language with an existing or in-progress track,
// in track order.
func (v *Video) LanguageCodes() []string {
	codes := make([]string, 0, len(v.Subtitles))
	for _, s := range v.Subtitles {
		codes = append(codes, s.Code)
	}
	return codes
}

// CompletedCount returns the number of completed tracks.
func (v *Video) CompletedCount() int {
	n := 0
	for _, s := range v.Subtitles {
		if s.Complete {
			n++
		}
	}
	return n
}

// SubtitleCount returns the number of tracks, complete or not.
func (v *Video) SubtitleCount() int {
	return len(v.Subtitles)
}

// PutSubtitle adds or replaces the track for s.Code.
// PRE: s.Code is non-empty
// POST: exactly one track exists for s.Code; new tracks are appended
func (v *Video) PutSubtitle(s SubtitleLanguage) error {
	s.Code = strings.ToLower(strings.TrimSpace(s.Code))
	if s.Code == "" {
		return ErrEmptyLanguageCode
	}
	for i := range v.Subtitles {
		if v.Subtitles[i].Code == s.Code {
			v.Subtitles[i] = s
			return nil
		}
	}
	v.Subtitles = append(v.Subtitles, s)
	return nil
}

// MoveToProject assigns the video to a project of its team. An empty
// projectID removes the assignment.
// PRE: video belongs to a team
func (v *Video) MoveToProject(projectID string) error {
	if v.TeamID == "" && projectID != "" {
		return ErrNotInTeam
	}
	v.ProjectID = projectID
	return nil
}

// RemoveFromTeam detaches the video from its team and project.
// POST: TeamID and ProjectID are empty
func (v *Video) RemoveFromTeam() {
	v.TeamID = ""
	v.ProjectID = ""
}
