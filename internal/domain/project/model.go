package project

import (
	"errors"
	"regexp"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 255
)

// Domain errors
var (
	ErrEmptyName   = errors.New("project name cannot be empty")
	ErrNameTooLong = errors.New("project name cannot exceed 255 characters")
	ErrInvalidSlug = errors.New("project slug must be lowercase letters, digits and dashes")
	ErrEmptyTeam   = errors.New("project requires a team")
	ErrNotFound    = errors.New("project not found")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Project is a named grouping of videos within a team.
type Project struct {
	ID              string
	TeamID          string
	Name            string
	Slug            string
	Description     string
	WorkflowEnabled bool
}

// Validate checks if the Project has valid data.
// PRE: Project struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Project) Validate() error {
	if p.TeamID == "" {
		return ErrEmptyTeam
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !slugPattern.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

// Slugify derives a slug from a project name.
// POST: result matches the slug pattern or is empty when name has no usable characters
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
