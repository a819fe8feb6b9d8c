package workflow

import (
	"testing"

	"teamvideos/internal/domain/video"
)

// TestLanguageLabel verifies completed vs needed language summaries.
func TestLanguageLabel(t *testing.T) {
	v := video.Video{Subtitles: []video.SubtitleLanguage{
		{Code: "fr", Complete: true},
		{Code: "ru", Complete: false},
	}}
	preferred := []string{"en", "ru", "pt-br"}
	auto := &Workflow{TeamID: "t1", AutocreateSubtitle: true, AutocreateTranslate: true, ReviewAllowed: ReviewPeer}

	tests := []struct {
		name string
		wf   *Workflow
		v    video.Video
		want string
	}{
		{"noWorkflow", nil, v, "1 language"},
		{"manualWorkflow", &Workflow{TeamID: "t1"}, v, "1 language"},
		{"automatic", auto, v, "3 languages needed"},
		{"noneCompleted", nil, video.Video{}, "0 languages"},
		{"oneNeeded", auto, video.Video{Subtitles: []video.SubtitleLanguage{{Code: "en", Complete: true}, {Code: "ru", Complete: true}}}, "1 language needed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LanguageLabel(tt.v, tt.wf, preferred); got != tt.want {
				t.Errorf("LanguageLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestValidate_Review verifies review settings are a closed set.
func TestValidate_Review(t *testing.T) {
	w := Workflow{TeamID: "t1", ReviewAllowed: 15}
	if err := w.Validate(); err != ErrInvalidReview {
		t.Errorf("got %v, want ErrInvalidReview", err)
	}
	w.ReviewAllowed = ReviewManager
	if err := w.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
