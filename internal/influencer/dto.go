package influencer

import (
	"regexp"
	"strings"

	"github.com/nxthub/influencer-ops/internal"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// CreateInfluencerDTO represents the request payload for registering an
// influencer. PAN and mobile are optional but validated when present.
type CreateInfluencerDTO struct {
	Name     string `json:"name" validate:"required"`
	Handle   string `json:"handle,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Language string `json:"language,omitempty"`
	Location string `json:"location,omitempty"`
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	PAN      string `json:"pan,omitempty"`

	InstagramUsername string `json:"instagram_username,omitempty"`
	InstagramChannel  string `json:"instagram_channel,omitempty"`
	YoutubeUsername   string `json:"youtube_username,omitempty"`
	YoutubeChannel    string `json:"youtube_channel,omitempty"`
}

func (dto CreateInfluencerDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "influencer name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Mobile != "" && !mobilePattern.MatchString(dto.Mobile) {
		return internal.NewValidationError("mobile must be a 10-digit number", internal.ErrCodeInvalidMobile)
	}
	if dto.PAN != "" && !ValidPAN(dto.PAN) {
		return internal.ErrInvalidPAN
	}
	return nil
}

// UpdateInfluencerDTO carries partial edits; nil fields stay untouched.
type UpdateInfluencerDTO struct {
	Name     *string `json:"name,omitempty"`
	Handle   *string `json:"handle,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Category *string `json:"category,omitempty"`
	Type     *string `json:"type,omitempty"`
	Language *string `json:"language,omitempty"`
	Location *string `json:"location,omitempty"`
	Email    *string `json:"email,omitempty"`
	Mobile   *string `json:"mobile,omitempty"`
	PAN      *string `json:"pan,omitempty"`

	InstagramUsername *string `json:"instagram_username,omitempty"`
	InstagramChannel  *string `json:"instagram_channel,omitempty"`
	YoutubeUsername   *string `json:"youtube_username,omitempty"`
	YoutubeChannel    *string `json:"youtube_channel,omitempty"`
}

func (dto UpdateInfluencerDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationFieldError("name", "influencer name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Mobile != nil && *dto.Mobile != "" && !mobilePattern.MatchString(*dto.Mobile) {
		return internal.NewValidationError("mobile must be a 10-digit number", internal.ErrCodeInvalidMobile)
	}
	if dto.PAN != nil && *dto.PAN != "" && !ValidPAN(*dto.PAN) {
		return internal.ErrInvalidPAN
	}
	return nil
}

// PANCheckDTO backs the live availability probe the registration form
// fires while the user types.
type PANCheckDTO struct {
	PAN       string `json:"pan" validate:"required"`
	ExcludeID string `json:"exclude_id,omitempty"`
}

type PANCheckResult struct {
	PAN       string `json:"pan"`
	Valid     bool   `json:"valid"`
	Available bool   `json:"available"`
}
