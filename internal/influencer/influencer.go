package influencer

import (
	"regexp"
	"strings"
	"time"

	influencerDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/influencer"
)

// RedactedMobile is what an executive without an approved access grant
// sees in place of the mobile number.
const RedactedMobile = "•••••••••"

// panPattern is the Indian income-tax PAN layout: five letters, four
// digits, one letter. Input is uppercased before matching.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// NormalizePAN uppercases and trims a raw PAN so comparisons and
// storage are canonical.
func NormalizePAN(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}

func ValidPAN(pan string) bool {
	return panPattern.MatchString(NormalizePAN(pan))
}

type Influencer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
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

	LastPromoBy   string     `json:"last_promo_by,omitempty"`
	LastPromoDate *time.Time `json:"last_promo_date,omitempty"`
	LastPricePaid int64      `json:"last_price_paid,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Redact masks the restricted contact field in place.
func (i *Influencer) Redact() {
	if i.Mobile != "" {
		i.Mobile = RedactedMobile
	}
}

func ToDataModel(i *Influencer) *influencerDatamodel.Influencer {
	return &influencerDatamodel.Influencer{
		ID:                i.ID,
		Name:              i.Name,
		Handle:            i.Handle,
		Avatar:            i.Avatar,
		Category:          i.Category,
		Type:              i.Type,
		Language:          i.Language,
		Location:          i.Location,
		Email:             i.Email,
		Mobile:            i.Mobile,
		PAN:               i.PAN,
		InstagramUsername: i.InstagramUsername,
		InstagramChannel:  i.InstagramChannel,
		YoutubeUsername:   i.YoutubeUsername,
		YoutubeChannel:    i.YoutubeChannel,
		LastPromoBy:       i.LastPromoBy,
		LastPromoDate:     i.LastPromoDate,
		LastPricePaid:     i.LastPricePaid,
		CreatedBy:         i.CreatedBy,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func FromDataModel(i *influencerDatamodel.Influencer) *Influencer {
	return &Influencer{
		ID:                i.ID,
		Name:              i.Name,
		Handle:            i.Handle,
		Avatar:            i.Avatar,
		Category:          i.Category,
		Type:              i.Type,
		Language:          i.Language,
		Location:          i.Location,
		Email:             i.Email,
		Mobile:            i.Mobile,
		PAN:               i.PAN,
		InstagramUsername: i.InstagramUsername,
		InstagramChannel:  i.InstagramChannel,
		YoutubeUsername:   i.YoutubeUsername,
		YoutubeChannel:    i.YoutubeChannel,
		LastPromoBy:       i.LastPromoBy,
		LastPromoDate:     i.LastPromoDate,
		LastPricePaid:     i.LastPricePaid,
		CreatedBy:         i.CreatedBy,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
