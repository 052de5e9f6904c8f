package influencer

import (
	"time"
)

type Influencer struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Handle   string `json:"handle"`
	Avatar   string `json:"avatar"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Language string `json:"language"`
	Location string `json:"location"`

	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	PAN    string `json:"pan" gorm:"column:pan"`

	InstagramUsername string `json:"instagram_username" gorm:"column:instagram_username"`
	InstagramChannel  string `json:"instagram_channel" gorm:"column:instagram_channel"`
	YoutubeUsername   string `json:"youtube_username" gorm:"column:youtube_username"`
	YoutubeChannel    string `json:"youtube_channel" gorm:"column:youtube_channel"`

	// Denormalized last-promotion summary, maintained by the campaign
	// completion event handler.
	LastPromoBy   string     `json:"last_promo_by" gorm:"column:last_promo_by"`
	LastPromoDate *time.Time `json:"last_promo_date,omitempty" gorm:"column:last_promo_date;type:date"`
	LastPricePaid int64      `json:"last_price_paid" gorm:"column:last_price_paid"`

	CreatedBy string    `json:"created_by" gorm:"column:created_by"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Influencer) TableName() string {
	return "influencers"
}
