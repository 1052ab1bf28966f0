package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:50;uniqueIndex;not null" json:"username" validate:"required,min=3,max=50,alphanum"`
	Name      string `gorm:"size:100" json:"name" validate:"omitempty,max=100"`
	Email     string `gorm:"size:100;uniqueIndex;not null" json:"email" validate:"required,email,max=100"`
	AvatarURL string `gorm:"size:255" json:"avatar_url" validate:"omitempty,url"`
	Bio       string `gorm:"type:text" json:"bio" validate:"omitempty,max=500"`

	// Notifiable marks whether the user accepts "new follower" style
	// notifications.
	Notifiable bool `gorm:"default:true" json:"notifiable"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NotificationRecipient implements notification.Notifiable.
func (u *User) NotificationRecipient() (uint, bool) {
	return u.ID, u.Notifiable
}
