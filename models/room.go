package models

import "time"

type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    string    `gorm:"uniqueIndex" json:"room_id"`
	Code      string    `json:"code"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
