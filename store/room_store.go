package store

import (
	"errors"

	"github.com/Tharunkunamalla/CodeSync/models"

	"gorm.io/gorm"
)

const (
	DefaultCode     = "// Write your code here"
	DefaultLanguage = "javascript"
)

// RoomStore is the durable side of a room: one record per roomId holding
// the last persisted code and language.
type RoomStore struct {
	db *gorm.DB
}

func NewRoomStore(db *gorm.DB) *RoomStore {
	return &RoomStore{db: db}
}

// Get returns the room record, or nil if no record exists yet. A missing
// record is not an error: rooms are created lazily on first join.
func (s *RoomStore) Get(roomID string) (*models.Room, error) {
	var room models.Room
	err := s.db.Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) CreateDefault(roomID string) (*models.Room, error) {
	room := models.Room{
		RoomID:   roomID,
		Code:     DefaultCode,
		Language: DefaultLanguage,
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// SaveCode upserts the room's code. A record created on this path still
// carries a defined language so the record is never partially absent.
func (s *RoomStore) SaveCode(roomID, code string) error {
	res := s.db.Model(&models.Room{}).Where("room_id = ?", roomID).Update("code", code)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.db.Create(&models.Room{
			RoomID:   roomID,
			Code:     code,
			Language: DefaultLanguage,
		}).Error
	}
	return nil
}

func (s *RoomStore) SaveLanguage(roomID, language string) error {
	res := s.db.Model(&models.Room{}).Where("room_id = ?", roomID).Update("language", language)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.db.Create(&models.Room{
			RoomID:   roomID,
			Code:     DefaultCode,
			Language: language,
		}).Error
	}
	return nil
}
