package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Board represents a bulletin board configuration
type Board struct {
	ID        string    `gorm:"primaryKey;size:10" json:"id"` // B001, B002, ...
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `gorm:"default:'korean'" json:"type"` // korean, guestbook
	Auth      string    `gorm:"default:'member'" json:"auth"` // all, member, admin
	Posts     []Post    `gorm:"foreignKey:BoardID" json:"posts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post represents a post on a board
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BoardID   string    `gorm:"index;size:10" json:"board_id"`
	Board     *Board    `gorm:"foreignKey:BoardID" json:"board,omitempty"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Views     int       `gorm:"default:0" json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MigrateBoardModels runs database migrations for board-related models
func MigrateBoardModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Board{},
		&Post{},
	)
}

// NextBoardID generates the next sequential board ID (B001, B002, ...).
func NextBoardID(db *gorm.DB) (string, error) {
	var count int64
	if err := db.Model(&Board{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("B%03d", count+1), nil
}

// SeedDefaultBoards creates the initial board set when the table is empty.
func SeedDefaultBoards(db *gorm.DB) error {
	var count int64
	db.Model(&Board{}).Count(&count)
	if count > 0 {
		return nil
	}

	boards := []Board{
		{ID: "B001", Name: "자유게시판", Type: "korean", Auth: "member"},
		{ID: "B002", Name: "문의사항(방명록)", Type: "guestbook", Auth: "all"},
	}
	for _, board := range boards {
		if err := db.Create(&board).Error; err != nil {
			return err
		}
	}
	return nil
}
