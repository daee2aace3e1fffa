package entity

import (
	"time"

	"github.com/lib/pq"
)

// Question представляет вопрос в ленте.
// AuthorName денормализован, чтобы лента отдавалась без join'а на users.
type Question struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	AuthorID    uint           `gorm:"not null;index" json:"author"`
	AuthorName  string         `gorm:"size:100;not null;default:''" json:"authorName"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}
