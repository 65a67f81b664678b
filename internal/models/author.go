// Package models contains the gorm entities of the blog schema. Their shape
// mirrors the tables created by the migration catalog once every unit is applied.
package models

// Author is a row of the author table.
type Author struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	Gender Gender `gorm:"not null" json:"gender"`
}

func (Author) TableName() string {
	return "author"
}

// AuthorFields are the user-supplied columns of an author. Updates always
// replace every field.
type AuthorFields struct {
	Name   string
	Gender Gender
}
