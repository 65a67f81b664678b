package models

// Tag is a row of the tag table.
type Tag struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description *string `json:"description,omitempty"`
}

func (Tag) TableName() string {
	return "tag"
}

// TagFields are the user-supplied columns of a tag.
type TagFields struct {
	Name        string
	Description *string
}

// PostTag links a post to a tag. The pair is the primary key.
type PostTag struct {
	PostID int64 `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID  int64 `gorm:"primaryKey;autoIncrement:false" json:"tag_id"`
}

func (PostTag) TableName() string {
	return "post_tag"
}
