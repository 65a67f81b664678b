package models

// Post is a row of the post table. AuthorID must reference an existing author.
type Post struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Text     string `gorm:"not null" json:"text"`
	AuthorID int64  `gorm:"not null" json:"author_id"`
}

func (Post) TableName() string {
	return "post"
}

// PostFields are the user-supplied columns of a post.
type PostFields struct {
	Title    string
	Text     string
	AuthorID int64
}
