package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stokaro/inkwell/internal/models"
)

// Mutation writes entities. Field values are stored as given; validation is
// the caller's job.
type Mutation struct {
	db *gorm.DB
}

// CreateAuthor inserts an author and returns it with the assigned id.
func (m Mutation) CreateAuthor(ctx context.Context, fields models.AuthorFields) (models.Author, error) {
	author := models.Author{Name: fields.Name, Gender: fields.Gender}
	if err := m.db.WithContext(ctx).Create(&author).Error; err != nil {
		return models.Author{}, fmt.Errorf("create author: %w", classify(err))
	}
	return author, nil
}

// UpdateAuthor replaces every non-id field of author id and returns the
// stored row. A missing id yields ErrNotFound.
func (m Mutation) UpdateAuthor(ctx context.Context, id int64, fields models.AuthorFields) (models.Author, error) {
	db := m.db.WithContext(ctx)
	res := db.Model(&models.Author{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":   fields.Name,
			"gender": fields.Gender,
		})
	if res.Error != nil {
		return models.Author{}, fmt.Errorf("update author %d: %w", id, classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return models.Author{}, fmt.Errorf("update author %d: %w", id, ErrNotFound)
	}

	var author models.Author
	if err := db.Where("id = ?", id).Take(&author).Error; err != nil {
		return models.Author{}, fmt.Errorf("update author %d: reload: %w", id, err)
	}
	return author, nil
}

// CreatePost inserts a post. The author must exist.
func (m Mutation) CreatePost(ctx context.Context, fields models.PostFields) (models.Post, error) {
	post := models.Post{Title: fields.Title, Text: fields.Text, AuthorID: fields.AuthorID}
	if err := m.db.WithContext(ctx).Create(&post).Error; err != nil {
		return models.Post{}, fmt.Errorf("create post for author %d: %w", fields.AuthorID, classify(err))
	}
	return post, nil
}

// CreateTag inserts a tag.
func (m Mutation) CreateTag(ctx context.Context, fields models.TagFields) (models.Tag, error) {
	tag := models.Tag{Name: fields.Name, Description: fields.Description}
	if err := m.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return models.Tag{}, fmt.Errorf("create tag: %w", classify(err))
	}
	return tag, nil
}

// CreatePostTag links a post to a tag. Both must exist.
func (m Mutation) CreatePostTag(ctx context.Context, postID, tagID int64) (models.PostTag, error) {
	link := models.PostTag{PostID: postID, TagID: tagID}
	if err := m.db.WithContext(ctx).Create(&link).Error; err != nil {
		return models.PostTag{}, fmt.Errorf("link post %d to tag %d: %w", postID, tagID, classify(err))
	}
	return link, nil
}
