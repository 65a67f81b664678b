package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/stokaro/inkwell/internal/models"
)

// Query reads entities. A missing row is reported as found == false, never
// as an error.
type Query struct {
	db *gorm.DB
}

// ListOptions bounds a listing. Nil means unbounded in that dimension.
type ListOptions struct {
	Offset *uint64
	Limit  *uint64
}

func (q Query) FindAuthor(ctx context.Context, id int64) (models.Author, bool, error) {
	var author models.Author
	found, err := q.find(ctx, &author, id)
	if err != nil {
		return models.Author{}, false, fmt.Errorf("find author %d: %w", id, err)
	}
	return author, found, nil
}

func (q Query) FindPost(ctx context.Context, id int64) (models.Post, bool, error) {
	var post models.Post
	found, err := q.find(ctx, &post, id)
	if err != nil {
		return models.Post{}, false, fmt.Errorf("find post %d: %w", id, err)
	}
	return post, found, nil
}

func (q Query) FindTag(ctx context.Context, id int64) (models.Tag, bool, error) {
	var tag models.Tag
	found, err := q.find(ctx, &tag, id)
	if err != nil {
		return models.Tag{}, false, fmt.Errorf("find tag %d: %w", id, err)
	}
	return tag, found, nil
}

func (q Query) find(ctx context.Context, dest any, id int64) (bool, error) {
	err := q.db.WithContext(ctx).Where("id = ?", id).Take(dest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// ListAuthors returns authors ordered by id ascending.
func (q Query) ListAuthors(ctx context.Context, opts ListOptions) ([]models.Author, error) {
	tx := q.db.WithContext(ctx).Order("id ASC")
	if opts.Limit != nil {
		tx = tx.Limit(clampInt(*opts.Limit))
	}
	if opts.Offset != nil {
		// MySQL and SQLite only accept OFFSET after a LIMIT
		if opts.Limit == nil {
			tx = tx.Limit(math.MaxInt)
		}
		tx = tx.Offset(clampInt(*opts.Offset))
	}

	authors := make([]models.Author, 0)
	if err := tx.Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

func clampInt(v uint64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}
