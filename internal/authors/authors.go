// Package authors implements the Author resource: create, paginated list,
// full update and a not yet implemented delete.
package authors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/stokaro/inkwell/internal/models"
	"github.com/stokaro/inkwell/internal/store"
)

var (
	ErrInvalid        = errors.New("invalid author")
	ErrNotFound       = errors.New("author not found")
	ErrConflict       = errors.New("author conflicts with an existing one")
	ErrNotImplemented = errors.New("deleting authors is not implemented")
)

// ValidationError reports a rejected field. It matches ErrInvalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// AuthorInfo is the user-supplied part of an author. Both fields are required.
type AuthorInfo struct {
	Name   string        `json:"name" schema:"name"`
	Gender models.Gender `json:"gender" schema:"gender"`
}

// ListParams selects a page of authors ordered by id.
//
// StartID is a row offset, not an id: StartID 2 skips the first two authors
// whatever their ids are. Number is the page size. Nil leaves that side
// unbounded.
type ListParams struct {
	StartID *uint64 `schema:"start_id"`
	Number  *uint64 `schema:"number"`
}

// Gateway is the slice of the persistence layer the service needs.
type Gateway interface {
	FindAuthor(ctx context.Context, id int64) (models.Author, bool, error)
	ListAuthors(ctx context.Context, opts store.ListOptions) ([]models.Author, error)
	CreateAuthor(ctx context.Context, fields models.AuthorFields) (models.Author, error)
	UpdateAuthor(ctx context.Context, id int64, fields models.AuthorFields) (models.Author, error)
}

// StoreGateway adapts a *store.Store to Gateway.
type StoreGateway struct {
	store.Query
	store.Mutation
}

// NewStoreGateway returns the Gateway backed by s.
func NewStoreGateway(s *store.Store) StoreGateway {
	return StoreGateway{Query: s.Query(), Mutation: s.Mutation()}
}

// Service is the Author resource.
type Service struct {
	gw Gateway
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

// Create stores a new author and returns it with its id. A taken name
// yields ErrConflict wrapping the store error.
func (s *Service) Create(ctx context.Context, info AuthorInfo) (models.Author, error) {
	fields, err := info.validate()
	if err != nil {
		return models.Author{}, err
	}
	author, err := s.gw.CreateAuthor(ctx, fields)
	if err != nil {
		return models.Author{}, translate(err)
	}
	return author, nil
}

// List returns a page of authors in ascending id order.
func (s *Service) List(ctx context.Context, params ListParams) ([]models.Author, error) {
	return s.gw.ListAuthors(ctx, store.ListOptions{
		Offset: params.StartID,
		Limit:  params.Number,
	})
}

// Update replaces the name and gender of author id. There is no partial
// update: both fields must be supplied.
func (s *Service) Update(ctx context.Context, id int64, info AuthorInfo) (models.Author, error) {
	fields, err := info.validate()
	if err != nil {
		return models.Author{}, err
	}
	if _, found, err := s.gw.FindAuthor(ctx, id); err != nil {
		return models.Author{}, err
	} else if !found {
		return models.Author{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	author, err := s.gw.UpdateAuthor(ctx, id, fields)
	if err != nil {
		return models.Author{}, translate(err)
	}
	return author, nil
}

// Delete always fails with ErrNotImplemented. Whether deleting an author
// should also remove their posts is still undecided.
func (s *Service) Delete(_ context.Context, id int64) error {
	return fmt.Errorf("delete author %d: %w", id, ErrNotImplemented)
}

func (info AuthorInfo) validate() (models.AuthorFields, error) {
	if strings.TrimSpace(info.Name) == "" {
		return models.AuthorFields{}, &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	// names are stored as given, so two spellings of one name must not both get in
	if !norm.NFC.IsNormalString(info.Name) {
		return models.AuthorFields{}, &ValidationError{Field: "name", Reason: "must be NFC-normalized"}
	}
	if !info.Gender.IsValid() {
		return models.AuthorFields{}, &ValidationError{
			Field:  "gender",
			Reason: "must be one of " + strings.Join(models.GenderValues(), ", "),
		}
	}
	return models.AuthorFields{Name: info.Name, Gender: info.Gender}, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		// the row went away between lookup and update
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrUniqueViolation):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
