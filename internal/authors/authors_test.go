package authors_test

import (
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/inkwell/internal/authors"
	"github.com/stokaro/inkwell/internal/models"
	"github.com/stokaro/inkwell/internal/store"
	"github.com/stokaro/inkwell/internal/testutil"
)

func newService(c *qt.C) *authors.Service {
	c.Helper()
	s, err := store.Open(testutil.OpenMigrated(c), testutil.DiscardLogger)
	c.Assert(err, qt.IsNil)
	return authors.NewService(authors.NewStoreGateway(s))
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreate(t *testing.T) {
	c := qt.New(t)
	svc := newService(c)

	a, err := svc.Create(context.Background(), authors.AuthorInfo{Name: "Octavia", Gender: models.GenderFemale})
	c.Assert(err, qt.IsNil)
	c.Assert(a.ID > 0, qt.IsTrue)
	c.Assert(a.Name, qt.Equals, "Octavia")
	c.Assert(a.Gender, qt.Equals, models.GenderFemale)
}

func TestCreate_StoresNameAsGiven(t *testing.T) {
	c := qt.New(t)
	s, err := store.Open(testutil.OpenMigrated(c), testutil.DiscardLogger)
	c.Assert(err, qt.IsNil)
	svc := authors.NewService(authors.NewStoreGateway(s))
	ctx := context.Background()

	info := authors.AuthorInfo{Name: "  Ren\u00e9e Vivien ", Gender: models.GenderFemale}
	created, err := svc.Create(ctx, info)
	c.Assert(err, qt.IsNil)

	stored, found, err := s.Query().FindAuthor(ctx, created.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(stored, qt.Equals, models.Author{ID: created.ID, Name: info.Name, Gender: info.Gender})
	c.Assert(created, qt.Equals, stored)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		info  authors.AuthorInfo
		field string
	}{
		{name: "empty name", info: authors.AuthorInfo{Gender: models.GenderMale}, field: "name"},
		{name: "blank name", info: authors.AuthorInfo{Name: " \t ", Gender: models.GenderMale}, field: "name"},
		// "e" followed by a combining acute accent
		{name: "decomposed name", info: authors.AuthorInfo{Name: "Rene\u0301e", Gender: models.GenderFemale}, field: "name"},
		{name: "missing gender", info: authors.AuthorInfo{Name: "Kim"}, field: "gender"},
		{name: "out of range gender", info: authors.AuthorInfo{Name: "Kim", Gender: models.Gender(7)}, field: "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			svc := newService(c)

			_, err := svc.Create(context.Background(), tt.info)
			c.Assert(err, qt.ErrorIs, authors.ErrInvalid)
			var ve *authors.ValidationError
			c.Assert(errors.As(err, &ve), qt.IsTrue)
			c.Assert(ve.Field, qt.Equals, tt.field)
		})
	}
}

func TestCreate_DuplicateKeepsCause(t *testing.T) {
	c := qt.New(t)
	svc := newService(c)
	ctx := context.Background()

	_, err := svc.Create(ctx, authors.AuthorInfo{Name: "Kim", Gender: models.GenderUnknown})
	c.Assert(err, qt.IsNil)

	_, err = svc.Create(ctx, authors.AuthorInfo{Name: "Kim", Gender: models.GenderMale})
	c.Assert(err, qt.ErrorIs, authors.ErrConflict)
	c.Assert(err, qt.ErrorIs, store.ErrUniqueViolation)
	var ce *store.ConstraintError
	c.Assert(errors.As(err, &ce), qt.IsTrue)
}

func TestList_StartIDIsAnOffset(t *testing.T) {
	c := qt.New(t)
	svc := newService(c)
	ctx := context.Background()

	var created []models.Author
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		a, err := svc.Create(ctx, authors.AuthorInfo{Name: name, Gender: models.GenderUnknown})
		c.Assert(err, qt.IsNil)
		created = append(created, a)
	}

	got, err := svc.List(ctx, authors.ListParams{StartID: ptr[uint64](2), Number: ptr[uint64](3)})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, created[2:5])

	got, err = svc.List(ctx, authors.ListParams{})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, created)
}

func TestUpdate(t *testing.T) {
	c := qt.New(t)
	svc := newService(c)
	ctx := context.Background()

	a, err := svc.Create(ctx, authors.AuthorInfo{Name: "Sam", Gender: models.GenderUnknown})
	c.Assert(err, qt.IsNil)

	got, err := svc.Update(ctx, a.ID, authors.AuthorInfo{Name: "Samantha", Gender: models.GenderFemale})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, models.Author{ID: a.ID, Name: "Samantha", Gender: models.GenderFemale})
}

func TestUpdate_Errors(t *testing.T) {
	c := qt.New(t)
	svc := newService(c)
	ctx := context.Background()

	a, err := svc.Create(ctx, authors.AuthorInfo{Name: "Sam", Gender: models.GenderUnknown})
	c.Assert(err, qt.IsNil)
	b, err := svc.Create(ctx, authors.AuthorInfo{Name: "Alex", Gender: models.GenderUnknown})
	c.Assert(err, qt.IsNil)

	_, err = svc.Update(ctx, b.ID+10, authors.AuthorInfo{Name: "Nobody", Gender: models.GenderMale})
	c.Assert(err, qt.ErrorIs, authors.ErrNotFound)

	_, err = svc.Update(ctx, b.ID, authors.AuthorInfo{Name: a.Name, Gender: models.GenderMale})
	c.Assert(err, qt.ErrorIs, authors.ErrConflict)

	_, err = svc.Update(ctx, a.ID, authors.AuthorInfo{Name: "Sam"})
	c.Assert(err, qt.ErrorIs, authors.ErrInvalid)

	list, err := svc.List(ctx, authors.ListParams{})
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.DeepEquals, []models.Author{a, b})
}

func TestDelete_NotImplemented(t *testing.T) {
	c := qt.New(t)
	svc := authors.NewService(nil)

	err := svc.Delete(context.Background(), 1)
	c.Assert(err, qt.ErrorIs, authors.ErrNotImplemented)
}

type failingGateway struct {
	authors.Gateway
	err error
}

func (g failingGateway) FindAuthor(context.Context, int64) (models.Author, bool, error) {
	return models.Author{}, false, g.err
}

func TestUpdate_LookupFailureIsNotNotFound(t *testing.T) {
	c := qt.New(t)
	boom := errors.New("connection reset")
	svc := authors.NewService(failingGateway{err: boom})

	_, err := svc.Update(context.Background(), 1, authors.AuthorInfo{Name: "Sam", Gender: models.GenderMale})
	c.Assert(err, qt.ErrorIs, boom)
	c.Assert(errors.Is(err, authors.ErrNotFound), qt.IsFalse)
}
