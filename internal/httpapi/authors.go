package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stokaro/inkwell/internal/authors"
	"github.com/stokaro/inkwell/internal/httpx"
)

// CreateAuthor handles POST /authors.
func CreateAuthor(env *Env, w http.ResponseWriter, r *http.Request) error {
	var info authors.AuthorInfo
	if err := httpx.Params(r, &info); err != nil {
		return err
	}
	author, err := env.Authors.Create(r.Context(), info)
	if err != nil {
		return statusError(err)
	}
	return httpx.WriteJSON(w, http.StatusOK, author)
}

// ListAuthors handles GET /authors?start_id=&number=. start_id is a row
// offset into the id-ordered list, number the page size.
func ListAuthors(env *Env, w http.ResponseWriter, r *http.Request) error {
	var params authors.ListParams
	if err := httpx.Params(r, &params); err != nil {
		return err
	}
	list, err := env.Authors.List(r.Context(), params)
	if err != nil {
		return err
	}
	return httpx.WriteJSON(w, http.StatusOK, list)
}

// UpdateAuthor handles PUT /authors/{author_id}. The body must carry every field.
func UpdateAuthor(env *Env, w http.ResponseWriter, r *http.Request) error {
	id, err := authorID(r)
	if err != nil {
		return err
	}
	var info authors.AuthorInfo
	if err := httpx.Params(r, &info); err != nil {
		return err
	}
	author, err := env.Authors.Update(r.Context(), id, info)
	if err != nil {
		return statusError(err)
	}
	return httpx.WriteJSON(w, http.StatusOK, author)
}

// DeleteAuthor handles DELETE /authors/{author_id}. It always answers 501.
func DeleteAuthor(env *Env, w http.ResponseWriter, r *http.Request) error {
	id, err := authorID(r)
	if err != nil {
		return err
	}
	return statusError(env.Authors.Delete(r.Context(), id))
}

func authorID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "author_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, httpx.Error(http.StatusBadRequest, fmt.Errorf("invalid author id %q", raw))
	}
	return id, nil
}

func statusError(err error) error {
	switch {
	case errors.Is(err, authors.ErrInvalid):
		return httpx.Error(http.StatusBadRequest, err)
	case errors.Is(err, authors.ErrNotFound):
		return httpx.Error(http.StatusNotFound, err)
	case errors.Is(err, authors.ErrConflict):
		return httpx.Error(http.StatusConflict, err)
	case errors.Is(err, authors.ErrNotImplemented):
		return httpx.Error(http.StatusNotImplemented, err)
	}
	return err
}
