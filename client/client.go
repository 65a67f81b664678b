// Package client is a typed client for the Author HTTP API.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/carlmjohnson/requests"
	"github.com/go-json-experiment/json"

	"github.com/stokaro/inkwell/internal/authors"
	"github.com/stokaro/inkwell/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to one inkwell server.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New returns a client for the server at baseURL. A nil hc means http.DefaultClient.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: baseURL, hc: hc}
}

func (c *Client) request() *requests.Builder {
	return requests.URL(c.baseURL).
		Client(c.hc).
		AddValidator(checkStatus)
}

// CreateAuthor creates an author.
func (c *Client) CreateAuthor(ctx context.Context, info authors.AuthorInfo) (models.Author, error) {
	var author models.Author
	body, err := json.Marshal(info)
	if err != nil {
		return author, err
	}
	err = c.request().
		Path("/authors").
		BodyBytes(body).
		ContentType("application/json").
		Handle(toJSON(&author)).
		Fetch(ctx)
	return author, err
}

// ListAuthors fetches a page of authors ordered by id. StartID is a row
// offset, not an author id.
func (c *Client) ListAuthors(ctx context.Context, params authors.ListParams) ([]models.Author, error) {
	rb := c.request().Path("/authors")
	if params.StartID != nil {
		rb.Param("start_id", strconv.FormatUint(*params.StartID, 10))
	}
	if params.Number != nil {
		rb.Param("number", strconv.FormatUint(*params.Number, 10))
	}
	var list []models.Author
	err := rb.Handle(toJSON(&list)).Fetch(ctx)
	return list, err
}

// UpdateAuthor replaces the name and gender of author id.
func (c *Client) UpdateAuthor(ctx context.Context, id int64, info authors.AuthorInfo) (models.Author, error) {
	var author models.Author
	body, err := json.Marshal(info)
	if err != nil {
		return author, err
	}
	err = c.request().
		Path(fmt.Sprintf("/authors/%d", id)).
		Put().
		BodyBytes(body).
		ContentType("application/json").
		Handle(toJSON(&author)).
		Fetch(ctx)
	return author, err
}

// DeleteAuthor asks the server to delete author id. Current servers always
// answer 501 Not Implemented.
func (c *Client) DeleteAuthor(ctx context.Context, id int64) error {
	return c.request().
		Path(fmt.Sprintf("/authors/%d", id)).
		Delete().
		Fetch(ctx)
}

func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: res.StatusCode}
	b, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}

func toJSON(v any) requests.ResponseHandler {
	return func(res *http.Response) error {
		return json.UnmarshalFull(res.Body, v)
	}
}
