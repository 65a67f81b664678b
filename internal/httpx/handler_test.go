package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/inkwell/internal/httpx"
)

type env struct {
	greeting string
}

func TestHandlerFunc(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(*env, http.ResponseWriter, *http.Request) error
		wantCode int
		wantBody string
	}{
		{
			name: "success",
			fn: func(e *env, w http.ResponseWriter, r *http.Request) error {
				return httpx.WriteJSON(w, http.StatusOK, map[string]string{"greeting": e.greeting})
			},
			wantCode: http.StatusOK,
			wantBody: `{"greeting":"hi"}`,
		},
		{
			name: "status error",
			fn: func(*env, http.ResponseWriter, *http.Request) error {
				return httpx.Error(http.StatusConflict, errors.New("name taken"))
			},
			wantCode: http.StatusConflict,
			wantBody: `{"error":"name taken"}`,
		},
		{
			name: "plain error",
			fn: func(*env, http.ResponseWriter, *http.Request) error {
				return errors.New("database is on fire")
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			h := httpx.HandlerFunc(func(*http.Request) *env { return &env{greeting: "hi"} }, tt.fn)

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			c.Assert(rec.Code, qt.Equals, tt.wantCode)
			c.Assert(rec.Header().Get("Content-Type"), qt.Equals, "application/json; charset=utf-8")
			c.Assert(strings.TrimSpace(rec.Body.String()), qt.Equals, tt.wantBody)
		})
	}
}

type params struct {
	Name  string  `json:"name" schema:"name"`
	Count *uint64 `json:"count" schema:"count"`
}

func TestParams(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		want        params
		wantCode    int
	}{
		{name: "query", method: http.MethodGet, target: "/?name=a&count=3&other=x", want: params{Name: "a", Count: ptr[uint64](3)}},
		{name: "query without values", method: http.MethodGet, target: "/", want: params{}},
		{name: "bad query value", method: http.MethodGet, target: "/?count=-1", wantCode: http.StatusBadRequest},
		{name: "json post", method: http.MethodPost, target: "/", contentType: "application/json", body: `{"name":"b"}`, want: params{Name: "b"}},
		{name: "json put with charset", method: http.MethodPut, target: "/", contentType: "application/json; charset=utf-8", body: `{"name":"c","count":1}`, want: params{Name: "c", Count: ptr[uint64](1)}},
		{name: "malformed json", method: http.MethodPost, target: "/", contentType: "application/json", body: `{"name":`, wantCode: http.StatusBadRequest},
		{name: "post without content type reads query", method: http.MethodPost, target: "/?name=e", want: params{Name: "e"}},
		{name: "body without content type", method: http.MethodPost, target: "/", body: `{"name":"f"}`, wantCode: http.StatusUnsupportedMediaType},
		{name: "form", method: http.MethodPost, target: "/", contentType: "application/x-www-form-urlencoded", body: "name=d", want: params{Name: "d"}},
		{name: "unsupported media type", method: http.MethodPut, target: "/", contentType: "text/csv", body: "x", wantCode: http.StatusUnsupportedMediaType},
		{name: "unsupported method", method: http.MethodPatch, target: "/", wantCode: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			r := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			var got params
			err := httpx.Params(r, &got)
			if tt.wantCode != 0 {
				var se *httpx.StatusError
				c.Assert(errors.As(err, &se), qt.IsTrue)
				c.Assert(se.Status(), qt.Equals, tt.wantCode)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.DeepEquals, tt.want)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
