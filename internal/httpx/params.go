package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-json-experiment/json"
	"github.com/gorilla/schema"
)

// Params decodes the request parameters into v. GET and HEAD read the query
// string; POST and PUT read the body according to its Content-Type. A POST or
// PUT without a Content-Type may only carry query parameters: a body of
// unknown type is refused with 415 rather than silently ignored.
func Params(r *http.Request, v any) error {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return decodeQuery(r, v)
	case http.MethodPost, http.MethodPut:
		switch MediaType(r) {
		case "application/json":
			if err := json.UnmarshalFull(r.Body, v); err != nil {
				return Error(http.StatusBadRequest, err)
			}
		case "":
			if r.ContentLength != 0 {
				return Error(http.StatusUnsupportedMediaType, errors.New("request body without Content-Type"))
			}
			return decodeQuery(r, v)
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return Error(http.StatusBadRequest, err)
			}
			if err := newDecoder().Decode(v, r.PostForm); err != nil {
				return Error(http.StatusBadRequest, err)
			}
		default:
			return Error(http.StatusUnsupportedMediaType, fmt.Errorf("unsupported media type: %q", r.Header.Get("Content-Type")))
		}
	default:
		return Error(http.StatusMethodNotAllowed, errors.New("unsupported method: "+r.Method))
	}
	return nil
}

func decodeQuery(r *http.Request, v any) error {
	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return Error(http.StatusBadRequest, err)
	}
	if err := newDecoder().Decode(v, values); err != nil {
		return Error(http.StatusBadRequest, err)
	}
	return nil
}

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}
