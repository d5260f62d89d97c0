package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobmcallan/restmcp/internal/openapi"
)

// Request is a fully specified outbound call. It never carries a body.
type Request struct {
	Method string
	URL    string // base URL + path with placeholders substituted, no query string
	Query  url.Values
	Header http.Header
}

// EncodedURL returns URL with the query string appended.
func (r *Request) EncodedURL() string {
	if len(r.Query) == 0 {
		return r.URL
	}
	sep := "?"
	if strings.Contains(r.URL, "?") {
		sep = "&"
	}
	return r.URL + sep + r.Query.Encode()
}

// Synthesize builds the request for one invocation. It performs no I/O and
// never mutates headers. A required parameter without a value fails before
// anything is built; placeholders that never get a value stay in the URL.
func Synthesize(method, baseURL, template string, headers http.Header, params []Parameter, args Arguments) (*Request, error) {
	req := &Request{
		Method: method,
		URL:    baseURL + template,
		Query:  url.Values{},
		Header: headers.Clone(),
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}

	for _, p := range params {
		v, ok := args[p.Name]
		if !ok || IsNotProvided(v) {
			if p.Required {
				return nil, &MissingRequiredParameterError{Name: p.Name}
			}
			continue
		}

		switch p.Location {
		case openapi.LocationQuery:
			if items, isList := v.([]any); isList {
				req.Query.Del(p.Original)
				for _, item := range items {
					req.Query.Add(p.Original, FormatValue(item))
				}
			} else {
				req.Query.Set(p.Original, FormatValue(v))
			}
		case openapi.LocationPath:
			s := url.PathEscape(FormatValue(v))
			req.URL = strings.ReplaceAll(req.URL, "{"+p.Original+"}", s)
			if p.Name != p.Original {
				req.URL = strings.ReplaceAll(req.URL, "{"+p.Name+"}", s)
			}
		case openapi.LocationHeader:
			req.Header.Set(p.Original, FormatValue(v))
		default:
			return nil, fmt.Errorf("parameter %q has unsupported location %q", p.Name, p.Location)
		}
	}
	return req, nil
}

// FormatValue renders an argument value for a URL or header. Strings pass
// through, numbers use their shortest form, nil is empty, and composite
// values are JSON encoded.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	case fmt.Stringer:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
