package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/restify/pkg/cookie"
)

// Response buffers status, headers, cookies and body until End flushes
// them to the transport. Every mutation after End returns ErrResponseEnded.
type Response struct {
	out     Outgoing
	cookies *cookie.Manager
	status  int
	header  http.Header
	jar     []*http.Cookie
	body    bytes.Buffer
	ended   bool
}

func newResponse(out Outgoing, cookies *cookie.Manager) *Response {
	if cookies == nil {
		cookies = cookie.New()
	}
	return &Response{
		out:     out,
		cookies: cookies,
		status:  http.StatusOK,
		header:  make(http.Header),
	}
}

func (r *Response) Status() int {
	return r.status
}

func (r *Response) SetStatus(code int) error {
	if r.ended {
		return ErrResponseEnded
	}
	r.status = code
	return nil
}

// Header returns the first value of the named header.
func (r *Response) Header(name string) string {
	return r.header.Get(name)
}

// Headers returns a copy of the buffered headers.
func (r *Response) Headers() http.Header {
	return r.header.Clone()
}

// AddHeader appends a value, keeping earlier ones.
func (r *Response) AddHeader(name, value string) error {
	if r.ended {
		return ErrResponseEnded
	}
	r.header.Add(name, value)
	return nil
}

// SetHeader replaces all values of the named header.
func (r *Response) SetHeader(name, value string) error {
	if r.ended {
		return ErrResponseEnded
	}
	r.header.Set(name, value)
	return nil
}

// AddCookie queues a session cookie carrying the configured attributes.
func (r *Response) AddCookie(name, value string) error {
	return r.AddCookieMaxAge(name, value, 0)
}

// AddCookieMaxAge queues a cookie expiring after maxAge seconds.
func (r *Response) AddCookieMaxAge(name, value string, maxAge int) error {
	if r.ended {
		return ErrResponseEnded
	}
	r.jar = append(r.jar, r.cookies.Build(name, value, maxAge))
	return nil
}

func (r *Response) Cookies() []*http.Cookie {
	return slices.Clone(r.jar)
}

// Write appends p to the buffered body.
func (r *Response) Write(p []byte) (int, error) {
	if r.ended {
		return 0, ErrResponseEnded
	}
	return r.body.Write(p)
}

func (r *Response) WriteString(s string) (int, error) {
	if r.ended {
		return 0, ErrResponseEnded
	}
	return r.body.WriteString(s)
}

// Body returns the buffered body. The slice aliases the buffer.
func (r *Response) Body() []byte {
	return r.body.Bytes()
}

func (r *Response) ResetBody() error {
	if r.ended {
		return ErrResponseEnded
	}
	r.body.Reset()
	return nil
}

// JSON replaces the body with v encoded as JSON. It does not end the response.
func (r *Response) JSON(code int, v any) error {
	if r.ended {
		return ErrResponseEnded
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.status = code
	r.header.Set("Content-Type", "application/json")
	r.body.Reset()
	r.body.Write(data)
	return nil
}

// String replaces the body with s as plain text. It does not end the response.
func (r *Response) String(code int, s string) error {
	if r.ended {
		return ErrResponseEnded
	}
	r.status = code
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	r.body.Reset()
	r.body.WriteString(s)
	return nil
}

// End flushes the response to the transport. A second End returns ErrResponseEnded.
func (r *Response) End() error {
	if r.ended {
		return ErrResponseEnded
	}
	r.ended = true

	if r.out == nil {
		return nil
	}
	r.out.SetStatus(r.status)
	for _, name := range slices.Sorted(maps.Keys(r.header)) {
		for _, v := range r.header[name] {
			r.out.AddHeader(name, v)
		}
	}
	for _, c := range r.jar {
		r.out.AddCookie(c)
	}

	var errs []error
	if r.body.Len() > 0 {
		if _, err := r.out.Write(r.body.Bytes()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.out.End(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *Response) Ended() bool {
	return r.ended
}
