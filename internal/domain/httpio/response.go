package httpio

import (
	"bytes"
	"io"

	"github.com/bytedance/sonic"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
)

// Response is the io.response capability.
type Response interface {
	service.Provider
	SetBody(s string)
	AppendToBody(s string)
	Body() string
	Len() int
	Send(w io.Writer) (int64, error)
}

// HTTPResponse is the default buffered Response.
type HTTPResponse struct {
	status int
	body   bytes.Buffer
}

// NewHTTPResponse returns an empty 200 response.
func NewHTTPResponse() *HTTPResponse {
	return &HTTPResponse{status: 200}
}

// Provides implements service.Provider.
func (r *HTTPResponse) Provides(c service.Capability) bool {
	return c == service.CapResponse
}

// Status returns the HTTP status code.
func (r *HTTPResponse) Status() int { return r.status }

// SetStatus sets the HTTP status code.
func (r *HTTPResponse) SetStatus(code int) { r.status = code }

// SetBody replaces the body.
func (r *HTTPResponse) SetBody(s string) {
	r.body.Reset()
	r.body.WriteString(s)
}

// AppendToBody appends to the body.
func (r *HTTPResponse) AppendToBody(s string) { r.body.WriteString(s) }

// AppendJSON appends v encoded as JSON.
func (r *HTTPResponse) AppendJSON(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	r.body.Write(data)
	return nil
}

// Body returns the body.
func (r *HTTPResponse) Body() string { return r.body.String() }

// Len returns the body length in bytes.
func (r *HTTPResponse) Len() int { return r.body.Len() }

// Send writes the body to w. The body is kept so it can be sent again.
func (r *HTTPResponse) Send(w io.Writer) (int64, error) {
	n, err := w.Write(r.body.Bytes())
	return int64(n), err
}

var _ Response = (*HTTPResponse)(nil)
