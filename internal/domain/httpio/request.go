// Package httpio provides the request and response collaborators installed by
// the Request and Response stages.
package httpio

import (
	"net/url"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/alexisbeaulieu97/proem/internal/domain/routing"
	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

// Content types understood by HTTPRequest.
const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
)

// Request is the io.request capability.
type Request interface {
	service.Provider
	routing.Target
	ContentType() string
	Body() []byte
	Query(key string) string
	InjectPayload(p *routing.Payload)
	Payload() *routing.Payload
}

// HTTPRequest is the default Request built from a URL, method and body.
type HTTPRequest struct {
	url         *url.URL
	method      string
	contentType string
	body        []byte
	payload     *routing.Payload
}

// NewHTTPRequest parses rawURL. An empty URL yields a request for "/".
// method defaults to GET and is upper-cased.
func NewHTTPRequest(rawURL, method string, body []byte) (*HTTPRequest, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, proemerrors.NewValidationError("request.url", err.Error(), err)
	}
	r := &HTTPRequest{
		url:         u,
		contentType: ContentTypeForm,
		body:        append([]byte(nil), body...),
		payload:     routing.NewPayload(nil),
	}
	r.SetMethod(method)
	return r, nil
}

// Provides implements service.Provider.
func (r *HTTPRequest) Provides(c service.Capability) bool {
	return c == service.CapRequest
}

// Method returns the upper-cased request method.
func (r *HTTPRequest) Method() string { return r.method }

// SetMethod upper-cases and stores method. Empty means GET.
func (r *HTTPRequest) SetMethod(method string) *HTTPRequest {
	if method == "" {
		method = "GET"
	}
	r.method = strings.ToUpper(method)
	return r
}

// URI returns the request path, "/" when empty.
func (r *HTTPRequest) URI() string {
	if r.url.Path == "" {
		return "/"
	}
	return r.url.Path
}

// Host returns the host name without port.
func (r *HTTPRequest) Host() string { return r.url.Hostname() }

// Query returns the first query parameter named key.
func (r *HTTPRequest) Query(key string) string { return r.url.Query().Get(key) }

// ContentType returns the declared body content type.
func (r *HTTPRequest) ContentType() string { return r.contentType }

// SetContentType stores contentType; the shorthand "json" expands to
// application/json.
func (r *HTTPRequest) SetContentType(contentType string) *HTTPRequest {
	if strings.EqualFold(contentType, "json") {
		contentType = ContentTypeJSON
	}
	r.contentType = contentType
	return r
}

// Body returns the raw body.
func (r *HTTPRequest) Body() []byte { return r.body }

// DecodeJSON unmarshals a JSON body into v. The content type must be JSON.
func (r *HTTPRequest) DecodeJSON(v any) error {
	if r.contentType != ContentTypeJSON {
		return proemerrors.NewValidationError("request.content_type", "body is not "+ContentTypeJSON, nil)
	}
	if err := sonic.Unmarshal(r.body, v); err != nil {
		return proemerrors.NewParseError("request.body", 0, err)
	}
	return nil
}

// InjectPayload stores the routing payload. A nil payload resets it.
func (r *HTTPRequest) InjectPayload(p *routing.Payload) {
	if p == nil {
		p = routing.NewPayload(nil)
	}
	r.payload = p
}

// Payload returns the routing payload.
func (r *HTTPRequest) Payload() *routing.Payload { return r.payload }

var _ Request = (*HTTPRequest)(nil)
