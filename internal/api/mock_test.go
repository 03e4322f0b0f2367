package api

import (
	"io"
	"net/url"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHttpClient is a mock HTTPDoer with a cookie jar
type MockHttpClient struct {
	Response   *fhttp.Response
	Err        error
	Requests   []*fhttp.Request
	Bodies     [][]byte
	Jar        map[string][]*fhttp.Cookie
	IdleClosed bool
}

// Do records the request and returns the canned response
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Requests = append(m.Requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, data)
	} else {
		m.Bodies = append(m.Bodies, nil)
	}
	return m.Response, m.Err
}

// GetCookies returns the cookies stored for u's host
func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie {
	return m.Jar[u.Host]
}

// SetCookies stores cookies for u's host
func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {
	if m.Jar == nil {
		m.Jar = make(map[string][]*fhttp.Cookie)
	}
	m.Jar[u.Host] = append(m.Jar[u.Host], cookies...)
}

// CloseIdleConnections records the call
func (m *MockHttpClient) CloseIdleConnections() {
	m.IdleClosed = true
}

// LastRequest returns the most recent request, or nil
func (m *MockHttpClient) LastRequest() *fhttp.Request {
	if len(m.Requests) == 0 {
		return nil
	}
	return m.Requests[len(m.Requests)-1]
}

// NewMockHttpClient creates a new MockHttpClient with a canned response
func NewMockHttpClient(body []byte, statusCode int, contentType string) *MockHttpClient {
	header := make(fhttp.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     header,
		},
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{
		Response: nil,
		Err:      err,
	}
}
