package client

import "net/http"

// Interceptor observes the traffic of one HTTPClient.
//
// AttachAuth may return a modified clone of req; it must not mutate req.
// InterceptResponse sees the response before the body is read and returns
// the response to hand on (normally the same one).
type Interceptor interface {
	AttachAuth(req *http.Request) *http.Request
	InterceptResponse(req *http.Request, resp *http.Response) *http.Response
}

type interceptTransport struct {
	next        http.RoundTripper
	interceptor Interceptor
}

func (t *interceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = t.interceptor.AttachAuth(req)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	return t.interceptor.InterceptResponse(req, resp), nil
}
