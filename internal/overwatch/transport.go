package overwatch

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
)

// Transport issues a single GET and reports the raw status and body. Probing
// depends on seeing raw statuses, so implementations must not follow
// redirects or retry.
type Transport interface {
	Get(ctx context.Context, url string) (status int, body []byte, err error)
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type fasthttpTransport struct {
	client *fasthttp.Client
}

// NewTransport returns the production Transport backed by fasthttp.
func NewTransport() Transport {
	return &fasthttpTransport{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (t *fasthttpTransport) Get(ctx context.Context, url string) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := t.client.DoDeadline(req, resp, deadline); err != nil {
			return 0, nil, err
		}
	} else {
		if err := t.client.Do(req, resp); err != nil {
			return 0, nil, err
		}
	}

	// The response buffer is reused after release; the body must be copied out.
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}
