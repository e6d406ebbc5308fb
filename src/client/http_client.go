package client

import (
	"errors"
	"fmt"
	"github.com/valyala/fasthttp"
	"strings"
	"time"
)

const DefaultRequestTimeout = 20 * time.Second

type HttpClientInterface interface {
	Post(url string, message []byte, headers map[string]string) ([]byte, error)
	Get(url string, headers map[string]string) ([]byte, error)
}

// HttpClient is safe for concurrent use, refreshers and the scheduler share one.
type HttpClient struct {
	Client  *fasthttp.Client
	Timeout time.Duration
}

func NewHttpClient(timeout time.Duration) *HttpClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &HttpClient{
		Client: &fasthttp.Client{
			Name:                "altcoin-autosell",
			MaxIdleConnDuration: time.Minute,
		},
		Timeout: timeout,
	}
}

func (h *HttpClient) Post(url string, message []byte, headers map[string]string) ([]byte, error) {
	return h.do(fasthttp.MethodPost, url, message, headers)
}

func (h *HttpClient) Get(url string, headers map[string]string) ([]byte, error) {
	return h.do(fasthttp.MethodGet, url, nil, headers)
}

func (h *HttpClient) do(method string, url string, message []byte, headers map[string]string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	if message != nil {
		req.SetBody(message)
	}

	if err := h.Client.DoTimeout(req, res, h.Timeout); err != nil {
		return nil, err
	}

	if res.StatusCode() >= 400 {
		return nil, errors.New(fmt.Sprintf(
			"Request [%s] failed with error code: %d, body: %s",
			url,
			res.StatusCode(),
			strings.TrimSpace(string(res.Body())),
		))
	}

	// the body buffer is released together with the response
	body := make([]byte, len(res.Body()))
	copy(body, res.Body())

	return body, nil
}
