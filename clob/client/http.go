package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// httpClient resty 封装的 HTTP 层。
// resty 会自动从环境变量读取代理配置（HTTP_PROXY / HTTPS_PROXY）。
type httpClient struct {
	rc *resty.Client
}

func newHTTPClient(host string) *httpClient {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(host, "/")).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			// 429 限流时优先使用 Retry-After 头
			if resp.StatusCode() == http.StatusTooManyRequests {
				if ra := resp.Header().Get("Retry-After"); ra != "" {
					if d, err := time.ParseDuration(ra + "s"); err == nil {
						return d, nil
					}
				}
				return 10 * time.Second, nil
			}
			return 0, nil
		})

	return &httpClient{rc: rc}
}

// requestOptions 单次请求的可选项
type requestOptions struct {
	headers map[string]string
	params  map[string]string
	body    any
}

// newRequest 仅设置本次请求的默认 Header（不要改 client 级 Header）
func (h *httpClient) newRequest(ctx context.Context) *resty.Request {
	r := h.rc.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "*/*")
	r.SetHeader("Connection", "keep-alive")
	r.SetHeader("User-Agent", "tradegate-clob")
	return r
}

// do 执行请求并把 2xx 响应解码到 out
func (h *httpClient) do(ctx context.Context, method, endpoint string, opt *requestOptions, out any) error {
	r := h.newRequest(ctx)
	if opt != nil {
		if opt.headers != nil {
			r.SetHeaders(opt.headers)
		}
		if opt.params != nil {
			r.SetQueryParams(opt.params)
		}
		if opt.body != nil {
			r.SetHeader("Content-Type", "application/json")
			r.SetBody(opt.body)
		}
	}
	if out != nil {
		r.SetResult(out)
	}

	var resp *resty.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = r.Get(endpoint)
	case http.MethodPost:
		resp, err = r.Post(endpoint)
	case http.MethodDelete:
		resp, err = r.Delete(endpoint)
	default:
		return fmt.Errorf("不支持的请求方法: %s", method)
	}
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	if !resp.IsSuccess() {
		return newHTTPError(method, endpoint, resp)
	}
	return nil
}

// HTTPError venue 返回的非 2xx 响应
type HTTPError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
	VenueError string // venue 错误体中的 error 字段（如有）
}

func (e *HTTPError) Error() string {
	if e.VenueError != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Endpoint, e.StatusCode, e.VenueError)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

func newHTTPError(method, endpoint string, resp *resty.Response) *HTTPError {
	he := &HTTPError{
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(resp.Body(), &body) == nil {
		he.VenueError = body.Error
	}
	return he
}
