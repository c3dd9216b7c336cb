package http

import (
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// Response is the record of one executed request. The body is kept raw;
// JSON() gives a parsed view on first use.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration

	jsonOnce sync.Once
	json     gjson.Result
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// JSON lazily parses the body. The result is zero-valued for non-JSON bodies;
// callers check Exists()/Type as usual with gjson.
func (r *Response) JSON() gjson.Result {
	r.jsonOnce.Do(func() {
		if gjson.ValidBytes(r.Body) {
			r.json = gjson.ParseBytes(r.Body)
		}
	})
	return r.json
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
