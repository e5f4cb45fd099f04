package whttp

import (
	"context"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Params  url.Values // appended to the query string
	Body    url.Values // form-encoded request body, may be nil
	Headers []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode int
	BodyString string
}

var defaultClient *retryablehttp.Client

// GetDefaultClient returns the shared retrying HTTP client. Retry chatter is
// discarded; callers log at the request level instead.
func GetDefaultClient() *retryablehttp.Client {
	if defaultClient == nil {
		defaultClient = retryablehttp.NewClient()
		defaultClient.Logger = log.New(io.Discard, "", 0)
		defaultClient.RetryMax = 5
	}
	return defaultClient
}

func SendHTTPRequest(ctx context.Context, wReq *WHTTPReq, client *retryablehttp.Client) (*WHTTPRes, error) {
	if client == nil {
		client = GetDefaultClient()
	}

	reqURL := wReq.URL
	if len(wReq.Params) > 0 {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + wReq.Params.Encode()
	}

	var body io.Reader
	if len(wReq.Body) > 0 {
		body = strings.NewReader(wReq.Body.Encode())
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, wReq.Method, reqURL, body)
	if err != nil {
		return nil, err
	}

	// Set common headers
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Set custom headers
	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &WHTTPRes{
		StatusCode: resp.StatusCode,
		BodyString: string(bodyBytes),
	}, nil
}
