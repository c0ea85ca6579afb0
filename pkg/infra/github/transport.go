package github

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	userAgent       = "ffbot"
	mediaTypeGitHub = "application/vnd.github+json"
	mediaTypeJSON   = "application/json"
	maxLoggedBody   = 4096
)

// contentTypeError is returned for responses that are not declared as JSON
type contentTypeError struct {
	StatusCode  int
	ContentType string
}

func (e *contentTypeError) Error() string {
	return fmt.Sprintf("unexpected content type %q with status %d", e.ContentType, e.StatusCode)
}

// jsonTransport sets the Accept header and rejects any response that is not JSON,
// so HTML error pages from proxies never reach the decoder.
type jsonTransport struct {
	base http.RoundTripper
}

func (t *jsonTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", mediaTypeGitHub)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if isJSONContentType(resp) {
		return resp, nil
	}

	content, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	_ = resp.Body.Close()

	ctxlog.From(req.Context()).Error("Content-Type is not valid for JSON",
		"content_type", resp.Header.Get("Content-Type"),
		"status", resp.StatusCode,
		"content", string(content),
	)
	return nil, &contentTypeError{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
}

func isJSONContentType(resp *http.Response) bool {
	ct := resp.Header.Get("Content-Type")
	return strings.HasPrefix(ct, mediaTypeJSON) || strings.HasPrefix(ct, mediaTypeGitHub)
}

// newGitHubClient returns a go-github client that authenticates with bearer
func newGitHubClient(httpClient *http.Client, baseURL *url.URL, bearer string) *github.Client {
	hc := *httpClient
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &jsonTransport{base: base}

	c := github.NewClient(&hc).WithAuthToken(bearer)
	c.BaseURL = baseURL
	c.UserAgent = userAgent
	return c
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", baseURL))
	}
	return u, nil
}

func splitRepositoryName(name string) (string, string, error) {
	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", goerr.New("invalid repository name", goerr.V("repository", name))
	}
	return owner, repo, nil
}

func unspecific(cause error) *model.APIError {
	return model.NewAPIError(model.APIErrorUnspecific, "", cause)
}

// failureStatus returns the HTTP status of a failed call, or 0 when no response arrived
func failureStatus(resp *github.Response, err error) int {
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	var ctErr *contentTypeError
	if errors.As(err, &ctErr) {
		return ctErr.StatusCode
	}
	return 0
}

// upstreamMessage returns the message of a JSON error body sent by GitHub, or fallback
// when the body has none. ok is false if err does not carry a JSON error body.
func upstreamMessage(err error, fallback string) (msg string, ok bool) {
	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
	)

	switch {
	case errors.As(err, &errResp):
		msg = errResp.Message
	case errors.As(err, &rateErr):
		msg = rateErr.Message
	case errors.As(err, &abuseErr):
		msg = abuseErr.Message
	default:
		return "", false
	}

	if msg == "" {
		msg = fallback
	}
	return msg, true
}
