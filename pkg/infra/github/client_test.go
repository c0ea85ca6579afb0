package github_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ffbot/pkg/domain/interfaces"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
	githubinfra "github.com/m-mizutani/ffbot/pkg/infra/github"
)

const installationToken = "ghs_testinstallationtoken"

type staticJWT struct {
	token string
	err   error
}

func (s *staticJWT) BuildToken() (string, error) { return s.token, s.err }

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// fakeGitHub serves the three endpoints used by the client. Handlers for compare and
// refs may be replaced per test.
type fakeGitHub struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest

	tokenHandler   http.HandlerFunc
	compareHandler http.HandlerFunc
	refsHandler    http.HandlerFunc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *httptest.Server) {
	f := &fakeGitHub{
		t: t,
		tokenHandler: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]any{
				"token":      installationToken,
				"expires_at": "2030-01-01T00:00:00Z",
			})
		},
		compareHandler: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ahead_by": 1, "behind_by": 0, "status": "ahead"})
		},
		refsHandler: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ref": "refs/heads/main"})
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /app/installations/{id}/access_tokens", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.tokenHandler(w, r)
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}/compare/{basehead...}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.compareHandler(w, r)
	})
	mux.HandleFunc("PATCH /repos/{owner}/{repo}/git/refs/{ref...}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.refsHandler(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeGitHub) record(r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		f.t.Errorf("failed to read request body: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
}

func (f *fakeGitHub) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest{}, f.requests...)
}

func newAPI(t *testing.T, srv *httptest.Server) interfaces.GitHubAPI {
	t.Helper()
	provider := githubinfra.NewProvider(&staticJWT{token: "app-jwt"},
		githubinfra.WithBaseURL(srv.URL+"/"),
		githubinfra.WithHTTPClient(srv.Client()),
	)
	api, err := provider.GetAPI(context.Background(), model.AppInstallation{InstallationID: 42})
	gt.NoError(t, err)
	return api
}

func apiErrorKind(t *testing.T, err error) model.APIErrorKind {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	return apiErr.Kind
}

func TestProvider_GetAPI(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	newAPI(t, srv)

	reqs := fake.Requests()
	gt.Number(t, len(reqs)).Equal(1)
	gt.Value(t, reqs[0].Method).Equal(http.MethodPost)
	gt.Value(t, reqs[0].Path).Equal("/app/installations/42/access_tokens")
	gt.Value(t, reqs[0].Header.Get("Authorization")).Equal("Bearer app-jwt")
	gt.Value(t, reqs[0].Header.Get("Accept")).Equal("application/vnd.github+json")
	gt.Value(t, reqs[0].Header.Get("X-GitHub-Api-Version")).Equal("2022-11-28")
	gt.Value(t, reqs[0].Header.Get("User-Agent")).Equal("ffbot")
}

func TestProvider_GetAPI_SignedAppJWT(t *testing.T) {
	fake, srv := newFakeGitHub(t)

	creator, err := githubinfra.NewTokenCreator("Iv1.client", pkcs1PEM(t))
	gt.NoError(t, err)

	provider := githubinfra.NewProvider(creator,
		githubinfra.WithBaseURL(srv.URL),
		githubinfra.WithHTTPClient(srv.Client()),
	)
	_, err = provider.GetAPI(context.Background(), model.AppInstallation{InstallationID: 7})
	gt.NoError(t, err)

	reqs := fake.Requests()
	gt.Number(t, len(reqs)).Equal(1)

	bearer := strings.TrimPrefix(reqs[0].Header.Get("Authorization"), "Bearer ")
	token, err := jwt.Parse([]byte(bearer), jwt.WithKey(jwa.RS256, &rsaKey(t).PublicKey))
	gt.NoError(t, err)
	gt.Value(t, token.Issuer()).Equal("Iv1.client")
}

func TestProvider_GetAPI_EachCallExchangesToken(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	provider := githubinfra.NewProvider(&staticJWT{token: "app-jwt"},
		githubinfra.WithBaseURL(srv.URL),
		githubinfra.WithHTTPClient(srv.Client()),
	)

	for i := 0; i < 3; i++ {
		_, err := provider.GetAPI(context.Background(), model.AppInstallation{InstallationID: 42})
		gt.NoError(t, err)
	}
	gt.Number(t, len(fake.Requests())).Equal(3)
}

func TestProvider_GetAPI_Errors(t *testing.T) {
	tests := []struct {
		name     string
		jwt      *staticJWT
		handler  http.HandlerFunc
		wantKind model.APIErrorKind
		wantMsg  string
	}{
		{
			name:     "JWT build failure",
			jwt:      &staticJWT{err: errors.New("sign failed")},
			wantKind: model.APIErrorAuthentication,
			wantMsg:  "Failed to build App JWT",
		},
		{
			name: "rejected with message",
			jwt:  &staticJWT{token: "app-jwt"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "A JSON web token could not be decoded"})
			},
			wantKind: model.APIErrorAuthentication,
			wantMsg:  "A JSON web token could not be decoded",
		},
		{
			name: "rejected without body",
			jwt:  &staticJWT{token: "app-jwt"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantKind: model.APIErrorAuthentication,
			wantMsg:  "Failed to authenticate as App installation",
		},
		{
			name: "HTML success body",
			jwt:  &staticJWT{token: "app-jwt"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte("<html>token</html>"))
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "empty token",
			jwt:  &staticJWT{token: "app-jwt"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusCreated, map[string]any{"token": ""})
			},
			wantKind: model.APIErrorUnspecific,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeGitHub(t)
			if tt.handler != nil {
				fake.tokenHandler = tt.handler
			}

			provider := githubinfra.NewProvider(tt.jwt,
				githubinfra.WithBaseURL(srv.URL),
				githubinfra.WithHTTPClient(srv.Client()),
			)
			api, err := provider.GetAPI(context.Background(), model.AppInstallation{InstallationID: 1})
			gt.Value(t, api).Nil()
			gt.Value(t, apiErrorKind(t, err)).Equal(tt.wantKind)
			if tt.wantMsg != "" {
				gt.Value(t, err.Error()).Equal(tt.wantMsg)
			}
		})
	}
}

func TestProvider_GetAPI_TransportFailure(t *testing.T) {
	_, srv := newFakeGitHub(t)
	url := srv.URL
	srv.Close()

	provider := githubinfra.NewProvider(&staticJWT{token: "app-jwt"}, githubinfra.WithBaseURL(url))
	_, err := provider.GetAPI(context.Background(), model.AppInstallation{InstallationID: 1})
	gt.Value(t, apiErrorKind(t, err)).Equal(model.APIErrorUnspecific)
}

func TestClient_CompareCommits(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	fake.compareHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.github+json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ahead_by":3,"behind_by":2,"status":"diverged","total_commits":3}`))
	}
	api := newAPI(t, srv)

	comparison, err := api.CompareCommits(context.Background(), &model.BranchComparisonRequest{
		RepositoryName: "octo/repo",
		BaseBranch:     "main",
		HeadBranch:     "ready/new-feature",
	})
	gt.NoError(t, err)
	gt.Value(t, comparison.AheadBy).Equal(3)
	gt.Value(t, comparison.BehindBy).Equal(2)

	reqs := fake.Requests()
	gt.Number(t, len(reqs)).Equal(2)
	gt.Value(t, reqs[1].Method).Equal(http.MethodGet)
	gt.Value(t, reqs[1].Path).Equal("/repos/octo/repo/compare/main...ready/new-feature")
	gt.Value(t, reqs[1].Header.Get("Authorization")).Equal("Bearer " + installationToken)
	gt.Value(t, reqs[1].Header.Get("Accept")).Equal("application/vnd.github+json")
	gt.Value(t, reqs[1].Header.Get("X-GitHub-Api-Version")).Equal("2022-11-28")
	gt.Value(t, reqs[1].Header.Get("User-Agent")).Equal("ffbot")
}

func TestClient_CompareCommits_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind model.APIErrorKind
		wantMsg  string
	}{
		{
			name: "not found with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
			},
			wantKind: model.APIErrorRepositoryNotFound,
			wantMsg:  "Not Found",
		},
		{
			name: "not found without message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]any{})
			},
			wantKind: model.APIErrorRepositoryNotFound,
			wantMsg:  "Repository not found",
		},
		{
			name: "not found as HTML",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusNotFound)
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "success as plain text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte(`{"ahead_by":1,"behind_by":0}`))
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "missing behind_by",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"ahead_by": 1})
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "missing ahead_by",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"behind_by": 0})
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "negative ahead_by",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"ahead_by": -1, "behind_by": 0})
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "negative behind_by",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"ahead_by": 1, "behind_by": -2})
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "broken JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"ahead_by":`))
			},
			wantKind: model.APIErrorUnspecific,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeGitHub(t)
			fake.compareHandler = tt.handler
			api := newAPI(t, srv)

			comparison, err := api.CompareCommits(context.Background(), &model.BranchComparisonRequest{
				RepositoryName: "octo/repo",
				BaseBranch:     "main",
				HeadBranch:     "feature",
			})
			gt.Value(t, comparison).Nil()
			gt.Value(t, apiErrorKind(t, err)).Equal(tt.wantKind)
			if tt.wantMsg != "" {
				gt.Value(t, err.Error()).Equal(tt.wantMsg)
			}
		})
	}
}

func TestClient_CompareCommits_EscapesBranchNames(t *testing.T) {
	tests := []struct {
		name       string
		baseBranch string
		headBranch string
		wantPath   string
	}{
		{
			name:       "fragment character",
			baseBranch: "main",
			headBranch: "feature#12",
			wantPath:   "/repos/octo/repo/compare/main...feature#12",
		},
		{
			name:       "percent sign",
			baseBranch: "main",
			headBranch: "100%done",
			wantPath:   "/repos/octo/repo/compare/main...100%done",
		},
		{
			name:       "question mark in base",
			baseBranch: "release?1",
			headBranch: "feature",
			wantPath:   "/repos/octo/repo/compare/release?1...feature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeGitHub(t)
			api := newAPI(t, srv)

			_, err := api.CompareCommits(context.Background(), &model.BranchComparisonRequest{
				RepositoryName: "octo/repo",
				BaseBranch:     tt.baseBranch,
				HeadBranch:     tt.headBranch,
			})
			gt.NoError(t, err)

			reqs := fake.Requests()
			gt.Number(t, len(reqs)).Equal(2)
			gt.Value(t, reqs[1].Path).Equal(tt.wantPath)
		})
	}
}

func TestClient_InvalidRepositoryName(t *testing.T) {
	for _, name := range []string{"octo", "/repo", "octo/", "octo/repo/extra"} {
		t.Run(name, func(t *testing.T) {
			fake, srv := newFakeGitHub(t)
			api := newAPI(t, srv)

			_, err := api.CompareCommits(context.Background(), &model.BranchComparisonRequest{
				RepositoryName: name,
				BaseBranch:     "main",
				HeadBranch:     "feature",
			})
			gt.Value(t, apiErrorKind(t, err)).Equal(model.APIErrorUnspecific)

			err = api.UpdateReference(context.Background(), &model.UpdateReferenceRequest{
				RepositoryName: name,
				Reference:      "heads/main",
				SHA:            "abc",
			})
			gt.Value(t, apiErrorKind(t, err)).Equal(model.APIErrorUnspecific)

			// Only the token exchange reached the server
			gt.Number(t, len(fake.Requests())).Equal(1)
		})
	}
}

func TestClient_UpdateReference_EscapesBranchName(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	api := newAPI(t, srv)

	err := api.UpdateReference(context.Background(), &model.UpdateReferenceRequest{
		RepositoryName: "octo/repo",
		Reference:      "heads/trunk#1",
		SHA:            "0123456789abcdef0123456789abcdef01234567",
	})
	gt.NoError(t, err)

	reqs := fake.Requests()
	gt.Number(t, len(reqs)).Equal(2)
	gt.Value(t, reqs[1].Path).Equal("/repos/octo/repo/git/refs/heads/trunk#1")
}

func TestClient_UpdateReference(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	api := newAPI(t, srv)

	err := api.UpdateReference(context.Background(), &model.UpdateReferenceRequest{
		RepositoryName: "octo/repo",
		Reference:      "heads/main",
		SHA:            "0123456789abcdef0123456789abcdef01234567",
		Force:          false,
	})
	gt.NoError(t, err)

	reqs := fake.Requests()
	gt.Number(t, len(reqs)).Equal(2)
	gt.Value(t, reqs[1].Method).Equal(http.MethodPatch)
	gt.Value(t, reqs[1].Path).Equal("/repos/octo/repo/git/refs/heads/main")
	gt.Value(t, reqs[1].Header.Get("Authorization")).Equal("Bearer " + installationToken)
	gt.Value(t, reqs[1].Header.Get("Content-Type")).Equal("application/json")

	var body map[string]any
	gt.NoError(t, json.Unmarshal(reqs[1].Body, &body))
	gt.Value(t, body["sha"]).Equal(any("0123456789abcdef0123456789abcdef01234567"))
	gt.Value(t, body["force"]).Equal(any(false))
}

func TestClient_UpdateReference_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind model.APIErrorKind
		wantMsg  string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
			},
			wantKind: model.APIErrorRepositoryNotFound,
			wantMsg:  "Not Found",
		},
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusForbidden, map[string]any{"message": "Resource not accessible by integration"})
			},
			wantKind: model.APIErrorAuthorization,
			wantMsg:  "Resource not accessible by integration",
		},
		{
			name: "not a fast forward",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Update is not a fast forward"})
			},
			wantKind: model.APIErrorUnspecific,
		},
		{
			name: "forbidden as HTML",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("<html>forbidden</html>"))
			},
			wantKind: model.APIErrorUnspecific,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeGitHub(t)
			fake.refsHandler = tt.handler
			api := newAPI(t, srv)

			err := api.UpdateReference(context.Background(), &model.UpdateReferenceRequest{
				RepositoryName: "octo/repo",
				Reference:      "heads/main",
				SHA:            "abc",
			})
			gt.Value(t, apiErrorKind(t, err)).Equal(tt.wantKind)
			if tt.wantMsg != "" {
				gt.Value(t, err.Error()).Equal(tt.wantMsg)
			}
		})
	}
}

func TestClient_CancelledContext(t *testing.T) {
	_, srv := newFakeGitHub(t)
	api := newAPI(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.CompareCommits(ctx, &model.BranchComparisonRequest{
		RepositoryName: "octo/repo",
		BaseBranch:     "main",
		HeadBranch:     "feature",
	})
	gt.Value(t, apiErrorKind(t, err)).Equal(model.APIErrorUnspecific)
	gt.True(t, errors.Is(err, context.Canceled))
}
