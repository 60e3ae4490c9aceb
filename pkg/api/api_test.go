package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rtemka/agg/commentsview/domain"
	"github.com/rtemka/agg/commentsview/pkg/client"
	"github.com/rtemka/agg/commentsview/pkg/mockapi"
	"github.com/rtemka/agg/commentsview/pkg/submitter"
	"github.com/rtemka/agg/commentsview/pkg/view"
	"go.uber.org/zap"
)

func newAPI(t *testing.T, remote http.Handler) *httptest.Server {
	t.Helper()
	rs := httptest.NewServer(remote)
	t.Cleanup(rs.Close)

	c, err := client.New(rs.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("client.New() = err %v", err)
	}

	ts := httptest.NewServer(New(c, zap.NewNop()))
	t.Cleanup(ts.Close)
	return ts
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll() = err %v", err)
	}
	return string(b)
}

func TestAPI(t *testing.T) {
	ts := newAPI(t, mockapi.New(nil, zap.NewNop()))

	t.Run("get_comments_page", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/comments")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("API() = response code %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("API() = content type %q, want text/html", ct)
		}

		body := readBody(t, resp)
		for _, c := range mockapi.Testcoms[:3] {
			if !strings.Contains(body, c.Name) {
				t.Errorf("API() = %s, want comment %q", body, c.Name)
			}
		}
		if strings.Contains(body, mockapi.Testcoms[3].Name) {
			t.Errorf("API() = %s, want only comments of post 1", body)
		}
	})

	t.Run("root_redirect", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		_ = readBody(t, resp)
		if resp.Request.URL.Path != "/comments" {
			t.Errorf("API() = redirected to %q, want %q", resp.Request.URL.Path, "/comments")
		}
	})

	t.Run("get_state", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/comments/state")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		defer resp.Body.Close()

		var got stateResponse
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("API() = err %v", err)
		}
		if got.State != "ready" || len(got.Items) != 3 {
			t.Fatalf("API() = %+v, want ready with %d items", got, 3)
		}
		for i := range got.Items {
			if got.Items[i] != mockapi.Testcoms[i] {
				t.Errorf("API() = %v, want %v", got.Items[i], mockapi.Testcoms[i])
			}
		}
	})

	t.Run("get_create_form", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/comments/new")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		body := readBody(t, resp)
		if !strings.Contains(body, `name="name"`) || strings.Contains(body, submitter.SuccessMessage) {
			t.Errorf("API() = %s, want empty form", body)
		}
	})

	t.Run("post_create_form", func(t *testing.T) {
		resp, err := http.PostForm(ts.URL+"/comments/new", url.Values{view.NameField: {"Alice"}})
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("API() = response code %d, want %d", resp.StatusCode, http.StatusOK)
		}
		body := readBody(t, resp)
		if strings.Count(body, submitter.SuccessMessage) != 1 {
			t.Errorf("API() = %s, want one success message", body)
		}
		if !strings.Contains(body, `value="Alice"`) {
			t.Errorf("API() = %s, want field value kept", body)
		}
	})
}

func TestAPI_remoteFailure(t *testing.T) {
	ts := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	t.Run("comments_page", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/comments")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		body := readBody(t, resp)
		if !strings.Contains(body, "error with status code 500") {
			t.Errorf("API() = %s, want error message", body)
		}
	})

	t.Run("state", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/comments/state")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		defer resp.Body.Close()

		var got stateResponse
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("API() = err %v", err)
		}
		if got.State != "error" || !strings.Contains(got.Message, "500") {
			t.Errorf("API() = %+v, want error state", got)
		}
	})

	t.Run("submit", func(t *testing.T) {
		resp, err := http.PostForm(ts.URL+"/comments/new", url.Values{view.NameField: {"Alice"}})
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		body := readBody(t, resp)
		if strings.Contains(body, submitter.SuccessMessage) {
			t.Errorf("API() = %s, want no success message", body)
		}
	})
}

type slowRemote struct {
	release chan struct{}
}

func (s *slowRemote) Comments(ctx context.Context) ([]domain.Comment, error) {
	select {
	case <-s.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *slowRemote) CreateComment(context.Context, domain.NewCommentDraft) (domain.Comment, error) {
	return domain.Comment{}, nil
}

func TestAPI_loading(t *testing.T) {
	remote := &slowRemote{release: make(chan struct{})}
	defer close(remote.release)

	a := New(remote, zap.NewNop())
	a.RenderWait = 10 * time.Millisecond
	ts := httptest.NewServer(a)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/comments")
	if err != nil {
		t.Fatalf("API() = err %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, view.LoadingText) {
		t.Errorf("API() = %s, want loading notice", body)
	}
	if resp.Header.Get("Refresh") == "" {
		t.Error("API() = no Refresh header while loading")
	}
}

func TestAPI_requestID(t *testing.T) {
	got := make(chan string, 1)
	ts := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case got <- r.Header.Get(client.RequestIDHeader):
		default:
		}
		_, _ = w.Write([]byte("[]"))
	}))

	resp, err := http.Get(ts.URL + "/comments/state?request-id=abc")
	if err != nil {
		t.Fatalf("API() = err %v", err)
	}
	_ = readBody(t, resp)

	if id := <-got; id != "abc" {
		t.Errorf("remote request id = %q, want %q", id, "abc")
	}
}
