package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rtemka/agg/commentsview/domain"
	"go.uber.org/zap"
)

func TestAPI(t *testing.T) {
	api := New(nil, zap.NewNop())
	ts := httptest.NewServer(api)
	defer ts.Close()

	t.Run("get_comments", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/posts/1/comments")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("API() = response code %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var got []domain.Comment
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("API() = err %v", err)
		}

		if len(got) != 3 {
			t.Fatalf("API() = %d records, want %d records", len(got), 3)
		}
		for i := range got {
			if got[i] != Testcoms[i] {
				t.Errorf("API() = %v, want %v", got[i], Testcoms[i])
			}
		}
	})

	t.Run("get_comments_unknown_post", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/posts/100/comments")
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		defer resp.Body.Close()

		var got []domain.Comment
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("API() = err %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("API() = %v, want empty array", got)
		}
	})

	t.Run("post_comment", func(t *testing.T) {
		b := []byte(`{"postId":1,"name":"Alice","email":"user@example.com","body":"hi"}`)
		resp, err := http.Post(ts.URL+"/posts/1/comments", "application/json", bytes.NewReader(b))
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Errorf("API() = response code %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var got domain.Comment
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("API() = err %v", err)
		}

		want := domain.Comment{ID: CreatedID, PostID: 1, Name: "Alice", Email: "user@example.com", Body: "hi"}
		if got != want {
			t.Fatalf("API() = %v, want %v", got, want)
		}
	})

	t.Run("post_bad_body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/posts/1/comments", "application/json", bytes.NewReader([]byte("{")))
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("API() = response code %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("options_not_routed_to_create", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/posts/1/comments", nil)
		if err != nil {
			t.Fatalf("NewRequest() = err %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("API() = err %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("API() = response code %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
		}
	})
}
