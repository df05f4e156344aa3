// Tests for the Notion API client.

package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&Config{Token: "secret", DatabaseID: "db", BaseURL: srv.URL, RequestsPerSecond: 1000})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Token: "t", DatabaseID: "d"}, false},
		{"no token", Config{DatabaseID: "d"}, true},
		{"no database", Config{Token: "t"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQueryDatabase(t *testing.T) {
	var gotBodies []QueryRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/databases/db-1/query" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Notion-Version"); got != APIVersion {
			t.Errorf("Notion-Version = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if len(gotBodies) == 0 && strings.Contains(string(raw), "start_cursor") {
			t.Errorf("first request must not carry a cursor: %s", raw)
		}
		var req QueryRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Fatal(err)
		}
		gotBodies = append(gotBodies, req)
		if req.StartCursor == "" {
			_, _ = io.WriteString(w, `{"object":"list","results":[{"id":"p1","created_time":"2024-01-02T03:04:00.000Z"}],"next_cursor":"c2","has_more":true}`)
			return
		}
		_, _ = io.WriteString(w, `{"object":"list","results":[{"id":"p2"}],"next_cursor":null,"has_more":false}`)
	})

	ctx := context.Background()
	resp, err := c.QueryDatabase(ctx, "db-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "p1" {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
	if resp.Results[0].CreatedTime != "2024-01-02T03:04:00.000Z" {
		t.Errorf("created_time = %q", resp.Results[0].CreatedTime)
	}
	if resp.NextCursor == nil || *resp.NextCursor != "c2" {
		t.Fatalf("next cursor = %v", resp.NextCursor)
	}

	resp, err = c.QueryDatabase(ctx, "db-1", "c2")
	if err != nil {
		t.Fatal(err)
	}
	if resp.NextCursor != nil {
		t.Errorf("expected nil next cursor, got %q", *resp.NextCursor)
	}
	if len(gotBodies) != 2 || gotBodies[1].StartCursor != "c2" || gotBodies[1].PageSize != 100 {
		t.Errorf("unexpected requests: %+v", gotBodies)
	}
}

func TestAPIError(t *testing.T) {
	t.Run("notion error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`)
		})
		_, err := c.QueryDatabase(context.Background(), "db", "")
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *Error, got %T: %v", err, err)
		}
		if apiErr.Status != 401 || apiErr.Code != "unauthorized" {
			t.Errorf("unexpected error: %+v", apiErr)
		}
		if got := apiErr.Error(); got != "unauthorized: API token is invalid." {
			t.Errorf("Error() = %q", got)
		}
	})
	t.Run("opaque body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
		})
		_, err := c.QueryDatabase(context.Background(), "db", "")
		if err == nil || !strings.Contains(err.Error(), "status 502") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPageToMarkdown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		switch r.URL.Path {
		case "/blocks/page-1/children":
			if r.URL.Query().Get("start_cursor") == "" {
				_, _ = io.WriteString(w, `{"results":[
					{"id":"b1","type":"heading_1","heading_1":{"rich_text":[{"plain_text":"Title"}]}},
					{"id":"b2","type":"bulleted_list_item","has_children":true,"bulleted_list_item":{"rich_text":[{"plain_text":"outer"}]}}
				],"next_cursor":"more","has_more":true}`)
				return
			}
			_, _ = io.WriteString(w, `{"results":[
				{"id":"b3","type":"paragraph","paragraph":{"rich_text":[{"plain_text":"tail"}]}}
			],"next_cursor":null,"has_more":false}`)
		case "/blocks/b2/children":
			_, _ = io.WriteString(w, `{"results":[
				{"id":"b4","type":"bulleted_list_item","bulleted_list_item":{"rich_text":[{"plain_text":"inner"}]}}
			],"next_cursor":null,"has_more":false}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	blocks, err := c.PageToMarkdown(context.Background(), "page-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	if len(blocks[1].Children) != 1 || blocks[1].Children[0].Parent != "- inner" {
		t.Errorf("children not attached: %+v", blocks[1])
	}
	want := "# Title\n\n- outer\n  - inner\n\ntail"
	if got := ToMarkdownString(blocks).Content(); got != want {
		t.Errorf("markdown =\n%q\nwant\n%q", got, want)
	}
}

func TestClientHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.QueryDatabase(ctx, "db", ""); err == nil {
		t.Fatal("expected error on canceled context")
	}
}
