package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFetch_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		_, _ = io.WriteString(w, `[{"id":1}]`)
	}))
	defer srv.Close()

	b, err := New(srv.URL, time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(b) != `[{"id":1}]` {
		t.Fatalf("body = %s", b)
	}
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"message":"could not read document"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Fetch(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError || se.Message != "could not read document" {
		t.Fatalf("StatusError = %+v", se)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url, time.Second).Fetch(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestPush_SendsDocumentWithRequestHeaders(t *testing.T) {
	var (
		gotBody []byte
		gotID   string
		gotAt   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		gotBody, _ = io.ReadAll(r.Body)
		gotID = r.Header.Get("X-Request-Id")
		gotAt = r.Header.Get("X-Request-At")
		_, _ = io.WriteString(w, `{"success":true,"message":"saved"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.now = func() time.Time { return time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC) }

	if err := c.Push(context.Background(), []byte(`[]`)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if string(gotBody) != `[]` {
		t.Fatalf("body = %s", gotBody)
	}
	if _, err := uuid.Parse(gotID); err != nil {
		t.Fatalf("X-Request-Id %q is not a uuid", gotID)
	}
	if gotAt != "2025-03-10T03:00:00Z" {
		t.Fatalf("X-Request-At = %q", gotAt)
	}
}

func TestPush_Rejected(t *testing.T) {
	cases := map[string]struct {
		code int
		body string
	}{
		"bad request": {http.StatusBadRequest, `{"success":false,"message":"body must be a JSON array"}`},
		"not success": {http.StatusOK, `{"success":false,"message":"nope"}`},
		"html":        {http.StatusOK, `<html></html>`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			if err := New(srv.URL, time.Second).Push(context.Background(), []byte(`[]`)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	if _, err := New(srv.URL, 50*time.Millisecond).Fetch(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}
