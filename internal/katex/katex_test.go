package katex

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRender(t *testing.T) {
	var gotReq renderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(renderResponse{HTML: "<span class=\"katex\">x</span>"})
	}))
	defer srv.Close()

	html, err := NewClient(srv.URL).Render("x^2", true)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html != "<span class=\"katex\">x</span>" {
		t.Errorf("html = %q", html)
	}
	if gotReq.Expr != "x^2" || !gotReq.DisplayMode {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestRenderServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(renderResponse{Error: "ParseError: \\oops"})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Render("\\oops", false); err == nil {
		t.Fatal("expected error from service-reported failure")
	}
}

func TestRenderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Render("x", false); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestRenderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if _, err := NewClient(srv.URL).Render("x", false); err == nil {
		t.Fatal("expected error for unreachable service")
	}
}
