package signing

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/hunt/internal/domain"
)

func TestRegistry_UnknownHandler(t *testing.T) {
	_, err := NewRegistry().Wrap("gcp", Config{}, nil)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRegistry_CustomHandler(t *testing.T) {
	r := NewRegistry()
	r.Register("static", func(cfg Config, next http.RoundTripper) (http.RoundTripper, error) {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.Header.Set("X-Api-Key", cfg.Key)
			return next.RoundTrip(req)
		}), nil
	})

	if names := r.Names(); len(names) != 2 || names[0] != "aws" || names[1] != "static" {
		t.Errorf("Names() = %v", names)
	}

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Api-Key")
	}))
	defer srv.Close()

	rt, err := r.Wrap("static", Config{Key: "k1"}, nil)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if got != "k1" {
		t.Errorf("X-Api-Key = %q", got)
	}
}

func TestAWS_RequiresCredentials(t *testing.T) {
	_, err := NewRegistry().Wrap(AWS, Config{Key: "only-key"}, nil)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestAWS_SignsRequestAndKeepsBody(t *testing.T) {
	var (
		auth, date, body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		date = r.Header.Get("X-Amz-Date")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer srv.Close()

	rt, err := NewAWS(Config{Key: "AKIDEXAMPLE", Secret: "secret", Region: "eu-west-1"}, http.DefaultTransport)
	if err != nil {
		t.Fatalf("NewAWS: %v", err)
	}
	rt.(*AWSTransport).now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/blog/_search", strings.NewReader(`{"query":{}}`))
	resp, err := (&http.Client{Transport: rt}).Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	_ = resp.Body.Close()

	if !strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20240501/eu-west-1/es/aws4_request") {
		t.Errorf("Authorization = %q", auth)
	}
	if !strings.Contains(auth, "SignedHeaders=") || !strings.Contains(auth, "Signature=") {
		t.Errorf("Authorization = %q", auth)
	}
	if date != "20240501T120000Z" {
		t.Errorf("X-Amz-Date = %q", date)
	}
	if body != `{"query":{}}` {
		t.Errorf("body = %q", body)
	}
}

func TestAWS_DefaultsRegionAndService(t *testing.T) {
	var auth string
	rt, err := NewAWS(Config{Key: "AKID", Secret: "s", Token: "session"}, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		auth = r.Header.Get("Authorization")
		if r.Header.Get("X-Amz-Security-Token") != "session" {
			t.Errorf("missing session token header")
		}
		return &http.Response{StatusCode: 200, Body: http.NoBody, Request: r}, nil
	}))
	if err != nil {
		t.Fatalf("NewAWS: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, "https://search.example.com/", http.NoBody)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if !strings.Contains(auth, "/us-east-1/es/aws4_request") {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestSigningHost(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://search.example.com:443/", "search.example.com"},
		{"http://search.example.com:80/", "search.example.com"},
		{"http://localhost:9200/", "localhost:9200"},
		{"https://search.example.com/", "search.example.com"},
	}
	for _, tc := range tests {
		req, _ := http.NewRequest(http.MethodGet, tc.url, http.NoBody)
		if got := signingHost(req); got != tc.expected {
			t.Errorf("signingHost(%q) = %q, want %q", tc.url, got, tc.expected)
		}
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
