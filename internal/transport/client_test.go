package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
)

func TestClientFetch(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{name: "ok", statusCode: http.StatusOK, body: `{"tag_name":"v22.0"}`},
		{name: "not_found", statusCode: http.StatusNotFound, body: "Not Found"},
		{name: "server_error", statusCode: http.StatusInternalServerError, body: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Errorf("failed to write response: %v", err)
				}
			}))
			defer server.Close()

			client, err := New(Options{})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			resp, err := client.Fetch(context.Background(), server.URL)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.statusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.body {
				t.Errorf("Body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestClientFetch_Headers(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantUA   string
		wantAuth string
	}{
		{name: "defaults", opts: Options{}, wantUA: DefaultUserAgent},
		{name: "custom agent", opts: Options{UserAgent: "protoc-prebuilt/1.2.3"}, wantUA: "protoc-prebuilt/1.2.3"},
		{name: "token", opts: Options{Token: "ghp_secret"}, wantUA: DefaultUserAgent, wantAuth: "Bearer ghp_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA, gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				gotAuth = r.Header.Get("Authorization")
			}))
			defer server.Close()

			client, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			resp, err := client.Fetch(context.Background(), server.URL)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			resp.Body.Close()

			if gotUA != tt.wantUA {
				t.Errorf("User-Agent = %q, want %q", gotUA, tt.wantUA)
			}
			if gotAuth != tt.wantAuth {
				t.Errorf("Authorization = %q, want %q", gotAuth, tt.wantAuth)
			}
		})
	}
}

func TestClientFetch_FollowsRedirect(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("token leaked to redirect target on another host")
		}
		if _, err := w.Write([]byte("archive")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer storage.Close()

	// Different host spelling so net/http treats it as a cross-host redirect.
	target := strings.Replace(storage.URL, "127.0.0.1", "localhost", 1)

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target+"/asset.zip", http.StatusFound)
	}))
	defer origin.Close()

	client, err := New(Options{Token: "ghp_secret"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	resp, err := client.Fetch(context.Background(), origin.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "archive" {
		t.Errorf("Body = %q, want archive", body)
	}
}

func TestClientFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Fetch(context.Background(), url)
	if !protoc.ErrTransport.Has(err) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestClientFetch_InvalidURL(t *testing.T) {
	client, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Fetch(context.Background(), "://bad")
	if !protoc.ErrTransport.Has(err) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestNew_InvalidProxy(t *testing.T) {
	_, err := New(Options{UseProxy: true, Proxy: "http://[::1"})
	if !protoc.ErrTransport.Has(err) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestClientFetch_Proxy(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("direct")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer target.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("proxied")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer proxy.Close()

	proxyHostPort := strings.TrimPrefix(proxy.URL, "http://")

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"proxied", Options{UseProxy: true, Proxy: proxy.URL}, "proxied"},
		{"bare host:port", Options{UseProxy: true, Proxy: proxyHostPort}, "proxied"},
		{"disabled", Options{UseProxy: false, Proxy: proxy.URL}, "direct"},
		{"no_proxy all", Options{UseProxy: true, Proxy: proxy.URL, NoProxy: "*"}, "direct"},
		{"no_proxy host", Options{UseProxy: true, Proxy: proxy.URL, NoProxy: "example.org, 127.0.0.1"}, "direct"},
		{"no_proxy other host", Options{UseProxy: true, Proxy: proxy.URL, NoProxy: "example.org"}, "proxied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			resp, err := client.Fetch(context.Background(), target.URL)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.want {
				t.Errorf("Body = %q, want %q", body, tt.want)
			}
		})
	}
}
