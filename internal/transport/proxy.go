package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// noProxyAll disables proxying for every host.
const noProxyAll = "*"

// proxySelector picks the proxy for a request.
type proxySelector struct {
	proxyURL *url.URL
	// entries are lowercased no_proxy hosts; a leading dot matches the
	// domain itself and every subdomain.
	entries []string
	all     bool
}

func newProxySelector(proxy, noProxy string) (*proxySelector, error) {
	proxyURL, err := ParseProxy(proxy)
	if err != nil {
		return nil, err
	}

	s := &proxySelector{proxyURL: proxyURL}
	if strings.TrimSpace(noProxy) == noProxyAll {
		s.all = true
		return s, nil
	}

	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			s.entries = append(s.entries, entry)
		}
	}

	return s, nil
}

// ParseProxy parses a proxy value from the environment. A value without a
// scheme, such as "proxy.local:3128", is an http proxy.
func ParseProxy(value string) (*url.URL, error) {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "://") {
		value = "http://" + value
	}

	u, err := url.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", value, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing host", value)
	}

	return u, nil
}

// proxy implements http.Transport.Proxy. The decision is made on the host of
// the first request in a redirect chain, so a release download redirected to
// a storage host follows the same route as the request that started it.
func (s *proxySelector) proxy(req *http.Request) (*url.URL, error) {
	origin := req
	for origin.Response != nil && origin.Response.Request != nil {
		origin = origin.Response.Request
	}

	if s.Excluded(origin.URL.Hostname()) {
		return nil, nil
	}
	return s.proxyURL, nil
}

// Excluded reports whether host bypasses the proxy.
func (s *proxySelector) Excluded(host string) bool {
	if s.all {
		return true
	}

	host = strings.ToLower(host)
	for _, entry := range s.entries {
		if domain, ok := strings.CutPrefix(entry, "."); ok {
			if host == domain || strings.HasSuffix(host, entry) {
				return true
			}
			continue
		}
		if host == entry {
			return true
		}
	}

	return false
}
