package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the transport proxy function for the given proxy URL.
// With no proxy configured it falls back to the standard environment
// variables (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
func NewProxyFunc(proxyURL string) func(*http.Request) (*url.URL, error) {
	if proxyURL == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		return url.Parse(proxyURL)
	}
}
