package web

import (
	"net"
	"net/http"
)

// ClientSession resolves the caller's session id: the X-Session-ID header
// when present, otherwise the remote host. The port is stripped so one
// anonymous client keeps one session across connections; IPv6 addresses
// must not be split on ':'.
func ClientSession(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
