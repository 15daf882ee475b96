package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

// docker bridge gateways, seen as the client when running in compose
var localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)

// IPIsLocal reports loopback and docker bridge gateway addresses, with or without a port.
func IPIsLocal(ipAddr string) bool {
	host := ipAddr
	if h, _, err := net.SplitHostPort(ipAddr); err == nil {
		host = h
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	return localDockerIpRegex.MatchString(host)
}

// ReadUserIP returns the caller's IP without port: the first X-Forwarded-For
// hop, X-Real-Ip, or the connection's remote address, in that order.
// Local addresses are all reported as "localhost".
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := ""
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		ipAddr = strings.TrimSpace(first)
	}
	if ipAddr == "" {
		ipAddr = strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	host := ipAddr
	if h, _, err := net.SplitHostPort(ipAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return ip.String(), nil
}
