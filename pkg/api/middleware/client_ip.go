package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ParseTrustedProxies parses CIDR ranges or bare IP addresses. Invalid
// entries are reported together with the networks that did parse.
func ParseTrustedProxies(entries []string) ([]*net.IPNet, error) {
	var networks []*net.IPNet
	var bad []string

	for _, cidr := range entries {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if !strings.Contains(cidr, "/") {
			ip := net.ParseIP(cidr)
			if ip == nil {
				bad = append(bad, cidr)
				continue
			}
			if ip.To4() != nil {
				cidr += "/32"
			} else {
				cidr += "/128"
			}
		}
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			bad = append(bad, cidr)
			continue
		}
		networks = append(networks, network)
	}

	if len(bad) > 0 {
		return networks, fmt.Errorf("invalid trusted proxy entries: %s", strings.Join(bad, ", "))
	}
	return networks, nil
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func inNetworks(host string, networks []*net.IPNet) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, network := range networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns a ClientIDFunc resolving the client address. Forwarding
// headers are only believed when the direct peer is a trusted proxy; with
// no trusted networks the peer address is always used.
func ClientIP(trusted []*net.IPNet) ClientIDFunc {
	return func(r *http.Request) string {
		peer := remoteHost(r.RemoteAddr)
		if len(trusted) == 0 || !inNetworks(peer, trusted) {
			return peer
		}

		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
		return peer
	}
}
