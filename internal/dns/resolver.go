package dns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// DefaultTimeout bounds a single PTR lookup
const DefaultTimeout = 4 * time.Second

// Resolver abstracts reverse lookups so they can be stubbed in tests.
// Implementations must be safe for concurrent use.
type Resolver interface {
	// LookupAddr returns the names mapped to addr, like net.Resolver.LookupAddr
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// NetResolver resolves through Go's net.Resolver
type NetResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewNetResolver returns a resolver using the system configuration, or the given
// server when it is not empty. The server can be an IP, hostname, or host:port;
// port 53 is assumed when absent.
func NewNetResolver(server string, timeout time.Duration) (*NetResolver, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if server == "" {
		return &NetResolver{resolver: net.DefaultResolver, timeout: timeout}, nil
	}

	addr, err := normalizeServer(server)
	if err != nil {
		return nil, err
	}
	return &NetResolver{
		resolver: &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				d := net.Dialer{Timeout: timeout}
				return d.DialContext(ctx, network, addr)
			},
		},
		timeout: timeout,
	}, nil
}

// LookupAddr implements Resolver
func (r *NetResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.resolver.LookupAddr(ctx, addr)
}

// normalizeServer ensures a server address has a port, defaulting to 53
func normalizeServer(server string) (string, error) {
	host, port, err := net.SplitHostPort(server)
	if err != nil {
		host = server
		port = "53"
	}
	if port == "" {
		port = "53"
	}
	if strings.TrimSpace(host) == "" {
		return "", fmt.Errorf("invalid DNS server address %q: empty hostname", server)
	}
	return net.JoinHostPort(host, port), nil
}
