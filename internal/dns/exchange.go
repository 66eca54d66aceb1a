package dns

import (
	"context"
	"fmt"
	"net"
	"time"

	mdns "github.com/miekg/dns"
)

// ExchangeResolver sends PTR queries straight to one server with
// github.com/miekg/dns, bypassing the system stub resolver. Truncated UDP
// answers are retried over TCP.
type ExchangeResolver struct {
	udp    *mdns.Client
	tcp    *mdns.Client
	server string
}

// NewExchangeResolver creates a resolver that queries server directly
func NewExchangeResolver(server string, timeout time.Duration) (*ExchangeResolver, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	addr, err := normalizeServer(server)
	if err != nil {
		return nil, err
	}
	return &ExchangeResolver{
		udp:    &mdns.Client{Net: "udp", Timeout: timeout},
		tcp:    &mdns.Client{Net: "tcp", Timeout: timeout},
		server: addr,
	}, nil
}

// LookupAddr implements Resolver. A NXDOMAIN or empty answer is reported as a
// *net.DNSError with IsNotFound set, like net.Resolver does.
func (r *ExchangeResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	qname, err := mdns.ReverseAddr(addr)
	if err != nil {
		return nil, err
	}

	q := new(mdns.Msg)
	q.SetQuestion(qname, mdns.TypePTR)
	q.RecursionDesired = true

	resp, _, err := r.udp.ExchangeContext(ctx, q, r.server)
	if err != nil {
		return nil, err
	}
	if resp.Truncated {
		resp, _, err = r.tcp.ExchangeContext(ctx, q, r.server)
		if err != nil {
			return nil, err
		}
	}

	switch resp.Rcode {
	case mdns.RcodeSuccess:
	case mdns.RcodeNameError:
		return nil, &net.DNSError{Err: "no such host", Name: addr, Server: r.server, IsNotFound: true}
	default:
		return nil, fmt.Errorf("PTR query for %s returned %s", addr, mdns.RcodeToString[resp.Rcode])
	}

	var names []string
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*mdns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}
	if len(names) == 0 {
		return nil, &net.DNSError{Err: "no such host", Name: addr, Server: r.server, IsNotFound: true}
	}
	return names, nil
}
