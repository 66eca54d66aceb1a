package dns

import (
	"context"
	"errors"
	"net"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one reverse lookup. PTR is empty when no record was
// found or the lookup failed.
type Result struct {
	IP  string
	PTR string
}

// PTRResolver turns lookup failures into "no result" so bulk operations keep
// going. Lookups are sequential unless concurrency is greater than one.
type PTRResolver struct {
	resolver    Resolver
	concurrency int
	logger      *logrus.Entry
}

// NewPTRResolver wraps r. concurrency <= 1 keeps lookups strictly sequential.
func NewPTRResolver(r Resolver, concurrency int, logger *logrus.Entry) *PTRResolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PTRResolver{
		resolver:    r,
		concurrency: concurrency,
		logger:      logger.WithField("component", "ptr-resolver"),
	}
}

// Resolve returns the first hostname for ip without the trailing root dot.
// The bool is false when no record exists or the lookup failed for any reason.
func (p *PTRResolver) Resolve(ctx context.Context, ip string) (string, bool) {
	names, err := p.resolver.LookupAddr(ctx, ip)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			p.logger.WithField("ip", ip).Debug("no PTR record")
		} else {
			p.logger.WithField("ip", ip).WithError(err).Debug("PTR lookup failed")
		}
		return "", false
	}

	for _, name := range names {
		if host := TrimRoot(name); host != "" {
			return host, true
		}
	}
	return "", false
}

// ResolveAll resolves every address and returns the results in input order.
// Addresses not reached before ctx is done are reported without a PTR.
func (p *PTRResolver) ResolveAll(ctx context.Context, ips []string) []Result {
	results := make([]Result, len(ips))
	for i, ip := range ips {
		results[i].IP = ip
	}

	if p.concurrency == 1 {
		for i, ip := range ips {
			if ctx.Err() != nil {
				break
			}
			results[i].PTR, _ = p.Resolve(ctx, ip)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, ip := range ips {
		if ctx.Err() != nil {
			break
		}
		i, ip := i, ip
		g.Go(func() error {
			results[i].PTR, _ = p.Resolve(ctx, ip)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
