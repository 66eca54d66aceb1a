// Package cidr validates IPv4 CIDR blocks and expands them into their addresses.
package cidr

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// ReverseSuffix is the IPv4 reverse lookup domain
const ReverseSuffix = ".in-addr.arpa"

var (
	// ErrInvalidCIDR is returned for blocks that are not well-formed IPv4 CIDRs
	ErrInvalidCIDR = errors.New("invalid CIDR block")
	// ErrInvalidReverseZone is returned when a reverse zone cannot be turned into a /24
	ErrInvalidReverseZone = errors.New("invalid or malformed reverse zone")
)

// Parse validates an IPv4 CIDR block. Host bits are allowed and masked off, so
// "192.168.0.5/24" yields 192.168.0.0/24.
func Parse(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Prefix{}, fmt.Errorf("%w: empty", ErrInvalidCIDR)
	}

	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, s)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("%w: %q is not IPv4", ErrInvalidCIDR, s)
	}

	return p.Masked(), nil
}

// Size returns the number of addresses in p, network and broadcast included
func Size(p netip.Prefix) uint64 {
	return uint64(1) << (32 - p.Bits())
}

// Hosts lists every address of p in ascending order, network and broadcast
// included.
func Hosts(p netip.Prefix) []string {
	n := Size(p)
	out := make([]string, 0, n)
	addr := p.Addr()
	for i := uint64(0); i < n; i++ {
		out = append(out, addr.String())
		addr = addr.Next()
	}
	return out
}

// Expand validates s and lists every address in the block
func Expand(s string) ([]string, error) {
	p, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return Hosts(p), nil
}

// FromReverseZone turns a reverse zone such as "0.168.192.in-addr.arpa" into the
// /24 block it names ("192.168.0.0/24"). The octet groups before the suffix are
// reversed and ".0/24" is appended, so only three-label zones yield a valid block.
func FromReverseZone(zone string) (string, error) {
	z := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(zone), "."))
	if z == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidReverseZone)
	}
	z = strings.TrimSuffix(z, ReverseSuffix)

	labels := strings.Split(z, ".")
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	block := strings.Join(labels, ".") + ".0/24"

	if _, err := Parse(block); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidReverseZone, zone)
	}
	return block, nil
}
