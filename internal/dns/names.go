package dns

import (
	"fmt"
	"net/netip"
	"strings"
)

// ReverseSuffix is appended to reversed IPv4 octets
const ReverseSuffix = ".in-addr.arpa"

// IPToReverse converts a dotted-quad IPv4 address to its reverse lookup name
//
// Rules:
// - ip = "192.168.0.1" -> "1.0.168.192.in-addr.arpa"
// - ip = "10.0.0.254"  -> "254.0.0.10.in-addr.arpa"
//
// The octets are not validated; callers pass addresses produced by the CIDR
// expander.
func IPToReverse(ip string) string {
	octets := strings.Split(strings.TrimSpace(ip), ".")
	for i, j := 0, len(octets)-1; i < j; i, j = i+1, j-1 {
		octets[i], octets[j] = octets[j], octets[i]
	}
	return strings.Join(octets, ".") + ReverseSuffix
}

// ReverseToIP converts a full IPv4 reverse lookup name back to its address
//
// Rules:
// - name = "1.0.168.192.in-addr.arpa"  -> "192.168.0.1"
// - name = "1.0.168.192.in-addr.arpa." -> "192.168.0.1" (trailing dot removed)
func ReverseToIP(name string) (string, error) {
	n := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if !strings.HasSuffix(n, ReverseSuffix) {
		return "", fmt.Errorf("%q is not an in-addr.arpa name", name)
	}
	octets := strings.Split(strings.TrimSuffix(n, ReverseSuffix), ".")
	if len(octets) != 4 {
		return "", fmt.Errorf("%q does not name a single IPv4 address", name)
	}
	ip := octets[3] + "." + octets[2] + "." + octets[1] + "." + octets[0]
	if _, err := netip.ParseAddr(ip); err != nil {
		return "", fmt.Errorf("%q does not name a valid IPv4 address: %w", name, err)
	}
	return ip, nil
}

// TrimRoot removes the trailing root dot from a fully qualified hostname
func TrimRoot(host string) string {
	return strings.TrimSuffix(strings.TrimSpace(host), ".")
}
