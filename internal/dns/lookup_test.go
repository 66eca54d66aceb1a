package dns_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"go_rdns/internal/dns"
	"go_rdns/internal/dns/dnstest"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestPTRResolver_Resolve(t *testing.T) {
	stub := dnstest.NewStubResolver().
		Set("10.0.0.1", "host-1.example.net.", "alias.example.net.").
		Set("10.0.0.2", "").
		Fail("10.0.0.3", errors.New("i/o timeout"))
	p := dns.NewPTRResolver(stub, 1, testLogger())

	tests := []struct {
		ip     string
		want   string
		wantOK bool
	}{
		{"10.0.0.1", "host-1.example.net", true},
		{"10.0.0.2", "", false},
		{"10.0.0.3", "", false},
		{"10.0.0.4", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			got, ok := p.Resolve(context.Background(), tt.ip)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%s) = (%q, %v); want (%q, %v)", tt.ip, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPTRResolver_ResolveAllSequential(t *testing.T) {
	stub := dnstest.NewStubResolver().Set("10.0.0.2", "two.example.net.")
	p := dns.NewPTRResolver(stub, 0, testLogger())

	ips := []string{"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3"}
	results := p.ResolveAll(context.Background(), ips)

	if len(results) != len(ips) {
		t.Fatalf("Expected %d results, got %d", len(ips), len(results))
	}
	for i, r := range results {
		if r.IP != ips[i] {
			t.Errorf("result %d IP = %s; want %s", i, r.IP, ips[i])
		}
	}
	if results[2].PTR != "two.example.net" {
		t.Errorf("Expected PTR for 10.0.0.2, got %q", results[2].PTR)
	}
	if results[0].PTR != "" || results[1].PTR != "" || results[3].PTR != "" {
		t.Errorf("Expected empty PTRs for unmapped addresses, got %+v", results)
	}

	calls := stub.Calls()
	for i, c := range calls {
		if c != ips[i] {
			t.Errorf("sequential lookup %d went to %s; want %s", i, c, ips[i])
		}
	}
}

func TestPTRResolver_ResolveAllConcurrent(t *testing.T) {
	stub := dnstest.NewStubResolver()
	var ips []string
	for i := 0; i < 64; i++ {
		ip := fmt.Sprintf("10.0.1.%d", i)
		ips = append(ips, ip)
		if i%2 == 0 {
			stub.Set(ip, fmt.Sprintf("h%d.example.net.", i))
		}
	}
	p := dns.NewPTRResolver(stub, 8, testLogger())

	results := p.ResolveAll(context.Background(), ips)

	if len(stub.Calls()) != len(ips) {
		t.Errorf("Expected %d lookups, got %d", len(ips), len(stub.Calls()))
	}
	for i, r := range results {
		if r.IP != ips[i] {
			t.Fatalf("result %d IP = %s; want %s (order not preserved)", i, r.IP, ips[i])
		}
		want := ""
		if i%2 == 0 {
			want = fmt.Sprintf("h%d.example.net", i)
		}
		if r.PTR != want {
			t.Errorf("result %d PTR = %q; want %q", i, r.PTR, want)
		}
	}
}

func TestPTRResolver_ResolveAllCancelled(t *testing.T) {
	stub := dnstest.NewStubResolver().Set("10.0.0.1", "one.example.net.")
	p := dns.NewPTRResolver(stub, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.ResolveAll(ctx, []string{"10.0.0.1", "10.0.0.2"})
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.PTR != "" {
			t.Errorf("Expected no PTR after cancellation, got %q", r.PTR)
		}
	}
	if len(stub.Calls()) != 0 {
		t.Errorf("Expected no lookups after cancellation, got %d", len(stub.Calls()))
	}
}

type mapCache struct {
	entries map[string]string
	sets    int
}

func (m *mapCache) Get(_ context.Context, ip string) (string, bool) {
	h, ok := m.entries[ip]
	return h, ok
}

func (m *mapCache) Set(_ context.Context, ip, host string, _ time.Duration) {
	m.entries[ip] = host
	m.sets++
}

func TestCachedResolver(t *testing.T) {
	stub := dnstest.NewStubResolver().Set("10.0.0.1", "one.example.net.")
	cache := &mapCache{entries: map[string]string{}}
	r := dns.NewCachedResolver(stub, cache, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		names, err := r.LookupAddr(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("LookupAddr failed: %v", err)
		}
		if len(names) != 1 || names[0] != "one.example.net." {
			t.Errorf("Unexpected names %v", names)
		}
	}
	if len(stub.Calls()) != 1 {
		t.Errorf("Expected one upstream lookup, got %d", len(stub.Calls()))
	}

	// Misses are not cached
	for i := 0; i < 2; i++ {
		if _, err := r.LookupAddr(ctx, "10.0.0.2"); err == nil {
			t.Error("Expected not-found error")
		}
	}
	if cache.sets != 1 {
		t.Errorf("Expected one cache write, got %d", cache.sets)
	}
	if len(stub.Calls()) != 3 {
		t.Errorf("Expected misses to reach the resolver, got %d calls", len(stub.Calls()))
	}
}
