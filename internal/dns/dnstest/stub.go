// Package dnstest provides a scriptable Resolver for tests.
package dnstest

import (
	"context"
	"net"
	"sync"
)

// StubResolver answers from a fixed table. Addresses missing from Names get a
// not-found error; addresses in Errors get that error.
type StubResolver struct {
	mu     sync.Mutex
	Names  map[string][]string
	Errors map[string]error
	calls  []string
}

// NewStubResolver creates an empty StubResolver
func NewStubResolver() *StubResolver {
	return &StubResolver{
		Names:  map[string][]string{},
		Errors: map[string]error{},
	}
}

// Set maps ip to names
func (s *StubResolver) Set(ip string, names ...string) *StubResolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Names[ip] = names
	return s
}

// Fail makes lookups of ip return err
func (s *StubResolver) Fail(ip string, err error) *StubResolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors[ip] = err
	return s
}

// LookupAddr implements dns.Resolver
func (s *StubResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, addr)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := s.Errors[addr]; ok {
		return nil, err
	}
	if names, ok := s.Names[addr]; ok {
		return names, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: addr, IsNotFound: true}
}

// Calls returns the addresses looked up so far, in call order
func (s *StubResolver) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
