package reverse

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/sirupsen/logrus"

	"go_rdns/internal/cidr"
	"go_rdns/internal/dns"
	"go_rdns/internal/model"
	"go_rdns/internal/records"
)

var (
	// ErrBlockTooLarge is returned for blocks wider than the configured limit
	ErrBlockTooLarge = errors.New("CIDR block too large")
	// ErrInvalidRecord is returned for manual records whose ip is not IPv4
	ErrInvalidRecord = errors.New("invalid record")
)

// IsInvalidInput reports whether err was caused by bad caller input
func IsInvalidInput(err error) bool {
	return errors.Is(err, cidr.ErrInvalidCIDR) ||
		errors.Is(err, cidr.ErrInvalidReverseZone) ||
		errors.Is(err, ErrBlockTooLarge) ||
		errors.Is(err, ErrInvalidRecord)
}

// Pair is one ip/ptr association. PTR is nil when no hostname is known.
type Pair struct {
	IP  string  `json:"ip"`
	PTR *string `json:"ptr"`
}

// Summary counts what an import did
type Summary struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Config holds the dependencies of the reverse service
type Config struct {
	Store     *records.Store
	Resolver  *dns.PTRResolver
	Logger    *logrus.Entry
	TTL       int
	MinPrefix int // widest accepted prefix length; 0 accepts any block
}

// Service resolves CIDR blocks and writes the resulting PTR records
type Service struct {
	store     *records.Store
	resolver  *dns.PTRResolver
	logger    *logrus.Entry
	ttl       int
	minPrefix int
}

// NewService creates a new reverse service
func NewService(cfg *Config) *Service {
	return &Service{
		store:     cfg.Store,
		resolver:  cfg.Resolver,
		logger:    cfg.Logger.WithField("component", "reverse-service"),
		ttl:       cfg.TTL,
		minPrefix: cfg.MinPrefix,
	}
}

// Expand validates block and lists its addresses
func (s *Service) Expand(block string) ([]string, error) {
	p, err := cidr.Parse(block)
	if err != nil {
		return nil, err
	}
	if p.Bits() < s.minPrefix {
		return nil, fmt.Errorf("%w: /%d exceeds the /%d limit", ErrBlockTooLarge, p.Bits(), s.minPrefix)
	}
	return cidr.Hosts(p), nil
}

// ImportBlock picks the block an import works on: block when given, otherwise
// the /24 named by zone.
func (s *Service) ImportBlock(block, zone string) (string, []string, error) {
	if strings.TrimSpace(block) == "" {
		derived, err := cidr.FromReverseZone(zone)
		if err != nil {
			return "", nil, err
		}
		block = derived
	}

	ips, err := s.Expand(block)
	if err != nil {
		return "", nil, err
	}
	return block, ips, nil
}

// Resolve looks up every address of block without writing anything
func (s *Service) Resolve(ctx context.Context, block string) ([]Pair, error) {
	ips, err := s.Expand(block)
	if err != nil {
		return nil, err
	}

	results := s.resolver.ResolveAll(ctx, ips)
	pairs := make([]Pair, len(results))
	for i, r := range results {
		pairs[i].IP = r.IP
		if r.PTR != "" {
			ptr := r.PTR
			pairs[i].PTR = &ptr
		}
	}

	s.logger.WithFields(logrus.Fields{
		"cidr":     block,
		"total":    len(pairs),
		"resolved": countResolved(results),
	}).Info("reverse lookup finished")

	return pairs, nil
}

// Write inserts one PTR record per pair that carries a hostname, all in one
// transaction. Pairs without a hostname are skipped. Any failure rolls back
// every insert.
func (s *Service) Write(ctx context.Context, domainID int64, pairs []Pair) (int, error) {
	for _, p := range pairs {
		if !hasPTR(p) {
			continue
		}
		if addr, err := netip.ParseAddr(strings.TrimSpace(p.IP)); err != nil || !addr.Is4() {
			return 0, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidRecord, p.IP)
		}
	}

	written := 0
	err := s.store.Transaction(ctx, func(tx *records.Store) error {
		written = 0
		for _, p := range pairs {
			if !hasPTR(p) {
				continue
			}
			rec := model.NewPTRRecord(domainID, dns.IPToReverse(p.IP), *p.PTR, s.ttl)
			if err := tx.Insert(ctx, rec); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		s.logger.WithField("domain_id", domainID).WithError(err).Error("manual write rolled back")
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"domain_id": domainID,
		"written":   written,
		"skipped":   len(pairs) - written,
	}).Info("manual write committed")

	return written, nil
}

// Import resolves ips and upserts a PTR record for every hostname found. Each
// address is written in its own savepoint: a failing address is logged,
// counted and skipped without affecting the rest of the batch.
func (s *Service) Import(ctx context.Context, domainID int64, ips []string) (Summary, error) {
	results := s.resolver.ResolveAll(ctx, ips)

	var sum Summary
	err := s.store.Transaction(ctx, func(tx *records.Store) error {
		sum = Summary{Total: len(results)}
		for _, r := range results {
			if r.PTR == "" {
				sum.Skipped++
				continue
			}
			sum.Resolved++

			rec := model.NewPTRRecord(domainID, dns.IPToReverse(r.IP), r.PTR, s.ttl)
			var outcome records.Outcome
			err := tx.Transaction(ctx, func(sp *records.Store) error {
				var err error
				outcome, err = sp.Upsert(ctx, rec)
				return err
			})
			if err != nil {
				sum.Failed++
				s.logger.WithFields(logrus.Fields{
					"ip":   r.IP,
					"name": rec.Name,
				}).WithError(err).Warn("skipping address")
				continue
			}

			switch outcome {
			case records.Inserted:
				sum.Inserted++
			case records.Updated:
				sum.Updated++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WithField("domain_id", domainID).WithError(err).Error("import rolled back")
		return Summary{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"domain_id": domainID,
		"total":     sum.Total,
		"resolved":  sum.Resolved,
		"inserted":  sum.Inserted,
		"updated":   sum.Updated,
		"skipped":   sum.Skipped,
		"failed":    sum.Failed,
	}).Info("import committed")

	return sum, nil
}

func hasPTR(p Pair) bool {
	return p.PTR != nil && strings.TrimSpace(*p.PTR) != ""
}

func countResolved(results []dns.Result) int {
	n := 0
	for _, r := range results {
		if r.PTR != "" {
			n++
		}
	}
	return n
}
