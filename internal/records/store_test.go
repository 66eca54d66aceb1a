package records

import (
	"context"
	"errors"
	"testing"

	"go_rdns/internal/db/dbtest"
	"go_rdns/internal/model"
)

func TestStore_Insert(t *testing.T) {
	db := dbtest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	rec := model.NewPTRRecord(7, "1.0.0.10.in-addr.arpa", "one.example.net", 3600)
	if err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if rec.ID == 0 {
		t.Error("Expected ID to be set after insert")
	}

	rows := dbtest.Records(t, db)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.Name != "1.0.0.10.in-addr.arpa" || got.Content != "one.example.net" ||
		got.Type != "PTR" || got.TTL != 3600 || got.DomainID != 7 || !got.Auth {
		t.Errorf("Unexpected row %+v", got)
	}

	// Insert is unconditional
	if err := s.Insert(ctx, model.NewPTRRecord(7, "1.0.0.10.in-addr.arpa", "dup.example.net", 3600)); err != nil {
		t.Fatalf("second Insert() failed: %v", err)
	}
	if n, _ := s.CountPTR(ctx, 7); n != 2 {
		t.Errorf("Expected 2 rows after duplicate insert, got %d", n)
	}
}

func TestStore_Upsert(t *testing.T) {
	db := dbtest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	outcome, err := s.Upsert(ctx, model.NewPTRRecord(3, "2.0.0.10.in-addr.arpa", "old.example.net", 300))
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if outcome != Inserted {
		t.Errorf("Expected Inserted, got %s", outcome)
	}

	// Flip auth off behind the store's back to prove Upsert restores it
	if err := db.Model(&model.Record{}).Where("1 = 1").Update("auth", false).Error; err != nil {
		t.Fatalf("reset auth: %v", err)
	}

	outcome, err = s.Upsert(ctx, model.NewPTRRecord(9, "2.0.0.10.in-addr.arpa", "new.example.net", 600))
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if outcome != Updated {
		t.Errorf("Expected Updated, got %s", outcome)
	}

	rows := dbtest.Records(t, db)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.Content != "new.example.net" || got.TTL != 600 || !got.Auth {
		t.Errorf("Expected content/ttl/auth updated, got %+v", got)
	}
	if got.DomainID != 3 {
		t.Errorf("Expected domain_id to stay 3, got %d", got.DomainID)
	}
}

func TestStore_UpsertIgnoresOtherTypes(t *testing.T) {
	db := dbtest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	other := &model.Record{DomainID: 1, Name: "3.0.0.10.in-addr.arpa", Type: "TXT", Content: "note", TTL: 60, Auth: true}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	outcome, err := s.Upsert(ctx, model.NewPTRRecord(1, "3.0.0.10.in-addr.arpa", "three.example.net", 60))
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if outcome != Inserted {
		t.Errorf("Expected Inserted next to the TXT row, got %s", outcome)
	}
	if rows := dbtest.Records(t, db); len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}
}

func TestStore_TransactionRollback(t *testing.T) {
	db := dbtest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Insert(ctx, model.NewPTRRecord(1, "4.0.0.10.in-addr.arpa", "four.example.net", 60)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if rows := dbtest.Records(t, db); len(rows) != 0 {
		t.Errorf("Expected rollback to leave no rows, got %d", len(rows))
	}
}

func TestStore_NestedTransactionIsolation(t *testing.T) {
	db := dbtest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Insert(ctx, model.NewPTRRecord(1, "5.0.0.10.in-addr.arpa", "five.example.net", 60)); err != nil {
			return err
		}
		inner := tx.Transaction(ctx, func(sp *Store) error {
			if err := sp.Insert(ctx, model.NewPTRRecord(1, "6.0.0.10.in-addr.arpa", "six.example.net", 60)); err != nil {
				return err
			}
			return errors.New("discard six")
		})
		if inner == nil {
			t.Error("Expected inner transaction error")
		}
		return tx.Insert(ctx, model.NewPTRRecord(1, "7.0.0.10.in-addr.arpa", "seven.example.net", 60))
	})
	if err != nil {
		t.Fatalf("Transaction() failed: %v", err)
	}

	rows := dbtest.Records(t, db)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Name != "5.0.0.10.in-addr.arpa" || rows[1].Name != "7.0.0.10.in-addr.arpa" {
		t.Errorf("Unexpected rows %+v", rows)
	}
}

func TestStore_InsertFailure(t *testing.T) {
	db := dbtest.Open(t)
	boom := errors.New("disk full")
	dbtest.FailCreates(t, db, "8.0.0.10.in-addr.arpa", boom)
	s := NewStore(db)

	err := s.Insert(context.Background(), model.NewPTRRecord(1, "8.0.0.10.in-addr.arpa", "eight.example.net", 60))
	if !errors.Is(err, boom) {
		t.Errorf("Expected disk full error, got %v", err)
	}
}

func TestOutcome_String(t *testing.T) {
	if Inserted.String() != "inserted" || Updated.String() != "updated" || Outcome(0).String() != "unknown" {
		t.Error("Unexpected Outcome strings")
	}
}
