package repository

import (
	"errors"
	"testing"
	"time"

	"lockdesk/internal/domain"

	"github.com/google/uuid"
)

func TestAuditRepositoryChainAppendAndVerify(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAuditRepository(db)

	for i, actor := range []string{"admin-1", "admin-1", "admin-2"} {
		rec := &domain.AuditRecord{
			ID:          uuid.NewString(),
			ActorID:     actor,
			ActionType:  domain.ActionAccountUnlocked,
			RecordID:    "target",
			TargetTable: domain.TableAccountLockouts,
			NewValues:   `{"failed_attempts":0}`,
			CreatedAt:   time.Now().UTC(),
		}
		if err := repo.AppendTx(db, rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if rec.Seq != uint64(i+1) {
			t.Errorf("seq = %d, want %d", rec.Seq, i+1)
		}
		if rec.ChainHash == "" {
			t.Error("chain hash empty")
		}
	}

	recs, err := repo.List(0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	if recs[0].PrevHash != "" {
		t.Error("first record must have empty prev_hash")
	}
	if recs[1].PrevHash != recs[0].ChainHash || recs[2].PrevHash != recs[1].ChainHash {
		t.Error("records not chained")
	}

	n, err := repo.VerifyChain()
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if n != 3 {
		t.Errorf("verified = %d, want 3", n)
	}
}

func TestAuditRepositoryVerifyDetectsTampering(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAuditRepository(db)

	for i := 0; i < 2; i++ {
		rec := &domain.AuditRecord{
			ID:          uuid.NewString(),
			ActorID:     "admin-1",
			ActionType:  domain.ActionAccountUnlocked,
			RecordID:    "target",
			TargetTable: domain.TableAccountLockouts,
			NewValues:   `{}`,
			CreatedAt:   time.Now().UTC(),
		}
		if err := repo.AppendTx(db, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	// Edit the first record in place.
	if err := db.Model(&domain.AuditRecord{}).Where("seq = ?", 1).
		Update("actor_id", "someone-else").Error; err != nil {
		t.Fatalf("tamper: %v", err)
	}

	if _, err := repo.VerifyChain(); !errors.Is(err, ErrChainBroken) {
		t.Fatalf("verify = %v, want ErrChainBroken", err)
	}
}

func TestAuditRepositoryListAfterSeq(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAuditRepository(db)

	for i := 0; i < 5; i++ {
		rec := &domain.AuditRecord{
			ID:          uuid.NewString(),
			ActorID:     "admin-1",
			ActionType:  domain.ActionAccountUnlocked,
			RecordID:    "target",
			TargetTable: domain.TableAccountLockouts,
			NewValues:   `{}`,
			CreatedAt:   time.Now().UTC(),
		}
		if err := repo.AppendTx(db, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recs, err := repo.List(3, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].Seq != 4 || recs[1].Seq != 5 {
		t.Fatalf("recs = %+v, want seq 4 and 5", recs)
	}
}
