package repository

import (
	"errors"
	"fmt"

	"lockdesk/internal/domain"

	"gorm.io/gorm"
)

type AuditRepository interface {
	// AppendTx chains and inserts rec inside the given transaction. The
	// record's Seq, PrevHash and ChainHash are filled in here. The chain
	// head is read uncommitted-blind: callers must serialize appending
	// transactions from begin through commit, or two appends can read the
	// same head and collide on the seq unique index.
	AppendTx(tx *gorm.DB, rec *domain.AuditRecord) error
	List(afterSeq uint64, limit int) ([]domain.AuditRecord, error)
	VerifyChain() (int64, error)
}

// ErrChainBroken reports that a stored audit record no longer matches its
// recomputed hash, meaning the trail was edited after the fact.
var ErrChainBroken = errors.New("audit chain broken")

type GormAuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository { return &GormAuditRepository{db: db} }

func (r *GormAuditRepository) AppendTx(tx *gorm.DB, rec *domain.AuditRecord) error {
	var last domain.AuditRecord
	err := tx.Order("seq DESC").First(&last).Error
	switch {
	case err == nil:
		rec.Seq = last.Seq + 1
		rec.PrevHash = last.ChainHash
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec.Seq = 1
		rec.PrevHash = ""
	default:
		return fmt.Errorf("read chain head: %w", err)
	}
	rec.ChainHash = rec.ComputeChainHash(rec.PrevHash)
	return tx.Create(rec).Error
}

func (r *GormAuditRepository) List(afterSeq uint64, limit int) ([]domain.AuditRecord, error) {
	var out []domain.AuditRecord
	q := r.db.Where("seq > ?", afterSeq).Order("seq ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// VerifyChain walks the full trail in sequence order and recomputes every
// hash. Returns the number of records verified.
func (r *GormAuditRepository) VerifyChain() (int64, error) {
	var verified int64
	prevHash := ""
	const batch = 500
	var afterSeq uint64
	for {
		var recs []domain.AuditRecord
		if err := r.db.Where("seq > ?", afterSeq).Order("seq ASC").Limit(batch).Find(&recs).Error; err != nil {
			return verified, err
		}
		if len(recs) == 0 {
			return verified, nil
		}
		for _, rec := range recs {
			if rec.PrevHash != prevHash {
				return verified, fmt.Errorf("%w: record %s prev_hash mismatch", ErrChainBroken, rec.ID)
			}
			if rec.ComputeChainHash(prevHash) != rec.ChainHash {
				return verified, fmt.Errorf("%w: record %s chain_hash mismatch", ErrChainBroken, rec.ID)
			}
			prevHash = rec.ChainHash
			verified++
			afterSeq = rec.Seq
		}
	}
}
