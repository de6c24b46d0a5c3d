package domain

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ActionAccountUnlocked is the action type written for every successful
// unlock. Consumers filter the audit trail on this literal.
const ActionAccountUnlocked = "account_unlocked"

// TableAccountLockouts is the affected-resource name recorded on unlock
// audit entries.
const TableAccountLockouts = "account_lockouts"

// AuditRecord is an immutable entry describing a privileged admin action.
// Records form a hash chain: ChainHash covers the record's own fields plus
// the previous record's ChainHash, so any in-place edit or deletion breaks
// verification of every later record.
type AuditRecord struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Seq         uint64    `gorm:"uniqueIndex;not null" json:"seq"`
	ActorID     string    `gorm:"size:64;not null;index:idx_audit_records_actor_id" json:"actor_id"`
	ActionType  string    `gorm:"size:64;not null;index:idx_audit_records_action_type" json:"action_type"`
	RecordID    string    `gorm:"size:64;not null" json:"record_id"`
	TargetTable string    `gorm:"size:64;not null" json:"table_name"`
	NewValues   string    `gorm:"type:text" json:"new_values"`
	PrevHash    string    `gorm:"size:64;not null" json:"prev_hash"`
	ChainHash   string    `gorm:"size:64;not null" json:"chain_hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComputeChainHash derives the integrity hash for this record given the
// previous record's chain hash (empty for the first record).
func (r *AuditRecord) ComputeChainHash(prevHash string) string {
	h, _ := blake2b.New256(nil)
	for _, field := range []string{
		prevHash,
		r.ID,
		r.ActorID,
		r.ActionType,
		r.RecordID,
		r.TargetTable,
		r.NewValues,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
