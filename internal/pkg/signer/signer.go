package signer

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
)

// Signer produces and verifies the tamper-evident signature of a
// ledger row. The field order of the canonical tuple is load-bearing:
// changing it invalidates every previously signed row, so any schema
// change must version this package.
type Signer struct {
	salt string
}

func New(salt string) *Signer {
	return &Signer{salt: salt}
}

// Sign canonicalizes the row and returns its SHA-256 signature in hex.
// Missing fields serialize as empty strings, never as a null token.
func (s *Signer) Sign(row *ledger.Row) string {
	fields := []string{
		strings.TrimSpace(row.WorkerID),
		strings.TrimSpace(row.WorkerName),
		strings.TrimSpace(row.Date),
		trimPtr(row.EntryAM),
		trimPtr(row.ExitAM),
		trimPtr(row.EntryPM),
		trimPtr(row.ExitPM),
		strings.TrimSpace(row.Estado),
		strings.TrimSpace(row.Area),
		s.salt,
	}

	sum := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the signature and compares it against the stored
// one. A mismatch indicates tampering; it is surfaced, never repaired.
func (s *Signer) Verify(row *ledger.Row) bool {
	expected := s.Sign(row)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(row.Hash)) == 1
}

func trimPtr(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
