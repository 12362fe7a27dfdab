package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ErrorSignature is the raw signature of a crash: what failed and where.
type ErrorSignature struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

// Identity derives the deduplication identity for the signature. The key is
// deterministic over content, so repeat occurrences of the same crash always
// map to the same stored record.
func (s ErrorSignature) Identity() string {
	h := sha256.New()
	h.Write([]byte(s.Name))
	h.Write([]byte{0})
	h.Write([]byte(s.Message))
	h.Write([]byte{0})
	h.Write([]byte(s.Stack))
	return hex.EncodeToString(h.Sum(nil))
}

// ErrorExtra carries contextual metadata captured alongside a crash.
// Counts tracks how many times this identity has recurred.
type ErrorExtra struct {
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location"`
	Pathname  string    `json:"pathname"`
	Hash      string    `json:"hash"`
	Counts    int       `json:"counts"`
}

// CapturedError is one distinct crash occurrence stored in the errors table.
// At most one record exists per ID; a repeat capture of the same identity
// updates the existing record instead of inserting a duplicate.
type CapturedError struct {
	ID    string         `json:"id"`
	Error ErrorSignature `json:"error"`
	Extra ErrorExtra     `json:"extra"`
}
