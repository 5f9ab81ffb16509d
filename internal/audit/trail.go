// Package audit persists a tamper-evident record of leadership changes
// and relayed transactions: each row's hash folds in the previous row's
// hash under an HMAC key, so any row rewritten after the fact breaks the
// chain. Adapted from the teacher's SQLite-backed audit log, scoped down
// to this node's own security-relevant events instead of an HTTP-facing
// action log.
package audit

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"
)

// Event is a single leadership or relay event in the trail.
type Event struct {
	Timestamp time.Time
	Peer      string // the peerid.PeerId elected or that submitted the transaction
	Action    string // "signer_rotation" | "relayer_rotation" | "relayed_transaction"
	Resource  string // signature or round identifier, action-dependent
	Success   bool
}

// CriticalActions bypass the buffer and write through immediately: a
// leadership rotation or relay outcome must not be lost to a crash
// between being logged and the next periodic flush.
var CriticalActions = map[string]bool{
	"signer_rotation":     true,
	"relayer_rotation":    true,
	"relayed_transaction": true,
}

// Trail is a batched, HMAC-chained audit log backed by SQLite.
type Trail struct {
	db            *sql.DB
	buffer        []Event
	bufferMutex   sync.Mutex
	flushTicker   *time.Ticker
	stopChan      chan struct{}
	maxBuffer     int
	flushInterval time.Duration
	hmacKey       []byte
}

// EnsureSchema creates the audit_trail table if it does not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS audit_trail (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		peer TEXT NOT NULL,
		action TEXT NOT NULL,
		resource TEXT,
		success INTEGER NOT NULL,
		prev_hash TEXT,
		row_hash TEXT
	)`)
	return err
}

// NewTrail creates a Trail. hmacKey may be nil to disable chaining (rows
// are still persisted, just without tamper evidence).
func NewTrail(db *sql.DB, maxBuffer int, flushInterval time.Duration, hmacKey []byte) *Trail {
	if maxBuffer <= 0 {
		maxBuffer = 50
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}

	return &Trail{
		db:            db,
		buffer:        make([]Event, 0, maxBuffer),
		maxBuffer:     maxBuffer,
		flushInterval: flushInterval,
		stopChan:      make(chan struct{}),
		hmacKey:       hmacKey,
	}
}

// Start begins the background flush goroutine.
func (t *Trail) Start() {
	t.flushTicker = time.NewTicker(t.flushInterval)
	go func() {
		for {
			select {
			case <-t.flushTicker.C:
				if err := t.Flush(); err != nil {
					log.Printf("audit: periodic flush: %v", err)
				}
			case <-t.stopChan:
				t.flushTicker.Stop()
				if err := t.Flush(); err != nil {
					log.Printf("audit: final flush: %v", err)
				}
				return
			}
		}
	}()
}

// Stop flushes any buffered events and stops the background goroutine.
func (t *Trail) Stop() {
	close(t.stopChan)
}

// Log records an event. Critical actions (see CriticalActions) write
// through immediately; everything else is buffered.
func (t *Trail) Log(e Event) error {
	if CriticalActions[e.Action] {
		return t.writeDirect([]Event{e})
	}

	t.bufferMutex.Lock()
	t.buffer = append(t.buffer, e)
	needFlush := len(t.buffer) >= t.maxBuffer
	t.bufferMutex.Unlock()

	if needFlush {
		return t.Flush()
	}
	return nil
}

func (t *Trail) writeDirect(events []Event) error {
	return t.insertAll(events)
}

// Flush writes all buffered events in a single transaction.
func (t *Trail) Flush() error {
	t.bufferMutex.Lock()
	if len(t.buffer) == 0 {
		t.bufferMutex.Unlock()
		return nil
	}
	events := make([]Event, len(t.buffer))
	copy(events, t.buffer)
	t.buffer = t.buffer[:0]
	t.bufferMutex.Unlock()

	return t.insertAll(events)
}

func (t *Trail) insertAll(events []Event) error {
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("audit: begin: %w", err)
	}
	defer tx.Rollback()

	var prevHash string
	if t.hmacKey != nil {
		_ = tx.QueryRow(`SELECT COALESCE(row_hash,'') FROM audit_trail ORDER BY id DESC LIMIT 1`).Scan(&prevHash)
	}

	stmt, err := tx.Prepare(`INSERT INTO audit_trail
		(timestamp, peer, action, resource, success, prev_hash, row_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("audit: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		rowHash := computeRowHash(t.hmacKey, prevHash, e)
		if _, err := stmt.Exec(e.Timestamp.Unix(), e.Peer, e.Action, e.Resource, e.Success, prevHash, rowHash); err != nil {
			log.Printf("audit: insert: %v", err)
			continue
		}
		prevHash = rowHash
	}

	return tx.Commit()
}
