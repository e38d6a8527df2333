// Package journal persists committed moves in LevelDB so a session can be
// inspected or replayed after the process exits.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"fancy_chessboard/internal/game"
)

var ErrClosed = errors.New("journal closed")

const keyPrefix = "move/"

// Entry is one stored move. Seq increases across scene resets, unlike the
// record's own sequence number.
type Entry struct {
	Seq    uint64          `json:"seq"`
	Time   time.Time       `json:"time"`
	Record game.MoveRecord `json:"record"`
}

// Journal is an append-only move log.
type Journal struct {
	mu   sync.Mutex
	db   *leveldb.DB
	next uint64
	now  func() time.Time
}

// Open opens or creates a journal directory.
func Open(path string) (*Journal, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return newJournal(db)
}

// OpenMemory returns a journal that lives only in memory.
func OpenMemory() (*Journal, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open memory journal: %w", err)
	}
	return newJournal(db)
}

func newJournal(db *leveldb.DB) (*Journal, error) {
	j := &Journal{db: db, next: 1, now: time.Now}
	iter := db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()
	if iter.Last() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			db.Close()
			return nil, err
		}
		j.next = seq + 1
	}
	if err := iter.Error(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return j, nil
}

func key(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, seq))
}

func parseKey(k []byte) (uint64, error) {
	seq, err := strconv.ParseUint(strings.TrimPrefix(string(k), keyPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad journal key %q: %w", k, err)
	}
	return seq, nil
}

// Append stores rec under the next sequence number.
func (j *Journal) Append(rec game.MoveRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ErrClosed
	}
	e := Entry{Seq: j.next, Time: j.now().UTC(), Record: rec}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode move %d: %w", e.Seq, err)
	}
	if err := j.db.Put(key(e.Seq), data, nil); err != nil {
		return fmt.Errorf("store move %d: %w", e.Seq, err)
	}
	j.next++
	return nil
}

// List returns the newest limit entries, oldest first. A limit of zero or
// less returns everything.
func (j *Journal) List(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}
	iter := j.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()

	var out []Entry
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if limit > 0 && len(out) == limit {
			break
		}
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", iter.Key(), err)
		}
		out = append(out, e)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

// Records returns the stored move records in order, ready for
// game.ReplayMoves.
func Records(entries []Entry) []game.MoveRecord {
	out := make([]game.MoveRecord, len(entries))
	for i, e := range entries {
		out[i] = e.Record
	}
	return out
}

// Len is the number of stored moves.
func (j *Journal) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.next - 1
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}
