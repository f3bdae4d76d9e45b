// Package decodes keeps recent decode messages so they can be listed,
// sorted and replied to after the fact.
package decodes

import (
	"errors"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/google/uuid"
)

const DefaultCapacity = 500

var ErrNotFound = errors.New("decodes: record not found")

// Record is one stored decode plus what is needed to answer it.
type Record struct {
	ID         string          `json:"id"`
	ReceivedAt time.Time       `json:"received_at"`
	Peer       string          `json:"peer"`
	Schema     uint32          `json:"schema"`
	Decode     protocol.Decode `json:"decode"`
	Time       string          `json:"time"`
	SNR        string          `json:"snr"`
	DT         string          `json:"dt"`
	DF         string          `json:"df"`
	Reply      []byte          `json:"-"`
	PeerAddr   *net.UDPAddr    `json:"-"`
}

func NewRecord(d protocol.Decode, reply []byte, schema uint32, peer *net.UDPAddr, at time.Time) Record {
	r := Record{
		ID:         "decode-" + uuid.NewString(),
		ReceivedAt: at,
		Schema:     schema,
		Decode:     d,
		Time:       d.TimeString(),
		SNR:        d.SNRString(),
		DT:         d.DeltaTimeString(),
		DF:         d.DeltaFreqString(),
		Reply:      reply,
		PeerAddr:   peer,
	}
	if peer != nil {
		r.Peer = peer.String()
	}
	return r
}

// SortKey orders List results.
type SortKey string

const (
	SortTime SortKey = "time"
	SortDF   SortKey = "df"
	SortSNR  SortKey = "snr"
)

func ParseSortKey(raw string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortTime:
		return SortTime, true
	case SortDF:
		return SortDF, true
	case SortSNR:
		return SortSNR, true
	default:
		return "", false
	}
}

type Query struct {
	Sort   SortKey
	Desc   bool
	CQOnly bool
	// Limit caps the result; 0 means no cap.
	Limit int
}

// Board is a bounded FIFO of records. Oldest records fall off first.
type Board struct {
	mu       sync.RWMutex
	capacity int
	records  []Record
	index    map[string]int
	// evicted counts records dropped from the front, so index values stay
	// valid without rewriting the map on every eviction.
	evicted int
}

func NewBoard(capacity int) *Board {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Board{
		capacity: capacity,
		index:    make(map[string]int),
	}
}

func (b *Board) Add(r Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) == b.capacity {
		delete(b.index, b.records[0].ID)
		b.records = b.records[1:]
		b.evicted++
	}
	b.index[r.ID] = b.evicted + len(b.records)
	b.records = append(b.records, r)
}

func (b *Board) Get(id string) (Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pos, ok := b.index[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return b.records[pos-b.evicted], nil
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
	b.index = make(map[string]int)
	b.evicted = 0
}

// List returns a filtered, sorted copy of the board.
func (b *Board) List(q Query) []Record {
	b.mu.RLock()
	out := make([]Record, 0, len(b.records))
	for _, r := range b.records {
		if q.CQOnly && !r.Decode.IsCQ() {
			continue
		}
		out = append(out, r)
	}
	b.mu.RUnlock()

	less := lessFunc(q.Sort)
	sort.SliceStable(out, func(i, j int) bool {
		if q.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func lessFunc(key SortKey) func(a, b Record) bool {
	switch key {
	case SortDF:
		return func(a, b Record) bool { return a.Decode.DeltaFreq < b.Decode.DeltaFreq }
	case SortSNR:
		return func(a, b Record) bool { return a.Decode.SNR < b.Decode.SNR }
	default:
		return func(a, b Record) bool { return a.ReceivedAt.Before(b.ReceivedAt) }
	}
}
