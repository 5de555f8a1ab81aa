// Package archive stores computed layouts so they can be listed, shared by
// id and re-rendered without recomputation.
//
// Two backends implement [Store]: [SQLiteStore] for a single machine and
// [MongoStore] for a shared deployment. [Open] picks one from a DSN:
//
//	store, err := archive.Open(ctx, "mongodb://db:27017/leymap")
//	store, err := archive.Open(ctx, "~/.local/share/leymap/archive.db")
//
// Records are keyed by a random UUID assigned on [Store.Save].
package archive

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/leymap/pkg/graph"
)

// Record is an archived layout.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	Focus     string       `json:"focus" bson:"focus"`
	Timeframe string       `json:"timeframe,omitempty" bson:"timeframe,omitempty"`
	Source    string       `json:"source,omitempty" bson:"source,omitempty"`
	Circles   int          `json:"circles" bson:"circles"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
}

// Summary is a record without its layout body.
type Summary struct {
	ID        string    `json:"id"`
	Focus     string    `json:"focus"`
	Timeframe string    `json:"timeframe,omitempty"`
	Source    string    `json:"source,omitempty"`
	Circles   int       `json:"circles"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary drops the layout body.
func (r *Record) Summary() Summary {
	return Summary{
		ID:        r.ID,
		Focus:     r.Focus,
		Timeframe: r.Timeframe,
		Source:    r.Source,
		Circles:   r.Circles,
		CreatedAt: r.CreatedAt,
	}
}

// NewRecord wraps a layout for saving.
func NewRecord(l graph.Layout, source string) *Record {
	return &Record{
		Focus:     l.Focus,
		Timeframe: l.Timeframe,
		Source:    source,
		Layout:    l,
	}
}

// prepare fills in the id, timestamp and derived fields before a write.
func (r *Record) prepare() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.Layout.ID = r.ID
	r.Circles = len(r.Layout.Circles)
	if r.Focus == "" {
		r.Focus = r.Layout.Focus
	}
}

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Store persists layout records.
type Store interface {
	// Save writes r, assigning an id and timestamp when missing.
	Save(ctx context.Context, r *Record) error

	// Get returns the record with the given id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a record, or returns NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Open returns a MongoDB store for mongodb:// and mongodb+srv:// DSNs and a
// SQLite store at the given path otherwise.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://") {
		return NewMongoStore(ctx, dsn, "")
	}
	return NewSQLiteStore(dsn)
}
