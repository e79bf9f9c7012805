package xmrest

import (
	"context"
	"time"
)

// ItemReader provides identifier, collection and predicate reads.
//
// Collapsed forms return the zero record or a nil slice on any failure;
// callers cannot tell "not found" from a network or parse failure through the
// return value. Use the Find methods or Task.Result for the reason.
type ItemReader[T Model[ID], ID comparable] interface {
	GetItem(ctx context.Context, id ID) T
	GetItemAsync(ctx context.Context, id ID) *Task[T]
	GetAllItems(ctx context.Context, page int) []T
	GetAllItemsAsync(ctx context.Context, page int) *Task[[]T]
	GetItemWhere(ctx context.Context, predicate Predicate[T], page int) T
	GetItemWhereAsync(ctx context.Context, predicate Predicate[T], page int) *Task[T]
	GetItems(ctx context.Context, predicate Predicate[T], page int) []T
	GetItemsAsync(ctx context.Context, predicate Predicate[T], page int) *Task[[]T]
	Count(ctx context.Context) (int, bool)
	CountAsync(ctx context.Context) *Task[int]
	CountWhere(ctx context.Context, predicate Predicate[T]) (int, bool)
	CountWhereAsync(ctx context.Context, predicate Predicate[T]) *Task[int]
}

// ItemWriter provides upsert and delete.
type ItemWriter[T Model[ID], ID comparable] interface {
	SaveItem(ctx context.Context, item T) bool
	SaveItemAsync(ctx context.Context, item T) *Task[bool]
	DeleteItem(ctx context.Context, item T) bool
	DeleteItemAsync(ctx context.Context, item T) *Task[bool]
	DeleteItemByID(ctx context.Context, id ID) bool
	DeleteItemByIDAsync(ctx context.Context, id ID) *Task[bool]
	DeleteItemWhere(ctx context.Context, predicate Predicate[T]) bool
	DeleteItemWhereAsync(ctx context.Context, predicate Predicate[T]) *Task[bool]
}

// DiagnosticReader is the explicit-error counterpart of ItemReader.
type DiagnosticReader[T Model[ID], ID comparable] interface {
	Find(ctx context.Context, id ID) (T, error)
	FindAll(ctx context.Context, page int) ([]T, error)
	FindFirst(ctx context.Context, predicate Predicate[T], page int) (T, error)
	FindWhere(ctx context.Context, predicate Predicate[T], page int) ([]T, error)
	Tally(ctx context.Context, predicate Predicate[T]) (int, error)
}

// DiagnosticWriter is the explicit-error counterpart of ItemWriter. The
// returned Result is the envelope of the write request, nil when no write was
// issued.
type DiagnosticWriter[T Model[ID], ID comparable] interface {
	Upsert(ctx context.Context, item T) (*Result, error)
	Remove(ctx context.Context, id ID) (*Result, error)
	RemoveWhere(ctx context.Context, predicate Predicate[T]) (*Result, error)
}

// BatchWriter runs many writes concurrently.
type BatchWriter[T Model[ID], ID comparable] interface {
	SaveAll(ctx context.Context, items []T) []BatchResult[ID]
	DeleteAll(ctx context.Context, ids []ID) []BatchResult[ID]
}

// DataService is the full data-access surface for one resource.
type DataService[T Model[ID], ID comparable] interface {
	ItemReader[T, ID]
	ItemWriter[T, ID]
	DiagnosticReader[T, ID]
	DiagnosticWriter[T, ID]
	BatchWriter[T, ID]

	// Resource returns the resource name, e.g. "widgets".
	Resource() string
	// URL returns the request URL for id under the current settings.
	URL(id ID) string
	// Ping issues a raw GET on the collection URL and returns its envelope.
	Ping(ctx context.Context) *Result
	PingAsync(ctx context.Context) *Task[*Result]
}

// BatchResult is the outcome of one operation in a batch.
type BatchResult[ID comparable] struct {
	Index    int
	ID       ID
	Success  bool
	Error    error
	Duration time.Duration
}
