package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// Operation names recorded on errors and in logs.
const (
	opGet    = "get"
	opList   = "list"
	opFind   = "find"
	opQuery  = "query"
	opSave   = "save"
	opDelete = "delete"
	opCount  = "count"
	opPing   = "ping"
)

// Service is the data service for one resource. It is safe for concurrent use;
// settings are read on every call.
type Service[T xmrest.Model[ID], ID comparable] struct {
	resource         string
	config           *xmrest.Config
	transport        *transport
	codec            xmrest.Codec
	exec             *executor
	timeout          time.Duration
	batchConcurrency int
}

// New creates the data service for resource. A nil config uses
// xmrest.GlobalSettings and the transport defaults.
func New[T xmrest.Model[ID], ID comparable](resource string, config *xmrest.Config, opts ...Option) (*Service[T, ID], error) {
	err := validateResource(resource)
	if err != nil {
		return nil, fmt.Errorf("creating %s service: %w", resource, err)
	}

	if config == nil {
		config = &xmrest.Config{}
	}

	o := &options{batchConcurrency: constants.DefaultBatchConcurrency}
	for _, opt := range opts {
		opt(o)
	}

	if o.httpClient == nil {
		o.httpClient = NewHTTPClient(config)
	}

	policy := config.AuthPolicy
	if policy == nil {
		policy = xmrest.AlwaysAuthenticate
	}

	codec := config.Codec
	if codec == nil {
		codec = xmrest.JSONCodec{}
	}

	timeout := requestTimeout(config)

	return &Service[T, ID]{
		resource: resource,
		config:   config,
		transport: &transport{
			client:  o.httpClient,
			config:  config,
			policy:  policy,
			headers: config.Headers,
			timeout: timeout,
		},
		codec:            codec,
		exec:             newExecutor(config.Concurrency, config.Logger, resource),
		timeout:          timeout,
		batchConcurrency: o.batchConcurrency,
	}, nil
}

// Resource returns the resource name.
func (s *Service[T, ID]) Resource() string {
	return s.resource
}

// URL returns the item URL for id, or the collection URL for the zero id.
func (s *Service[T, ID]) URL(id ID) string {
	return BuildURL(s.settings(), s.resource, id, xmrest.NoPage)
}

func (s *Service[T, ID]) settings() xmrest.Settings {
	return s.config.EffectiveSettings().Clone()
}

func (s *Service[T, ID]) collectionURL(page int) string {
	var zero ID

	return BuildURL(s.settings(), s.resource, zero, page)
}

// Find reads one record by identifier. A zero identifier, a 404 or an empty
// body are reported as KindNotFound.
func (s *Service[T, ID]) Find(ctx context.Context, id ID) (T, error) {
	var zero T

	if xmrest.IsZeroID(id) {
		return zero, xmrest.NewError(xmrest.KindNotFound, opGet, xmrest.ErrEmptyIdentifier)
	}

	result, err := s.transport.send(ctx, http.MethodGet, s.URL(id), nil)
	if err != nil {
		return zero, withOp(opGet, err)
	}

	item, err := s.decodeItem(result.Body())
	if err != nil {
		return zero, withOp(opGet, err)
	}

	return item, nil
}

// FindAll reads one page of the collection. An empty or null body is an empty
// collection.
func (s *Service[T, ID]) FindAll(ctx context.Context, page int) ([]T, error) {
	result, err := s.transport.send(ctx, http.MethodGet, s.collectionURL(page), nil)
	if err != nil {
		return nil, withOp(opList, err)
	}

	items, err := s.decodeList(result.Body())
	if err != nil {
		return nil, withOp(opList, err)
	}

	return items, nil
}

// FindFirst returns the first record of the page matching predicate.
func (s *Service[T, ID]) FindFirst(ctx context.Context, predicate xmrest.Predicate[T], page int) (T, error) {
	var zero T

	if predicate == nil {
		return zero, xmrest.NewError(xmrest.KindInvalidInput, opFind, errNilPredicate)
	}

	items, err := s.FindAll(ctx, page)
	if err != nil {
		return zero, withOp(opFind, err)
	}

	matches, err := filter(items, predicate, true)
	if err != nil {
		return zero, withOp(opFind, err)
	}

	if len(matches) == 0 {
		return zero, xmrest.NewError(xmrest.KindNotFound, opFind, xmrest.ErrNoMatch)
	}

	return matches[0], nil
}

// FindWhere returns every record of the page matching predicate, in server
// order.
func (s *Service[T, ID]) FindWhere(ctx context.Context, predicate xmrest.Predicate[T], page int) ([]T, error) {
	if predicate == nil {
		return nil, xmrest.NewError(xmrest.KindInvalidInput, opQuery, errNilPredicate)
	}

	items, err := s.FindAll(ctx, page)
	if err != nil {
		return nil, withOp(opQuery, err)
	}

	matches, err := filter(items, predicate, false)
	if err != nil {
		return nil, withOp(opQuery, err)
	}

	return matches, nil
}

// Tally counts the records of the collection matching predicate. A nil
// predicate counts every record.
func (s *Service[T, ID]) Tally(ctx context.Context, predicate xmrest.Predicate[T]) (int, error) {
	items, err := s.FindAll(ctx, xmrest.NoPage)
	if err != nil {
		return 0, withOp(opCount, err)
	}

	if predicate == nil {
		return len(items), nil
	}

	matches, err := filter(items, predicate, false)
	if err != nil {
		return 0, withOp(opCount, err)
	}

	return len(matches), nil
}

// Upsert serializes item, looks it up by identifier and then creates it with a
// POST when the lookup yields no record, or updates it with a PUT otherwise.
// Both writes target the collection URL. A failed lookup counts as no record,
// exactly as GetItem would report it.
func (s *Service[T, ID]) Upsert(ctx context.Context, item T) (*xmrest.Result, error) {
	if isNil(item) {
		return nil, xmrest.NewError(xmrest.KindInvalidInput, opSave, xmrest.ErrNilItem)
	}

	body, err := s.codec.Marshal(item)
	if err != nil {
		return nil, xmrest.NewError(xmrest.KindParse, opSave, fmt.Errorf("encoding item: %w", err))
	}

	method := http.MethodPost
	if s.exists(ctx, item.GetID()) {
		method = http.MethodPut
	}

	result, err := s.transport.send(ctx, method, s.collectionURL(xmrest.NoPage), body)
	if err != nil {
		return result, withOp(opSave, err)
	}

	return result, nil
}

func (s *Service[T, ID]) exists(ctx context.Context, id ID) bool {
	existing, err := s.Find(ctx, id)
	if err != nil {
		if !xmrest.IsNotFound(err) && s.config.Logger != nil {
			s.config.Logger.Debug("lookup before save failed, creating", map[string]interface{}{
				"resource": s.resource,
				"id":       xmrest.FormatID(id),
				"kind":     xmrest.KindOf(err).String(),
				"error":    err.Error(),
			})
		}

		return false
	}

	return !isNil(existing) && !xmrest.IsZeroID(existing.GetID())
}

// Remove deletes the record with identifier id. A zero identifier fails with
// KindInvalidInput without a request.
func (s *Service[T, ID]) Remove(ctx context.Context, id ID) (*xmrest.Result, error) {
	if xmrest.IsZeroID(id) {
		return nil, xmrest.NewError(xmrest.KindInvalidInput, opDelete, xmrest.ErrEmptyIdentifier)
	}

	result, err := s.transport.send(ctx, http.MethodDelete, s.URL(id), nil)
	if err != nil {
		return result, withOp(opDelete, err)
	}

	return result, nil
}

// RemoveWhere deletes the first record matching predicate. No DELETE is sent
// when nothing matches.
func (s *Service[T, ID]) RemoveWhere(ctx context.Context, predicate xmrest.Predicate[T]) (*xmrest.Result, error) {
	match, err := s.FindFirst(ctx, predicate, xmrest.NoPage)
	if err != nil {
		return nil, withOp(opDelete, err)
	}

	return s.Remove(ctx, match.GetID())
}

// Ping issues a GET on the collection URL and returns the envelope.
func (s *Service[T, ID]) Ping(ctx context.Context) *xmrest.Result {
	return s.PingAsync(ctx).Wait()
}

// PingAsync is the async form of Ping.
func (s *Service[T, ID]) PingAsync(ctx context.Context) *xmrest.Task[*xmrest.Result] {
	fallback := xmrest.NewErrorResult("ping did not complete", "")

	return submit(ctx, s.exec, opPing, fallback, func(ctx context.Context) (*xmrest.Result, error) {
		result, err := s.transport.send(ctx, http.MethodGet, s.collectionURL(xmrest.NoPage), nil)
		if err != nil && s.config.Logger != nil {
			s.config.Logger.Debug("ping failed", map[string]interface{}{
				"resource": s.resource,
				"error":    err.Error(),
			})
		}

		return result, nil
	})
}

// GetItem returns the record with identifier id, or the zero value.
func (s *Service[T, ID]) GetItem(ctx context.Context, id ID) T {
	return s.GetItemAsync(ctx, id).Wait()
}

// GetItemAsync is the async form of GetItem.
func (s *Service[T, ID]) GetItemAsync(ctx context.Context, id ID) *xmrest.Task[T] {
	var zero T

	return submit(ctx, s.exec, opGet, zero, func(ctx context.Context) (T, error) {
		return s.Find(ctx, id)
	})
}

// GetAllItems returns one page of the collection, or nil.
func (s *Service[T, ID]) GetAllItems(ctx context.Context, page int) []T {
	return s.GetAllItemsAsync(ctx, page).Wait()
}

// GetAllItemsAsync is the async form of GetAllItems.
func (s *Service[T, ID]) GetAllItemsAsync(ctx context.Context, page int) *xmrest.Task[[]T] {
	return submit(ctx, s.exec, opList, nil, func(ctx context.Context) ([]T, error) {
		return s.FindAll(ctx, page)
	})
}

// GetItemWhere returns the first record matching predicate, or the zero value.
func (s *Service[T, ID]) GetItemWhere(ctx context.Context, predicate xmrest.Predicate[T], page int) T {
	return s.GetItemWhereAsync(ctx, predicate, page).Wait()
}

// GetItemWhereAsync is the async form of GetItemWhere.
func (s *Service[T, ID]) GetItemWhereAsync(ctx context.Context, predicate xmrest.Predicate[T], page int) *xmrest.Task[T] {
	var zero T

	return submit(ctx, s.exec, opFind, zero, func(ctx context.Context) (T, error) {
		return s.FindFirst(ctx, predicate, page)
	})
}

// GetItems returns the records matching predicate, or nil on failure.
func (s *Service[T, ID]) GetItems(ctx context.Context, predicate xmrest.Predicate[T], page int) []T {
	return s.GetItemsAsync(ctx, predicate, page).Wait()
}

// GetItemsAsync is the async form of GetItems.
func (s *Service[T, ID]) GetItemsAsync(ctx context.Context, predicate xmrest.Predicate[T], page int) *xmrest.Task[[]T] {
	return submit(ctx, s.exec, opQuery, nil, func(ctx context.Context) ([]T, error) {
		return s.FindWhere(ctx, predicate, page)
	})
}

// SaveItem creates or updates item and reports success.
func (s *Service[T, ID]) SaveItem(ctx context.Context, item T) bool {
	return s.SaveItemAsync(ctx, item).Wait()
}

// SaveItemAsync is the async form of SaveItem.
func (s *Service[T, ID]) SaveItemAsync(ctx context.Context, item T) *xmrest.Task[bool] {
	return submit(ctx, s.exec, opSave, false, func(ctx context.Context) (bool, error) {
		_, err := s.Upsert(ctx, item)

		return err == nil, err
	})
}

// DeleteItem deletes item by its identifier.
func (s *Service[T, ID]) DeleteItem(ctx context.Context, item T) bool {
	return s.DeleteItemAsync(ctx, item).Wait()
}

// DeleteItemAsync is the async form of DeleteItem.
func (s *Service[T, ID]) DeleteItemAsync(ctx context.Context, item T) *xmrest.Task[bool] {
	return submit(ctx, s.exec, opDelete, false, func(ctx context.Context) (bool, error) {
		if isNil(item) {
			return false, xmrest.NewError(xmrest.KindInvalidInput, opDelete, xmrest.ErrNilItem)
		}

		_, err := s.Remove(ctx, item.GetID())

		return err == nil, err
	})
}

// DeleteItemByID deletes the record with identifier id.
func (s *Service[T, ID]) DeleteItemByID(ctx context.Context, id ID) bool {
	return s.DeleteItemByIDAsync(ctx, id).Wait()
}

// DeleteItemByIDAsync is the async form of DeleteItemByID.
func (s *Service[T, ID]) DeleteItemByIDAsync(ctx context.Context, id ID) *xmrest.Task[bool] {
	return submit(ctx, s.exec, opDelete, false, func(ctx context.Context) (bool, error) {
		_, err := s.Remove(ctx, id)

		return err == nil, err
	})
}

// DeleteItemWhere deletes the first record matching predicate.
func (s *Service[T, ID]) DeleteItemWhere(ctx context.Context, predicate xmrest.Predicate[T]) bool {
	return s.DeleteItemWhereAsync(ctx, predicate).Wait()
}

// DeleteItemWhereAsync is the async form of DeleteItemWhere.
func (s *Service[T, ID]) DeleteItemWhereAsync(ctx context.Context, predicate xmrest.Predicate[T]) *xmrest.Task[bool] {
	return submit(ctx, s.exec, opDelete, false, func(ctx context.Context) (bool, error) {
		_, err := s.RemoveWhere(ctx, predicate)

		return err == nil, err
	})
}

// Count returns the collection size and whether it could be determined.
func (s *Service[T, ID]) Count(ctx context.Context) (int, bool) {
	n, err := s.CountAsync(ctx).Result()

	return n, err == nil
}

// CountAsync is the async form of Count.
func (s *Service[T, ID]) CountAsync(ctx context.Context) *xmrest.Task[int] {
	return submit(ctx, s.exec, opCount, 0, func(ctx context.Context) (int, error) {
		return s.Tally(ctx, nil)
	})
}

// CountWhere returns the number of records matching predicate and whether it
// could be determined.
func (s *Service[T, ID]) CountWhere(ctx context.Context, predicate xmrest.Predicate[T]) (int, bool) {
	n, err := s.CountWhereAsync(ctx, predicate).Result()

	return n, err == nil
}

// CountWhereAsync is the async form of CountWhere.
func (s *Service[T, ID]) CountWhereAsync(ctx context.Context, predicate xmrest.Predicate[T]) *xmrest.Task[int] {
	return submit(ctx, s.exec, opCount, 0, func(ctx context.Context) (int, error) {
		return s.Tally(ctx, predicate)
	})
}

var (
	errNilPredicate = errors.New("predicate is nil")
	nullBody        = []byte("null")
)

func (s *Service[T, ID]) decodeItem(body string) (T, error) {
	var item T

	data := bytes.TrimSpace([]byte(body))
	if len(data) == 0 || bytes.Equal(data, nullBody) {
		return item, xmrest.NewError(xmrest.KindNotFound, "", xmrest.ErrEmptyBody)
	}

	err := s.codec.Unmarshal(data, &item)
	if err != nil {
		return item, xmrest.NewError(xmrest.KindParse, "", fmt.Errorf("decoding %s item: %w", s.resource, err))
	}

	return item, nil
}

func (s *Service[T, ID]) decodeList(body string) ([]T, error) {
	data := bytes.TrimSpace([]byte(body))
	if len(data) == 0 || bytes.Equal(data, nullBody) {
		return []T{}, nil
	}

	var decoded []T

	err := s.codec.Unmarshal(data, &decoded)
	if err != nil {
		return nil, xmrest.NewError(xmrest.KindParse, "", fmt.Errorf("decoding %s collection: %w", s.resource, err))
	}

	// null elements decode to nil records
	items := make([]T, 0, len(decoded))

	for _, item := range decoded {
		if isNil(item) {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}

// filter keeps the items matching predicate in order. A panicking predicate is
// reported as KindInternal.
func filter[T any](items []T, predicate xmrest.Predicate[T], firstOnly bool) (matches []T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			matches = nil
			err = &xmrest.Error{
				Kind:    xmrest.KindInternal,
				Message: fmt.Sprintf("predicate panicked: %v", recovered),
				Err:     xmrest.ErrTaskPanicked,
			}
		}
	}()

	matches = make([]T, 0)

	for _, item := range items {
		if !predicate(item) {
			continue
		}

		matches = append(matches, item)
		if firstOnly {
			break
		}
	}

	return matches, nil
}

// withOp returns err with its operation set to op, keeping the innermost kind.
// Errors that are not *xmrest.Error are classified as KindInternal.
func withOp(op string, err error) error {
	var xerr *xmrest.Error
	if !errors.As(err, &xerr) {
		return xmrest.NewError(xmrest.KindInternal, op, err)
	}

	classified := *xerr
	classified.Op = op

	return &classified
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
