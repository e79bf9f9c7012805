// Package xmrest provides types, interfaces, and helpers for generic CRUD access
// to resource-oriented HTTP+JSON backends.
//
// # Overview
//
// The xmrest package defines the record contract (Model), the backend
// coordinates (Settings), the transport envelope (Result), and the
// DataService interface that gives one resource full create/update, read,
// predicate search, delete and count access. A concrete implementation is
// provided by the xmclient package, which wires configuration, transport and
// logging. Most consumers import xmclient to construct a service and then
// interact with the DataService interface defined here.
//
// Getting a service
//
//	type Widget struct {
//	  ID   string `json:"id"`
//	  Name string `json:"name"`
//	}
//
//	func (w *Widget) GetID() string   { return w.ID }
//	func (w *Widget) SetID(id string) { w.ID = id }
//
//	func example(ctx context.Context) {
//	  settings := xmrest.DefaultSettings()
//	  settings.BaseURL = "http://host/"
//
//	  cli, err := xmclient.New(&xmrest.Config{Settings: settings})
//	  if err != nil { log.Fatal(err) }
//
//	  widgets, err := xmclient.Resource[*Widget, string](cli, "widgets")
//	  if err != nil { log.Fatal(err) }
//
//	  w := widgets.GetItem(ctx, "abc") // GET http://host/api/v1/widgets/abc
//	  _ = w
//	}
//
// # URLs
//
// Request URLs are {BaseURL}api[/v{APIVersion}]/{resource}[/{id}]. The version
// segment is omitted when APIVersion is NoVersion; a zero identifier addresses
// the collection root ("/").
//
// # Save
//
// SaveItem always reads before it writes: it looks the item up by identifier
// and POSTs to the collection when the lookup finds nothing, otherwise it PUTs.
// A lookup that fails for any reason counts as finding nothing.
//
// # Errors
//
// The blocking and Task-returning operations never raise: booleans collapse to
// false, single records to the zero value and collections to nil. The Find,
// Upsert, Remove and Tally methods, and Task.Result, return a classified *Error
// (see ErrorKind) for callers that need the reason. Helpers such as IsNotFound
// and IsTransport make it easy to branch on it.
//
// # Predicates
//
// Predicate operations fetch one page of the collection and filter it on the
// client. The backend protocol offers no query parameters, so large
// collections are transferred in full.
package xmrest
