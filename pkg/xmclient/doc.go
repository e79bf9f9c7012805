// Package xmclient is the entry point for building typed data services over a
// resource-oriented HTTP+JSON backend.
//
// It layers configuration, the retrying HTTP transport and logging on top of
// the interfaces and types defined in the xmrest package. Build one Client per
// backend, then ask it for a DataService per resource.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/xmrest/pkg/xmclient"
//	  "github.com/fivetwenty-io/xmrest/pkg/xmrest"
//	)
//
//	type RawMaterial struct {
//	  ID   string `json:"id"`
//	  Name string `json:"name"`
//	}
//
//	func (m *RawMaterial) GetID() string   { return m.ID }
//	func (m *RawMaterial) SetID(id string) { m.ID = id }
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: just a base URL (API version 1, no auth).
//	  cli, err := xmclient.NewWithBaseURL("http://localhost:8080/")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a bearer token:
//	  cli, err = xmclient.NewWithToken("http://localhost:8080/", "eyJhbGciOi...")
//
//	  // Or with full control:
//	  settings := xmrest.DefaultSettings()
//	  settings.BaseURL = "https://erp.example.com/"
//	  settings.APIVersion = xmrest.NoVersion
//	  cli, err = xmclient.New(&xmrest.Config{
//	    Settings:    settings,
//	    RetryMax:    3,
//	    Concurrency: 8,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  materials := xmclient.MustResource[*RawMaterial, string](cli, "rawmaterials")
//
//	  steel := &RawMaterial{Name: "S235"}
//	  if !materials.SaveItem(ctx, steel) {
//	    log.Print("save failed")
//	  }
//
//	  all := materials.GetAllItems(ctx, xmrest.NoPage)
//	  _ = all
//	}
//
// Blocking methods collapse failures to false, the zero value or nil. Use the
// Find, Upsert, Remove and Tally methods, or the Result of an async Task, when
// the reason matters.
package xmclient
