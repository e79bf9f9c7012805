package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// BuildURL derives the request URL for resource under settings:
//
//	{BaseURL}/api[/v{APIVersion}]/{resource}/[{id}][?{page param}={page}]
//
// A zero id addresses the collection root. The id is not escaped.
func BuildURL[ID comparable](settings xmrest.Settings, resource string, id ID, page int) string {
	var builder strings.Builder

	builder.WriteString(strings.TrimRight(settings.BaseURL, "/"))
	builder.WriteString("/api")

	if settings.Versioned() {
		builder.WriteString("/v")
		builder.WriteString(strconv.Itoa(settings.APIVersion))
	}

	builder.WriteString("/")
	builder.WriteString(resource)
	builder.WriteString("/")

	if !xmrest.IsZeroID(id) {
		builder.WriteString(xmrest.FormatID(id))
	}

	if page != xmrest.NoPage {
		builder.WriteString("?")
		builder.WriteString(url.QueryEscape(settings.PageParam()))
		builder.WriteString("=")
		builder.WriteString(strconv.Itoa(page))
	}

	return builder.String()
}

// CollectionURL is BuildURL for the collection root without paging.
func CollectionURL(settings xmrest.Settings, resource string) string {
	return BuildURL(settings, resource, "", xmrest.NoPage)
}
