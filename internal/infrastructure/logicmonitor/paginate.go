package logicmonitor

import (
	"context"
	"encoding/json"

	"lm-gateway/internal/domain/interfaces"
)

// FetchAll accumulates every page of a list resource, requesting pages at
// increasing offsets until the first empty page. An empty page is the only
// termination signal; a short page keeps the loop going. On any fetch failure
// the error propagates immediately and no partial accumulation is returned.
func FetchAll(ctx context.Context, fetcher interfaces.PageFetcher, resourcePath string, pageSize int) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for offset := 0; ; offset += pageSize {
		items, err := fetcher.FetchPage(ctx, resourcePath, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return all, nil
		}
		all = append(all, items...)
	}
}
