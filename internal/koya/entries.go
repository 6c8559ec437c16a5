package koya

import "context"

// ListEntries returns the database entries in server order.
func (k *Koya) ListEntries(ctx context.Context) ([]string, error) {
	result, err := doJSON[[]string](ctx, k, "list_entries", k.endpoints.ListEntries, "", nil)
	if err != nil {
		return nil, err
	}
	if *result == nil {
		return []string{}, nil
	}
	return *result, nil
}

// AppendEntry adds an entry. An empty text is a no-op; the response body is ignored.
func (k *Koya) AppendEntry(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	_, err := doRequestRaw(ctx, k, "append_entry", k.endpoints.AppendEntry, "", entryRequest{Entry: text})
	return err
}

// Health checks that the service is reachable and answering reads.
func (k *Koya) Health(ctx context.Context) error {
	_, err := doRequestRaw(ctx, k, "health", k.endpoints.Health, "", nil)
	return err
}
