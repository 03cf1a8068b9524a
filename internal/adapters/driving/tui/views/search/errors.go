package search

import "errors"

// ErrNoSearchService is reported when the view is asked to search without a backend.
var ErrNoSearchService = errors.New("search: no search service configured")
