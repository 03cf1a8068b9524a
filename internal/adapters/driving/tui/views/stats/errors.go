package stats

import "errors"

// ErrNoIndexService indicates the TUI was started without index access.
var ErrNoIndexService = errors.New("index service is not available")
