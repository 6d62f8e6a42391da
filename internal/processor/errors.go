package processor

import "errors"

// ErrNotReset is returned when a Processor is used before Reset bound it to an entry.
var ErrNotReset = errors.New("processor: not bound to an entry, call Reset first")
