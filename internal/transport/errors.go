package transport

import "errors"

// ErrInitFailed is returned when the secure transport cannot be initialized.
// This is always fatal to the boot sequence.
var ErrInitFailed = errors.New("transport: secure socket init failed")
