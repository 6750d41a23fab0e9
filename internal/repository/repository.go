// Package repository holds what the storage backends share.
package repository

import "errors"

// ErrNotFound is returned by key/value backends when a key was never written.
var ErrNotFound = errors.New("key not found")
