package db

import "errors"

// ErrKeyNotFound signals a cache miss on the key-value store.
var ErrKeyNotFound = errors.New("key not found")
