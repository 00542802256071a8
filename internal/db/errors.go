package db

import "errors"

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrNilDB          = errors.New("database connection is nil")
	ErrEmptyPath      = errors.New("database path is empty")
)
