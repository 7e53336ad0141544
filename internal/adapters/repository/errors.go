package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrCacheOpen   = errors.New("snapshot cache open failed")
	ErrCacheRead   = errors.New("snapshot cache read failed")
	ErrCacheWrite  = errors.New("snapshot cache write failed")
	ErrCacheDecode = errors.New("snapshot cache decode failed")
)
