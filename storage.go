package sdict

import "errors"

// ErrBucketNotFound is returned when deleting a bucket that does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// storage is a key-value backend: Bolt on disk, or memory for tests and
// throwaway stores.
type storage interface {
	BeginTx(writable bool) (storageTx, error)
	Close() error
}

type storageTx interface {
	// Bucket returns nil if the bucket doesn't exist.
	Bucket(name string) storageBucket

	// CreateBucket creates a bucket if it doesn't exist.
	CreateBucket(name string) (storageBucket, error)

	DeleteBucket(name string) error

	// BucketNames lists buckets in key order.
	BucketNames() []string

	Commit() error

	// Rollback aborts the transaction. It is safe to call multiple times,
	// and after Commit.
	Rollback() error

	// Size returns the database size in bytes (0 if not applicable).
	Size() int64
}

// storageBucket is a sorted key-value collection. Slices returned by Get and
// by cursors are only valid until the transaction ends.
type storageBucket interface {
	Get(key []byte) []byte
	Put(key, value []byte) error
	Delete(key []byte) error
	Cursor() storageCursor
	Stats() bucketStats
}

type bucketStats struct {
	KeyN        int
	LeafInuse   int64
	LeafAlloc   int64
	BranchAlloc int64
}

func (s bucketStats) TotalAlloc() int64 { return s.BranchAlloc + s.LeafAlloc }

type storageCursor interface {
	First() (key, value []byte)
	Seek(seek []byte) (key, value []byte)
	Next() (key, value []byte)
}
