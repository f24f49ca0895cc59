package sdict

type BucketStats struct {
	Docs int

	DataSize  int64
	DataAlloc int64
}

// Stats reports document count and space usage of a bucket. A missing
// bucket has zero stats.
func (s *Store) Stats(bucket string) (BucketStats, error) {
	var result BucketStats
	err := s.view(func(tx storageTx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		bs := b.Stats()
		result = BucketStats{
			Docs:      bs.KeyN,
			DataSize:  bs.LeafInuse,
			DataAlloc: bs.TotalAlloc(),
		}
		return nil
	})
	return result, err
}

// Size returns the size of the underlying database file, or 0 for memory
// stores.
func (s *Store) Size() (int64, error) {
	var size int64
	err := s.view(func(tx storageTx) error {
		size = tx.Size()
		return nil
	})
	return size, err
}
