package sdict

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/andreyvit/sdict/fields"
	"github.com/andreyvit/sdict/surrogate"
	"github.com/google/uuid"
	"github.com/hengadev/errsx"
	"go.etcd.io/bbolt"
)

const maxKeySize = 32768 // max key size in Bolt

// Store persists containers (anything implementing FieldMarshaler and
// FieldUnmarshaler) as documents named by a bucket and a key.
//
// Each document is a field set encoded with MessagePack and wrapped into
// a checksummed envelope. A Store is safe for concurrent use; every call is
// its own transaction.
type Store struct {
	st      storage
	fmt     *Formatter
	logger  *slog.Logger
	verbose bool
}

type Options struct {
	Logger    *slog.Logger
	Verbose   bool
	IsTesting bool
	MmapSize  int

	Surrogates *surrogate.Registry
	Context    surrogate.Context
}

// Open opens or creates a Bolt database at path.
func Open(path string, opt Options) (*Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("sdict: %w", err)
	}
	return newStore(newBoltStorage(bdb), opt), nil
}

// OpenMemory returns a Store that keeps everything in memory.
func OpenMemory(opt Options) *Store {
	return newStore(newMemStorage(), opt)
}

func newStore(st storage, opt Options) *Store {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Store{
		st: st,
		fmt: NewFormatter(FormatterOptions{
			Surrogates: opt.Surrogates,
			Context:    opt.Context,
			Logger:     opt.Logger,
		}),
		logger:  opt.Logger,
		verbose: opt.Verbose,
	}
}

func (s *Store) Formatter() *Formatter {
	return s.fmt
}

func (s *Store) Close() error {
	return s.st.Close()
}

// Save stores v under bucket/key, creating the bucket if needed, and
// returns the key. An empty key is replaced with a random UUID.
func (s *Store) Save(bucket, key string, v FieldMarshaler) (string, error) {
	if key == "" {
		key = uuid.NewString()
	}
	err := validateName(bucket, key)
	if err != nil {
		return "", err
	}

	fs, err := s.fmt.MarshalFields(v)
	if err != nil {
		return "", fmt.Errorf("%s/%s: %w", bucket, key, err)
	}
	var size int
	err = withValueBytes(func(buf []byte) ([]byte, error) {
		data, err := appendEnvelope(buf, fs)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", bucket, key, err)
		}
		size = len(data)
		err = s.update(func(tx storageTx) error {
			b, err := tx.CreateBucket(bucket)
			if err != nil {
				return err
			}
			return b.Put([]byte(key), data)
		})
		if err != nil {
			return data, fmt.Errorf("sdict: saving %s/%s: %w", bucket, key, err)
		}
		return data, nil
	})
	if err != nil {
		return "", err
	}
	if s.verbose {
		s.logger.Debug("sdict: saved", "bucket", bucket, "key", key, "fields", fs.Len(), "size", size)
	}
	return key, nil
}

// Load restores v from bucket/key, reporting whether the document exists.
func (s *Store) Load(bucket, key string, v FieldUnmarshaler) (bool, error) {
	fs, err := s.LoadFields(bucket, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	err = s.fmt.UnmarshalFields(fs, v)
	if err != nil {
		return true, fmt.Errorf("%s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// LoadFields returns the raw field set stored under bucket/key, failing with
// ErrNotFound if there is none.
func (s *Store) LoadFields(bucket, key string) (*fields.Set, error) {
	var fs *fields.Set
	err := s.view(func(tx storageTx) error {
		var raw []byte
		if b := tx.Bucket(bucket); b != nil {
			raw = b.Get(unsafeBytesFromString(key))
		}
		if raw == nil {
			return keyErr(key, ErrNotFound)
		}
		if s.verbose {
			s.logger.Debug("sdict: loading", "bucket", bucket, "key", key, "size", len(raw))
		}
		var err error
		fs, err = decodeEnvelope(raw)
		if err != nil {
			s.logger.Warn("sdict: corrupt document", "bucket", bucket, "key", key, hexAttr("head", raw[:min(len(raw), 32)]))
			return fmt.Errorf("%s/%s: %w", bucket, key, err)
		}
		return nil
	})
	return fs, err
}

// Keys lists document keys in byte order. A missing bucket has no keys.
func (s *Store) Keys(bucket string) ([]string, error) {
	return s.KeysWithPrefix(bucket, "")
}

// KeysWithPrefix lists document keys starting with prefix, in byte order.
func (s *Store) KeysWithPrefix(bucket, prefix string) ([]string, error) {
	var keys []string
	err := s.view(func(tx storageTx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && bytes.HasPrefix(k, []byte(prefix)); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

// Delete removes bucket/key, failing with ErrNotFound if there is no such
// document.
func (s *Store) Delete(bucket, key string) error {
	return s.update(func(tx storageTx) error {
		b := tx.Bucket(bucket)
		if b == nil || b.Get(unsafeBytesFromString(key)) == nil {
			return keyErr(key, ErrNotFound)
		}
		return b.Delete([]byte(key))
	})
}

// Drop removes a bucket with all its documents.
func (s *Store) Drop(bucket string) error {
	return s.update(func(tx storageTx) error {
		return tx.DeleteBucket(bucket)
	})
}

func (s *Store) Buckets() ([]string, error) {
	var names []string
	err := s.view(func(tx storageTx) error {
		names = tx.BucketNames()
		return nil
	})
	return names, err
}

func (s *Store) update(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	err = f(tx)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) view(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

func validateName(bucket, key string) error {
	var errs errsx.Map
	if bucket == "" {
		errs.Set("bucket", "must not be empty")
	} else if len(bucket) > maxKeySize {
		errs.Set("bucket", fmt.Sprintf("longer than %d bytes", maxKeySize))
	}
	if len(key) > maxKeySize {
		errs.Set("key", fmt.Sprintf("longer than %d bytes", maxKeySize))
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs.AsError()
}
