package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CachedDocument is the gorm model backing a content-hash-keyed cache of
// indexed documents. A row is only valid for the exact file content that
// produced it; any change to the source invalidates its hash and a fresh
// row is written.
type CachedDocument struct {
	ContentHash string `gorm:"primaryKey"`
	Document    []byte
}

// Cache stores indexed scip.Document results keyed by the sha256 of their
// source content, so re-running the CLI over an unchanged tree can skip
// re-parsing and re-resolving files it has already indexed. This is a
// driver-level optimization only: the Core has no notion of caching.
type Cache struct {
	db *gorm.DB
}

// OpenCache opens (creating if necessary) a sqlite-backed cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("indexer: opening cache %s: %w", path, err)
	}
	if err := db.AutoMigrate(&CachedDocument{}); err != nil {
		return nil, fmt.Errorf("indexer: migrating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// ContentHash returns the cache key for a file's contents.
func ContentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached Document for hash, if present.
func (c *Cache) Lookup(ctx context.Context, hash string) (*scip.Document, bool, error) {
	var row CachedDocument
	err := c.db.WithContext(ctx).First(&row, "content_hash = ?", hash).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("indexer: looking up cache entry %s: %w", hash, err)
	}

	var doc scip.Document
	if err := proto.Unmarshal(row.Document, &doc); err != nil {
		return nil, false, fmt.Errorf("indexer: decoding cached document %s: %w", hash, err)
	}
	return &doc, true, nil
}

// Store persists doc under hash, overwriting any prior entry.
func (c *Cache) Store(ctx context.Context, hash string, doc *scip.Document) error {
	encoded, err := proto.Marshal(doc)
	if err != nil {
		return fmt.Errorf("indexer: encoding document for cache: %w", err)
	}

	row := CachedDocument{ContentHash: hash, Document: encoded}
	return c.db.WithContext(ctx).Save(&row).Error
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
