package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/storefront-labs/catalog/database"
	"github.com/storefront-labs/catalog/metrics"
	"github.com/storefront-labs/catalog/models"
	"go.uber.org/zap"
)

// ProductSource yields assembled product documents.
type ProductSource interface {
	Products(ctx context.Context, category string) ([]Product, error)
	Product(ctx context.Context, id string) (*Product, error)
}

// ProductReader is the row access LiveStore needs.
type ProductReader interface {
	RelatedReader
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// LiveStore serves products from the relational store.
type LiveStore struct {
	repo    ProductReader
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewLiveStore(repo ProductReader, log *zap.Logger, m *metrics.Metrics) *LiveStore {
	return &LiveStore{repo: repo, log: log.Named("catalog.live"), metrics: m}
}

func (s *LiveStore) Products(ctx context.Context, category string) ([]Product, error) {
	rows, err := s.repo.GetProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.ID) == "" {
			s.log.Warn("skipping product with missing id", zap.String("name", row.Name))
			s.metrics.DroppedProduct("live")
			continue
		}
		products = append(products, Assemble(row, LoadRelated(ctx, s.repo, row.ID, s.log)))
	}
	return products, nil
}

func (s *LiveStore) Product(ctx context.Context, id string) (*Product, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := Assemble(*row, LoadRelated(ctx, s.repo, row.ID, s.log))
	return &p, nil
}

// SnapshotFile serves products from a static snapshot document. The file is
// read on every call.
type SnapshotFile struct {
	path    string
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewSnapshotFile(path string, log *zap.Logger, m *metrics.Metrics) *SnapshotFile {
	return &SnapshotFile{path: path, log: log.Named("catalog.snapshot"), metrics: m}
}

func (s *SnapshotFile) load() (*Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return ParseSnapshot(f)
}

func (s *SnapshotFile) Products(_ context.Context, category string) ([]Product, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}

	products := []Product{}
	for _, sp := range snap.Data.Products {
		if category != models.AllCategory && sp.Category != category {
			continue
		}
		if strings.TrimSpace(sp.ID) == "" {
			s.log.Warn("skipping product with missing id", zap.String("name", sp.Name))
			s.metrics.DroppedProduct("snapshot")
			continue
		}
		products = append(products, Assemble(sp.Rows()))
	}
	return products, nil
}

func (s *SnapshotFile) Product(_ context.Context, id string) (*Product, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, sp := range snap.Data.Products {
		if sp.ID == id {
			p := Assemble(sp.Rows())
			return &p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

// FallbackSource reads from primary and, when that fails for any reason other
// than a missing product, from secondary. If both fail, reads degrade to
// empty results.
type FallbackSource struct {
	primary   ProductSource
	secondary ProductSource
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func NewFallbackSource(primary, secondary ProductSource, log *zap.Logger, m *metrics.Metrics) *FallbackSource {
	return &FallbackSource{
		primary:   primary,
		secondary: secondary,
		log:       log.Named("catalog.fallback"),
		metrics:   m,
	}
}

func (f *FallbackSource) Products(ctx context.Context, category string) ([]Product, error) {
	products, err := f.primary.Products(ctx, category)
	if err == nil {
		return products, nil
	}
	f.fellBack("products", err)

	products, err = f.secondary.Products(ctx, category)
	if err != nil {
		f.log.Error("snapshot fallback failed", zap.String("category", category), zap.Error(err))
		return []Product{}, nil
	}
	return products, nil
}

func (f *FallbackSource) Product(ctx context.Context, id string) (*Product, error) {
	product, err := f.primary.Product(ctx, id)
	if err == nil || errors.Is(err, models.ErrProductNotFound) {
		return product, err
	}
	f.fellBack("product", err)

	product, err = f.secondary.Product(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrProductNotFound) {
			f.log.Error("snapshot fallback failed", zap.String("product_id", id), zap.Error(err))
		}
		return nil, models.ErrProductNotFound
	}
	return product, nil
}

func (f *FallbackSource) fellBack(operation string, err error) {
	reason := "query_error"
	if database.IsConnectionError(err) {
		reason = "unavailable"
	}
	f.log.Warn("live store failed, using snapshot",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	)
	f.metrics.Fallback(operation, reason)
}
