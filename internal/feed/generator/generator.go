// Package generator drives feed generation: it pages products through
// resolve → rules → filters → map → serialize, persisting progress between
// batches so a run survives restarts and honors cancellation.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"feedforge/internal/feed/channels"
	"feedforge/internal/feed/resolver"
	"feedforge/internal/feed/rules"
	"feedforge/internal/feed/serialize"
	"feedforge/internal/feed/shipping"
	"feedforge/internal/logger"
	"feedforge/internal/models"
)

// Store is the persistence surface the driver needs. internal/store provides
// the gorm implementation.
type Store interface {
	resolver.Source

	Feed(id string) (models.Feed, error)
	SaveFeed(feed *models.Feed) error
	CountProducts(onlyInStock bool) (int64, error)
	ProductPage(offset, limit int, onlyInStock bool) ([]models.Product, error)
	Variations(parentID string) ([]models.Product, error)
	ShippingZones() ([]models.ShippingZone, error)
	TaxRates() ([]models.TaxRate, error)
}

type Generator struct {
	store    Store
	registry *channels.Registry
	quoter   shipping.Quoter
	logger   *logger.Logger
	outDir   string
}

func New(store Store, registry *channels.Registry, quoter shipping.Quoter, log *logger.Logger, outDir string) *Generator {
	return &Generator{store: store, registry: registry, quoter: quoter, logger: log, outDir: outDir}
}

// newResolver snapshots shipping and tax configuration for the duration of
// one run.
func (g *Generator) newResolver() (*resolver.Resolver, error) {
	zones, err := g.store.ShippingZones()
	if err != nil {
		return nil, fmt.Errorf("load shipping zones: %w", err)
	}
	taxes, err := g.store.TaxRates()
	if err != nil {
		return nil, fmt.Errorf("load tax rates: %w", err)
	}
	return resolver.New(g.store, shipping.NewResolver(zones, taxes, g.quoter), taxes), nil
}

// Run processes batches until the feed is complete or cancelled. The status
// flag is re-read between batches, so cancellation takes effect at the next
// batch boundary.
func (g *Generator) Run(ctx context.Context, feedID string) error {
	res, err := g.newResolver()
	if err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		feed, err := g.store.Feed(feedID)
		if err != nil {
			return fmt.Errorf("load feed %s: %w", feedID, err)
		}
		if feed.Status == models.FeedStatusCancelled {
			feed.Offset = 0
			feed.Total = 0
			if err := g.store.SaveFeed(&feed); err != nil {
				return err
			}
			g.logger.Info("feed %s cancelled, progress reset", feedID)
			return nil
		}
		done, err := g.RunBatch(&feed, res)
		if err != nil {
			feed.Status = models.FeedStatusError
			if saveErr := g.store.SaveFeed(&feed); saveErr != nil {
				g.logger.Error("feed %s: persist error status: %v", feedID, saveErr)
			}
			return err
		}
		if done {
			return nil
		}
	}
}

// RunBatch processes one page of products and appends it to the feed file.
// It returns true once the feed is complete.
func (g *Generator) RunBatch(feed *models.Feed, res *resolver.Resolver) (bool, error) {
	schema := g.registry.Lookup(feed.Channel)
	path := g.filePath(feed)

	ser, err := serialize.New(path, *feed, schema)
	if err != nil {
		return false, err
	}

	if feed.Offset == 0 {
		total, err := g.store.CountProducts(feed.OnlyInStock)
		if err != nil {
			return false, fmt.Errorf("count products: %w", err)
		}
		feed.Total = int(total)
		feed.Status = models.FeedStatusProcessing
		feed.FilePath = path
		if err := ser.Begin(); err != nil {
			return false, fmt.Errorf("begin feed file: %w", err)
		}
		if err := g.store.SaveFeed(feed); err != nil {
			return false, err
		}
	}

	batchSize := feed.BatchSize
	if batchSize <= 0 {
		batchSize = 200
	}
	page, err := g.store.ProductPage(feed.Offset, batchSize, feed.OnlyInStock)
	if err != nil {
		return false, fmt.Errorf("page products: %w", err)
	}

	var items []*channels.Mapped
	for _, p := range page {
		mapped, err := g.processProduct(res, p, *feed, schema)
		if err != nil {
			g.logger.Error("feed %s: product %s: %v", feed.ID, p.SKU, err)
			continue
		}
		items = append(items, mapped...)
	}

	if err := ser.Append(items); err != nil {
		return false, fmt.Errorf("append batch: %w", err)
	}

	feed.Offset += len(page)
	done := len(page) < batchSize || feed.Offset >= feed.Total
	if done {
		if err := ser.Finalize(); err != nil {
			return false, err
		}
		now := time.Now()
		feed.Status = models.FeedStatusReady
		feed.LastGenerated = &now
		g.logger.Info("feed %s complete: %d products scanned", feed.ID, feed.Offset)
	}
	if err := g.store.SaveFeed(feed); err != nil {
		return false, err
	}
	return done, nil
}

// processProduct expands one store product into zero or more feed items:
// variable parents fan out into their selected variations and are themselves
// emitted only for channels that accept parents.
func (g *Generator) processProduct(res *resolver.Resolver, p models.Product, feed models.Feed, schema *channels.Schema) ([]*channels.Mapped, error) {
	var out []*channels.Mapped

	switch p.Type {
	case models.ProductTypeVariable:
		if schema.AllowParents || feed.IncludeParents {
			if item, ok, err := g.pipeline(res, p, nil, feed, schema); err != nil {
				return nil, err
			} else if ok {
				out = append(out, item)
			}
		}
		variations, err := g.store.Variations(p.ID)
		if err != nil {
			return nil, fmt.Errorf("variations: %w", err)
		}
		parent := p
		for _, v := range resolver.SelectVariations(parent, variations, feed.VariationMode) {
			item, ok, err := g.pipeline(res, v, &parent, feed, schema)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, item)
			}
		}
	case models.ProductTypeVariation:
		// a variation surfacing on its own has lost its parent
		item, ok, err := g.pipeline(res, p, nil, feed, schema)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	default:
		item, ok, err := g.pipeline(res, p, nil, feed, schema)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// pipeline runs one product through the full transformation chain. ok is
// false when a filter excluded the product.
func (g *Generator) pipeline(res *resolver.Resolver, p models.Product, parent *models.Product, feed models.Feed, schema *channels.Schema) (*channels.Mapped, bool, error) {
	rec, err := res.Resolve(p, parent, feed, schema)
	if err != nil {
		return nil, false, fmt.Errorf("resolve: %w", err)
	}
	if err := rules.Apply(feed.Rules, rec); err != nil {
		g.logger.Debug("feed %s: %v", feed.ID, err)
	}
	included, err := rules.Evaluate(feed.Filters, rec)
	if err != nil {
		return nil, false, fmt.Errorf("filters: %w", err)
	}
	if !included {
		g.logger.Debug("feed %s: product %s excluded by filters", feed.ID, p.SKU)
		return nil, false, nil
	}
	return channels.Map(feed.Mappings, schema, rec), true, nil
}

func (g *Generator) filePath(feed *models.Feed) string {
	if feed.FilePath != "" {
		return feed.FilePath
	}
	return filepath.Join(g.outDir, feed.ID+"."+string(feed.FileFormat))
}
