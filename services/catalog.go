package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"kova/models"

	"github.com/rs/zerolog/log"
)

// fallbackCatalog is served until a storefront fetch succeeds. Six items,
// two per style tag.
var fallbackCatalog = []models.CatalogItem{
	{Name: "Streetwear Oversized Hoodie", Style: models.StyleStreetwear, ImageURL: "https://via.placeholder.com/200", Price: "$45"},
	{Name: "Baggy Cargo Pants", Style: models.StyleStreetwear, ImageURL: "https://via.placeholder.com/200", Price: "$60"},
	{Name: "Cozy Knit Sweater", Style: models.StyleCozy, ImageURL: "https://via.placeholder.com/200", Price: "$50"},
	{Name: "Soft Lounge Joggers", Style: models.StyleCozy, ImageURL: "https://via.placeholder.com/200", Price: "$40"},
	{Name: "Y2K Baby Tee", Style: models.StyleY2K, ImageURL: "https://via.placeholder.com/200", Price: "$25"},
	{Name: "Rhinestone Mini Skirt", Style: models.StyleY2K, ImageURL: "https://via.placeholder.com/200", Price: "$35"},
}

// CatalogService fetches the boutique's live products and holds them as an
// immutable snapshot. Until a fetch succeeds the built-in fallback catalog is
// served, so callers always get something to match against.
type CatalogService struct {
	storeURL   string
	token      string
	httpClient *http.Client

	mu       sync.RWMutex
	snapshot []models.CatalogItem
	loaded   bool
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(storeURL, token string) *CatalogService {
	return &CatalogService{
		storeURL: strings.TrimRight(storeURL, "/"),
		token:    token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LoadAsync kicks off a single best-effort fetch in the background and
// returns a channel that closes when the attempt finishes, loaded or not.
// Callers that care about readiness can wait on it; everyone else keeps
// getting the fallback snapshot in the meantime.
func (c *CatalogService) LoadAsync() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Load(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Storefront fetch failed, using fallback catalog")
		}
	}()
	return done
}

// Load fetches products.json from the storefront and replaces the snapshot.
// An empty or failed result leaves the previous snapshot in place.
func (c *CatalogService) Load(ctx context.Context) error {
	if c.storeURL == "" {
		return fmt.Errorf("no storefront URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.storeURL+"/products.json", nil)
	if err != nil {
		return fmt.Errorf("failed to create catalog request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storefront returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read catalog response: %w", err)
	}

	var feed models.ShopifyProductsResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return fmt.Errorf("failed to parse catalog response: %w", err)
	}
	if len(feed.Products) == 0 {
		return fmt.Errorf("storefront returned no products")
	}

	items := make([]models.CatalogItem, 0, len(feed.Products))
	for _, product := range feed.Products {
		items = append(items, mapProduct(product))
	}

	c.mu.Lock()
	c.snapshot = items
	c.loaded = true
	c.mu.Unlock()

	log.Info().Int("products", len(items)).Msg("Storefront products loaded")
	return nil
}

// mapProduct converts a storefront product into a catalog item. Remote items
// carry no specific style tag, so they never match a style query.
func mapProduct(p models.ShopifyProduct) models.CatalogItem {
	price := "$?"
	if len(p.Variants) > 0 && p.Variants[0].Price != "" {
		price = p.Variants[0].Price
	}

	img := p.Image.Src
	if img == "" && len(p.Images) > 0 {
		img = p.Images[0].Src
	}

	return models.CatalogItem{
		Name:      p.Title,
		Style:     models.StyleGeneral,
		ImageURL:  img,
		Price:     price,
		DetailURL: "/products/" + p.Handle,
	}
}

// Current returns the most recent successful snapshot, or the fallback
// catalog if no load has ever succeeded.
func (c *CatalogService) Current() []models.CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.loaded {
		return c.snapshot
	}
	return fallbackCatalog
}

// GetStatus returns the status of the catalog service
func (c *CatalogService) GetStatus() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := map[string]interface{}{
		"timeout": c.httpClient.Timeout.String(),
	}

	if c.loaded {
		status["status"] = "loaded"
		status["source"] = "storefront"
		status["products"] = len(c.snapshot)
	} else {
		status["status"] = "fallback"
		status["source"] = "built-in"
		status["products"] = len(fallbackCatalog)
	}

	if c.storeURL != "" {
		status["store_url"] = c.storeURL
	} else {
		status["error"] = "SHOPIFY_STORE_URL not set"
	}

	return status
}
