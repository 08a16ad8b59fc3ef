package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"kova/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsFeed = `{
	"products": [
		{
			"title": "Satin Slip Dress",
			"handle": "satin-slip-dress",
			"variants": [{"price": "$120"}],
			"image": {"src": "https://cdn.example.com/slip.jpg"}
		},
		{
			"title": "Wool Overcoat",
			"handle": "wool-overcoat",
			"variants": [],
			"images": [{"src": "https://cdn.example.com/coat.jpg"}]
		}
	]
}`

func TestFallbackCatalogShape(t *testing.T) {
	catalog := NewCatalogService("", "").Current()

	require.Len(t, catalog, 6)

	counts := map[models.StyleTag]int{}
	for _, item := range catalog {
		counts[item.Style]++
	}
	assert.Equal(t, 2, counts[models.StyleStreetwear])
	assert.Equal(t, 2, counts[models.StyleCozy])
	assert.Equal(t, 2, counts[models.StyleY2K])
}

func TestLoadMapsStorefrontProducts(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products.json", r.URL.Path)
		gotToken = r.Header.Get("X-Shopify-Storefront-Access-Token")
		w.Write([]byte(productsFeed))
	}))
	defer server.Close()

	catalog := NewCatalogService(server.URL, "sf-token")
	require.NoError(t, catalog.Load(context.Background()))
	assert.Equal(t, "sf-token", gotToken)

	items := catalog.Current()
	require.Len(t, items, 2)

	assert.Equal(t, "Satin Slip Dress", items[0].Name)
	assert.Equal(t, "$120", items[0].Price)
	assert.Equal(t, "https://cdn.example.com/slip.jpg", items[0].ImageURL)
	assert.Equal(t, "/products/satin-slip-dress", items[0].DetailURL)
	assert.Equal(t, models.StyleGeneral, items[0].Style)

	// Missing primary image falls back to the images list, missing variant
	// price falls back to the placeholder.
	assert.Equal(t, "$?", items[1].Price)
	assert.Equal(t, "https://cdn.example.com/coat.jpg", items[1].ImageURL)
	assert.Equal(t, models.StyleGeneral, items[1].Style)
}

func TestLoadFailureKeepsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	catalog := NewCatalogService(server.URL, "")
	assert.Error(t, catalog.Load(context.Background()))
	assert.Len(t, catalog.Current(), 6)
}

func TestLoadEmptyFeedKeepsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": []}`))
	}))
	defer server.Close()

	catalog := NewCatalogService(server.URL, "")
	assert.Error(t, catalog.Load(context.Background()))
	assert.Len(t, catalog.Current(), 6)
}

func TestLoadUnparseableFeedKeepsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	catalog := NewCatalogService(server.URL, "")
	assert.Error(t, catalog.Load(context.Background()))
	assert.Len(t, catalog.Current(), 6)
}

func TestLoadAsyncSignalsCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsFeed))
	}))
	defer server.Close()

	catalog := NewCatalogService(server.URL, "")
	<-catalog.LoadAsync()

	assert.Len(t, catalog.Current(), 2)
}

func TestLoadAsyncFailureStillSignals(t *testing.T) {
	catalog := NewCatalogService("http://127.0.0.1:1", "")
	<-catalog.LoadAsync()

	// Attempt finished, fallback still in place.
	assert.Len(t, catalog.Current(), 6)
}
