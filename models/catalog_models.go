package models

// StyleTag is a closed-vocabulary category label used for catalog filtering
type StyleTag string

const (
	StyleStreetwear StyleTag = "streetwear"
	StyleCozy       StyleTag = "cozy"
	StyleY2K        StyleTag = "y2k"
	StyleGeneral    StyleTag = "general" // remotely fetched items carry no specific style
)

// StylePriority is the fixed order in which style tags are matched against a
// message. When several tags appear in one message, the first tag in this
// list wins.
var StylePriority = []StyleTag{StyleStreetwear, StyleCozy, StyleY2K}

// CatalogItem represents a purchasable item shown by the widget
type CatalogItem struct {
	Name      string   `json:"name"`
	Style     StyleTag `json:"style"`
	ImageURL  string   `json:"img"`
	Price     string   `json:"price"`
	DetailURL string   `json:"url,omitempty"`
}

// ShopifyProduct represents one product from the storefront products.json feed
type ShopifyProduct struct {
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	Variants []struct {
		Price string `json:"price"`
	} `json:"variants"`
	Image struct {
		Src string `json:"src"`
	} `json:"image"`
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
}

// ShopifyProductsResponse represents the storefront products.json payload
type ShopifyProductsResponse struct {
	Products []ShopifyProduct `json:"products"`
}
