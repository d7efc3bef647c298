package app

// ContentTypeBlog is the classification tag attached to every item.
const ContentTypeBlog = "blog"

// ScrapedItem is one extracted piece of content.
type ScrapedItem struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	SourceURL   string `json:"source_url"`
}

// ScrapeResponse is the body returned for a successful scrape. Site echoes
// the requested URL.
type ScrapeResponse struct {
	Site  string        `json:"site"`
	Items []ScrapedItem `json:"items"`
}

// NewItem builds a ScrapedItem tagged ContentTypeBlog.
func NewItem(title, content, sourceURL string) ScrapedItem {
	return ScrapedItem{
		Title:       title,
		Content:     content,
		ContentType: ContentTypeBlog,
		SourceURL:   sourceURL,
	}
}

// NewResponse wraps items for site. Items is never nil so it encodes as [].
func NewResponse(site string, items ...ScrapedItem) ScrapeResponse {
	if items == nil {
		items = []ScrapedItem{}
	}
	return ScrapeResponse{Site: site, Items: items}
}
