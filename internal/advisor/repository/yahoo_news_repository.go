package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

type yahooNewsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	feedParser *gofeed.Parser
	feedCache  *cache.Cache
}

// NewYahooNewsRepository creates a NewsRepository backed by the Yahoo
// Finance RSS headline feed.
func NewYahooNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &yahooNewsRepository{
		cfg:        cfg,
		log:        log,
		feedParser: gofeed.NewParser(),
		feedCache:  cache.New(cfg.YahooFinance.CacheTTL, 2*cfg.YahooFinance.CacheTTL),
	}
}

func (r *yahooNewsRepository) GetHeadlines(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error) {
	feedURL := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", r.cfg.YahooFinance.NewsRSSURL, symbol)

	feed, err := r.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	publisher := strings.TrimSpace(feed.Title)
	if publisher == "" {
		publisher = "Yahoo Finance"
	}

	var items []dto.NewsItem
	for _, item := range feed.Items {
		if len(items) >= limit {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		published := item.Published
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC3339)
		}

		items = append(items, dto.NewsItem{
			Title:     title,
			Publisher: publisher,
			Link:      item.Link,
			Published: published,
			Summary:   stripMarkup(item.Description),
		})
	}

	return items, nil
}

func (r *yahooNewsRepository) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if cached, found := r.feedCache.Get(feedURL); found {
		return cached.(*gofeed.Feed), nil
	}

	feed, err := r.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to fetch news feed", logger.StringField("url", feedURL), logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	r.feedCache.Set(feedURL, feed, cache.DefaultExpiration)
	return feed, nil
}

// stripMarkup reduces an RSS description to plain text.
func stripMarkup(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
