package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"freebies/internal/models"

	"github.com/mmcdole/gofeed"
)

// DefaultTimeout ограничивает один запрос ленты.
const DefaultTimeout = 10 * time.Second

// UserAgent отправляется с каждым запросом; main дописывает к нему версию.
var UserAgent = "freebies"

// Source загружает одну ленту по фиксированному URL.
type Source struct {
	url    string
	client *http.Client
	parser *gofeed.Parser
}

// NewSource создаёт источник для url. Если client равен nil, используется клиент с DefaultTimeout.
func NewSource(url string, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Source{url: url, client: client, parser: gofeed.NewParser()}
}

func (s *Source) URL() string {
	return s.url
}

// Fetch загружает ленту, разбирает её (RSS или Atom) и возвращает записи в исходном порядке.
// Пустые поля не проверяются: это решает вызывающая сторона.
func (s *Source) Fetch(ctx context.Context) ([]models.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]models.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		items = append(items, toFeedItem(it))
	}
	return items, nil
}

func toFeedItem(it *gofeed.Item) models.FeedItem {
	desc := it.Description
	if desc == "" {
		desc = it.Content
	}
	return models.FeedItem{
		Title:       it.Title,
		Description: desc,
		Link:        it.Link,
		Published:   strings.TrimSpace(it.Published),
		Author:      authorOf(it),
	}
}

// authorOf берёт первое непустое имя автора: Author, Authors, dc:creator.
// Если у RSS-элемента <author> есть только адрес, возвращается он.
func authorOf(it *gofeed.Item) string {
	if it.Author != nil && it.Author.Name != "" {
		return it.Author.Name
	}
	for _, p := range it.Authors {
		if p != nil && p.Name != "" {
			return p.Name
		}
	}
	if it.DublinCoreExt != nil {
		for _, c := range it.DublinCoreExt.Creator {
			if c != "" {
				return c
			}
		}
	}
	if it.Author != nil && it.Author.Email != "" {
		return it.Author.Email
	}
	return ""
}
