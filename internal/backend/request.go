package backend

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

type Item = map[string]any

// GetItems reads every row of a table, following limit/offset pages.
// The server may cap rows below the page size, so paging stops only on an empty page
// or on a page shorter than the largest one seen.
func (c *Client) GetItems(ctx context.Context, table string, q url.Values) ([]Item, error) {
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := url.Values{"select": {"*"}}
	for key, values := range q {
		query[key] = values
	}

	var items []Item
	largest := 0
	for offset := 0; ; {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+restPath+table, nil)
		if err != nil {
			return nil, err
		}

		req = c.setHeaders(req)
		req.Header.Set("Accept", contentType)
		req.URL.RawQuery = addPage(query, pageSize, offset).Encode()

		resp, err := c.request(req)
		if err != nil {
			return nil, err
		}

		page, err := parseItemResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", table, err)
		}

		items = append(items, page...)
		offset += len(page)

		if len(page) == 0 || len(page) < largest {
			break
		}
		largest = len(page)

		c.logger.Debug("additional request needed",
			zap.String("table", table),
			zap.Int("offset", offset),
		)
	}

	c.logger.Debug("got rows from backend", zap.String("table", table), zap.Int("rows", len(items)))

	return items, nil
}

func parseItemResponse(resp *http.Response) ([]Item, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var items []Item
	if err := json.NewDecoder(body).Decode(&items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// addPage returns a copy of q limited to one page.
func addPage(q url.Values, limit, offset int) url.Values {
	paged := make(url.Values, len(q)+2)
	for key, values := range q {
		paged[key] = values
	}
	paged.Set("limit", strconv.Itoa(limit))
	paged.Set("offset", strconv.Itoa(offset))
	return paged
}
