package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var nonSlug = regexp.MustCompile(`\s+`)

// LoadCSV reads id,title,price,image,description rows (header required, column
// order free). A blank id is derived from the title, and prices may carry a
// leading "$", matching listings that were only ever rendered as text.
func LoadCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["title"]; !ok {
		return nil, errors.New("missing title column")
	}
	if _, ok := index["price"]; !ok {
		return nil, errors.New("missing price column")
	}

	var products []domain.Product
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError already names the line.
			return nil, fmt.Errorf("read rows: %w", err)
		}
		if blank(record) {
			continue
		}
		p, err := parseRow(record, index)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		products = append(products, p)
	}
	return New(products)
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	title := pick(record, index, "title")
	id := pick(record, index, "id")
	if id == "" {
		id = SlugID(title)
	}
	price, err := ParsePrice(pick(record, index, "price"))
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:          id,
		Title:       title,
		Price:       price,
		Image:       pick(record, index, "image"),
		Description: pick(record, index, "description"),
	}
	if p.Description == "" && title != "" {
		p.Description = title + " - Premium handcrafted item"
	}
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// SlugID lowercases a title and joins words with dashes.
func SlugID(title string) string {
	return nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// ParsePrice accepts "25.75" and "$25.75".
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return decimal.Decimal{}, errors.New("price required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", s, err)
	}
	return d, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
