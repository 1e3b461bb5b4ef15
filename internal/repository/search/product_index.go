package search

import (
	"context"
	"fmt"
	"shoply/domain"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProductDocument is the denormalized copy of a product kept in the search
// index. The catalog store stays the source of truth; this is a best-effort
// read accelerator.
type ProductDocument struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      bool    `json:"is_active"`
	Image         string  `json:"image,omitempty"`
	CategoryID    uint    `json:"category_id"`
	CategoryTitle string  `json:"category_title,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

type Query struct {
	Term       string
	CategoryID uint
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
	Ordering   string
	Offset     int
	Limit      int
}

type Result struct {
	Total     int64
	Documents []ProductDocument
}

type ProductIndex struct {
	client *redis.Client
	index  string
	prefix string
}

func NewProductIndex(client *redis.Client, index, prefix string) *ProductIndex {
	return &ProductIndex{
		client: client,
		index:  index,
		prefix: prefix,
	}
}

func (r *ProductIndex) key(id uint) string {
	return r.prefix + strconv.FormatUint(uint64(id), 10)
}

// EnsureIndex creates the RediSearch index over product hash documents. An
// already-existing index is not an error.
func (r *ProductIndex) EnsureIndex(ctx context.Context) error {
	err := r.client.FTCreate(ctx, r.index,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{r.prefix},
		},
		&redis.FieldSchema{FieldName: "title", FieldType: redis.SearchFieldTypeText, Sortable: true},
		&redis.FieldSchema{FieldName: "description", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "price", FieldType: redis.SearchFieldTypeNumeric, Sortable: true},
		&redis.FieldSchema{FieldName: "stock_quantity", FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{FieldName: "is_active", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "category_id", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "created_at", FieldType: redis.SearchFieldTypeNumeric, Sortable: true},
	).Err()
	if err != nil {
		if strings.Contains(err.Error(), "Index already exists") {
			return nil
		}
		return fmt.Errorf("failed to create search index: %w", err)
	}

	return nil
}

// IndexProduct writes or overwrites the product's document. The caller is
// expected to have Category preloaded; a missing category only loses the
// denormalized title.
func (r *ProductIndex) IndexProduct(ctx context.Context, product domain.Product) error {
	categoryTitle := ""
	if product.Category != nil {
		categoryTitle = product.Category.Title
	}

	isActive := "0"
	if product.IsActive {
		isActive = "1"
	}

	fields := map[string]interface{}{
		"title":          product.Title,
		"description":    product.Description,
		"price":          product.Price,
		"stock_quantity": product.StockQuantity,
		"is_active":      isActive,
		"image":          product.Image,
		"category_id":    strconv.FormatUint(uint64(product.CategoryID), 10),
		"category_title": categoryTitle,
		"created_at":     product.CreatedAt.Unix(),
	}

	if err := r.client.HSet(ctx, r.key(product.ID), fields).Err(); err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}

	return nil
}

func (r *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete product document: %w", err)
	}

	return nil
}

var searchOrderings = map[string]redis.FTSearchSortBy{
	"title":       {FieldName: "title", Asc: true},
	"-title":      {FieldName: "title", Desc: true},
	"price":       {FieldName: "price", Asc: true},
	"-price":      {FieldName: "price", Desc: true},
	"created_at":  {FieldName: "created_at", Asc: true},
	"-created_at": {FieldName: "created_at", Desc: true},
}

// Search runs a full-text query against the index. Only active documents are
// ever returned.
func (r *ProductIndex) Search(ctx context.Context, q Query) (Result, error) {
	sortBy, ok := searchOrderings[q.Ordering]
	if !ok {
		sortBy = searchOrderings["-created_at"]
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	res, err := r.client.FTSearchWithArgs(ctx, r.index, BuildQuery(q), &redis.FTSearchOptions{
		SortBy:      []redis.FTSearchSortBy{sortBy},
		LimitOffset: q.Offset,
		Limit:       limit,
	}).Result()
	if err != nil {
		return Result{}, fmt.Errorf("search query failed: %w", err)
	}

	result := Result{Total: int64(res.Total)}
	for _, doc := range res.Docs {
		result.Documents = append(result.Documents, docFromFields(doc.ID, r.prefix, doc.Fields))
	}

	return result, nil
}

// BuildQuery translates query parameters into RediSearch syntax. Exported for
// tests; user input is sanitized down to word characters so it cannot inject
// query operators.
func BuildQuery(q Query) string {
	clauses := []string{"@is_active:{1}"}

	if term := sanitizeTerm(q.Term); term != "" {
		clauses = append([]string{"(" + term + ")"}, clauses...)
	}

	if q.CategoryID != 0 {
		clauses = append(clauses, fmt.Sprintf("@category_id:{%d}", q.CategoryID))
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		min, max := "-inf", "+inf"
		if q.MinPrice != nil {
			min = strconv.FormatFloat(*q.MinPrice, 'f', -1, 64)
		}
		if q.MaxPrice != nil {
			max = strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64)
		}
		clauses = append(clauses, fmt.Sprintf("@price:[%s %s]", min, max))
	}

	if q.InStock {
		clauses = append(clauses, "@stock_quantity:[1 +inf]")
	}

	return strings.Join(clauses, " ")
}

func sanitizeTerm(term string) string {
	var b strings.Builder
	for _, r := range term {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func docFromFields(key, prefix string, fields map[string]string) ProductDocument {
	id, _ := strconv.ParseUint(strings.TrimPrefix(key, prefix), 10, 64)
	price, _ := strconv.ParseFloat(fields["price"], 64)
	stock, _ := strconv.Atoi(fields["stock_quantity"])
	categoryID, _ := strconv.ParseUint(fields["category_id"], 10, 64)
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)

	return ProductDocument{
		ID:            uint(id),
		Title:         fields["title"],
		Description:   fields["description"],
		Price:         price,
		StockQuantity: stock,
		IsActive:      fields["is_active"] == "1",
		Image:         fields["image"],
		CategoryID:    uint(categoryID),
		CategoryTitle: fields["category_title"],
		CreatedAt:     createdAt,
	}
}

// CreatedAtTime converts the indexed unix timestamp back to time.Time for
// response shaping.
func (d ProductDocument) CreatedAtTime() time.Time {
	return time.Unix(d.CreatedAt, 0).UTC()
}
