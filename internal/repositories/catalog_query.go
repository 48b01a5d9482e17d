package repository

import (
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Args collects positional query arguments while predicates render.
type Args struct {
	values []any
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func (a *Args) Values() []any {
	return a.values
}

// Predicate is one composable catalog filter. Variant-level predicates
// render as EXISTS subqueries so a product is never repeated.
type Predicate interface {
	SQL(args *Args) string
}

type CategoryPredicate struct {
	ID int64
}

func (p CategoryPredicate) SQL(args *Args) string {
	return "p.category_id = " + args.Add(p.ID)
}

// SearchPredicate matches the text anywhere in the product name or code, or
// in the description or material of any variant, ignoring case.
type SearchPredicate struct {
	Text string
}

func (p SearchPredicate) SQL(args *Args) string {
	n := args.Add("%" + escapeLike(p.Text) + "%")

	return "(p.name ILIKE " + n + " OR p.code ILIKE " + n +
		" OR EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND (v.description ILIKE " + n + " OR v.material ILIKE " + n + ")))"
}

type SizePredicate struct {
	Sizes []models.Size
}

func (p SizePredicate) SQL(args *Args) string {
	sizes := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, string(s))
	}

	return "EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND v.size = ANY(" + args.Add(pq.Array(sizes)) + "))"
}

type PriceRangePredicate struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (p PriceRangePredicate) SQL(args *Args) string {
	return "EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND v.unit_price BETWEEN " +
		args.Add(p.Min) + " AND " + args.Add(p.Max) + ")"
}

// PredicatesFor builds the predicate list for an already normalized filter.
func PredicatesFor(filter models.ProductFilter) []Predicate {

	var preds []Predicate

	if filter.CategoryID != nil {
		preds = append(preds, CategoryPredicate{ID: *filter.CategoryID})
	}

	if filter.Search != "" {
		preds = append(preds, SearchPredicate{Text: filter.Search})
	}

	if len(filter.Sizes) > 0 {
		preds = append(preds, SizePredicate{Sizes: filter.Sizes})
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil {
		preds = append(preds, PriceRangePredicate{Min: *filter.MinPrice, Max: *filter.MaxPrice})
	}

	return preds
}

// WhereClause joins the predicates with AND. No predicates yields "".
func WhereClause(preds []Predicate, args *Args) string {

	if len(preds) == 0 {
		return ""
	}

	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, p.SQL(args))
	}

	return " WHERE " + strings.Join(parts, " AND ")
}

var sortClauses = map[models.SortOrder]string{
	models.SortPriceLowToHigh: "min_price ASC NULLS LAST",
	models.SortPriceHighToLow: "min_price DESC NULLS LAST",
	models.SortNewestFirst:    "p.created_at DESC",
	models.SortOldestFirst:    "p.created_at ASC",
}

// OrderByClause maps a sort key to SQL. Unknown keys sort newest first and
// ties are broken by name, then id.
func OrderByClause(sort models.SortOrder) string {

	clause, ok := sortClauses[sort]
	if !ok {
		clause = sortClauses[models.SortNewestFirst]
	}

	return " ORDER BY " + clause + ", p.name ASC, p.id ASC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
