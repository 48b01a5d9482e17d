package catalogimport

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultSize  = models.SizeM
	DefaultStock = 10

	unknownAttribute = "N/A"
	maxCodeLength    = 64
)

// Record is one entry of the scraped catalog file.
type Record struct {
	ProductName   string   `json:"product_name"`
	ProductPrice  string   `json:"product_price"`
	ProductInfo   []string `json:"product_info"`
	ProductImages []string `json:"product_images"`
}

// categoryKeywords maps an upper-case keyword in the product name to a
// category. When several match, the one listed last wins.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"SHIRT", "Shirts"},
	{"KAMEEZ", "Kameez"},
	{"SHALWAR", "Shalwar"},
	{"TROUSER", "Trousers"},
	{"DUPATTA", "Dupatta"},
	{"SHAWL", "Shawls"},
	{"WAISTCOAT", "Waistcoats"},
	{"KURTA", "Kurta"},
}

var materials = []string{"Cotton", "Lawn", "Linen", "Khaddar", "Karandi", "Wool", "Chiffon", "Silk", "Polyester", "Viscose"}

func ParseRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}

	return records, nil
}

// CleanPrice strips the currency prefix and thousands separators:
// "PKR 1,234.00" becomes 1234.00.
func CleanPrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("PKR\u00a0", "", "PKR ", "", ",", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price format %q", raw)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", raw)
	}

	return price.Round(2), nil
}

func CategoryFor(productName string) string {
	upper := strings.ToUpper(productName)
	category := models.OthersCategory

	for _, k := range categoryKeywords {
		if strings.Contains(upper, k.keyword) {
			category = k.category
		}
	}

	return category
}

func MaterialFor(info []string) string {
	found := unknownAttribute

	for _, material := range materials {
		for _, line := range info {
			if strings.Contains(line, material) {
				found = material
				break
			}
		}
	}

	return found
}

func colorFor(info []string) string {
	if len(info) == 0 {
		return unknownAttribute
	}

	return truncate(strings.TrimSpace(info[0]), 100)
}

// codeFor derives a stable product code from the name.
func codeFor(productName string) string {
	var b strings.Builder
	b.WriteString("IMP")

	dash := true
	for _, r := range strings.ToUpper(productName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash {
				b.WriteByte('-')
				dash = false
			}
			b.WriteRune(r)
			continue
		}
		dash = true
	}

	return truncate(b.String(), maxCodeLength)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
