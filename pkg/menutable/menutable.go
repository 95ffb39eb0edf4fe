// Package menutable reads and writes the pipe-delimited markdown tables used
// to move a menu in and out of the back office.
package menutable

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoTable is returned when the input holds no table rows at all
	ErrNoTable = errors.New("menutable: no table found")
	// ErrMissingColumn is returned when the header lacks the name or price column
	ErrMissingColumn = errors.New("menutable: header must contain name and price columns")

	separatorCell = regexp.MustCompile(`^:?-{3,}:?$`)
)

// Row is one menu entry
type Row struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Description string
	Available   bool
	Visible     bool
}

// DuplicateLine is a row whose name already appeared earlier in the table
type DuplicateLine struct {
	Line      int    `json:"line"`
	FirstLine int    `json:"first_line"`
	Name      string `json:"name"`
	Row       Row    `json:"-"`
}

// LineError describes a row that could not be read
type LineError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseResult holds the unique rows, their source lines and whatever was rejected
type ParseResult struct {
	Items          []Row
	Lines          []int
	DuplicateLines []DuplicateLine
	Errors         []LineError
}

type column int

const (
	colName column = iota
	colCategory
	colPrice
	colDescription
	colAvailable
	colVisible
	colUnknown
)

var headerAliases = map[string]column{
	"name":         colName,
	"item":         colName,
	"product":      colName,
	"category":     colCategory,
	"section":      colCategory,
	"price":        colPrice,
	"description":  colDescription,
	"desc":         colDescription,
	"available":    colAvailable,
	"availability": colAvailable,
	"visible":      colVisible,
	"pos visible":  colVisible,
	"pos":          colVisible,
}

// Parse reads a markdown table. The first table row is the header; column
// order is free. Names are compared case-insensitively to find duplicates.
func Parse(text string) (*ParseResult, error) {
	var header []column
	result := &ParseResult{}
	seen := make(map[string]int)

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "|") {
			continue
		}

		cells := splitCells(line)
		if isSeparator(cells) {
			continue
		}

		if header == nil {
			header = make([]column, len(cells))
			hasName, hasPrice := false, false
			for j, cell := range cells {
				col, ok := headerAliases[strings.ToLower(cell)]
				if !ok {
					col = colUnknown
				}
				header[j] = col
				hasName = hasName || col == colName
				hasPrice = hasPrice || col == colPrice
			}
			if !hasName || !hasPrice {
				return nil, ErrMissingColumn
			}
			continue
		}

		row, lineErr := readRow(header, cells)
		if lineErr != nil {
			lineErr.Line = lineNo
			result.Errors = append(result.Errors, *lineErr)
			continue
		}

		key := strings.ToLower(row.Name)
		if first, dup := seen[key]; dup {
			result.DuplicateLines = append(result.DuplicateLines, DuplicateLine{
				Line:      lineNo,
				FirstLine: first,
				Name:      row.Name,
				Row:       row,
			})
			continue
		}
		seen[key] = lineNo
		result.Items = append(result.Items, row)
		result.Lines = append(result.Lines, lineNo)
	}

	if header == nil {
		return nil, ErrNoTable
	}
	return result, nil
}

func readRow(header []column, cells []string) (Row, *LineError) {
	row := Row{Available: true, Visible: true}
	var priceText string

	for j, col := range header {
		value := ""
		if j < len(cells) {
			value = cells[j]
		}
		switch col {
		case colName:
			row.Name = value
		case colCategory:
			row.Category = value
		case colPrice:
			priceText = value
		case colDescription:
			row.Description = value
		case colAvailable:
			row.Available = parseFlag(value, true)
		case colVisible:
			row.Visible = parseFlag(value, true)
		}
	}

	if row.Name == "" {
		return Row{}, &LineError{Field: "name", Message: "name is required"}
	}
	price, err := money.Parse(priceText)
	if err != nil {
		return Row{}, &LineError{Field: "price", Message: fmt.Sprintf("invalid price %q", priceText)}
	}
	row.Price = price
	return row, nil
}

func parseFlag(value string, fallback bool) bool {
	switch strings.ToLower(value) {
	case "yes", "y", "true", "1", "x", "on":
		return true
	case "no", "n", "false", "0", "off":
		return false
	}
	return fallback
}

// splitCells splits a table line on unescaped pipes. "\|" is a literal pipe.
func splitCells(line string) []string {
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = strings.TrimSuffix(line, "|")
	}

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if ch == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	return append(cells, strings.TrimSpace(cur.String()))
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return len(cells) > 0
}

// Export writes rows as a markdown table in a fixed column order
func Export(rows []Row) string {
	var b strings.Builder
	b.WriteString("| Name | Category | Price | Description | Available | POS Visible |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			escape(r.Name),
			escape(r.Category),
			r.Price.StringFixed(2),
			escape(r.Description),
			yesNo(r.Available),
			yesNo(r.Visible),
		)
	}
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
