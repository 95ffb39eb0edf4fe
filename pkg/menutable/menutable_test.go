package menutable

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMenu = `# House menu

| Price | Name | Category | Description |
|------:|------|----------|-------------|
| 2.50 | Espresso | Coffee | Double shot |
| 1,80 | Croissant | Bakery | Butter |
| €3.20 | Flat White | Coffee | |
| 2.70 | espresso | Coffee | Again |
`

func TestParse_DetectsDuplicates(t *testing.T) {
	res, err := Parse(sampleMenu)
	require.NoError(t, err)

	require.Len(t, res.Items, 3)
	require.Len(t, res.DuplicateLines, 1)
	assert.Empty(t, res.Errors)

	assert.Equal(t, "Espresso", res.Items[0].Name)
	assert.True(t, res.Items[1].Price.Equal(decimal.RequireFromString("1.80")))
	assert.Equal(t, []int{5, 6, 7}, res.Lines)

	dup := res.DuplicateLines[0]
	assert.Equal(t, 8, dup.Line)
	assert.Equal(t, 5, dup.FirstLine)
	assert.Equal(t, "espresso", dup.Name)
}

func TestParse_ReportsBadRows(t *testing.T) {
	res, err := Parse("| name | price |\n|---|---|\n|  | 1.00 |\n| Mocha | free |\n| Latte | 3 |\n")
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, LineError{Line: 3, Field: "name", Message: "name is required"}, res.Errors[0])
	assert.Equal(t, 4, res.Errors[1].Line)
	assert.Equal(t, "price", res.Errors[1].Field)
}

func TestParse_HeaderErrors(t *testing.T) {
	_, err := Parse("no table here")
	assert.ErrorIs(t, err, ErrNoTable)

	_, err = Parse("| name | category |\n| Latte | Coffee |")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestExportParse_RoundTrip(t *testing.T) {
	rows := []Row{
		{Name: "Espresso", Category: "Coffee", Price: decimal.RequireFromString("2.50"), Description: "Double | strong", Available: true, Visible: true},
		{Name: "Scone", Category: "Bakery", Price: decimal.RequireFromString("2"), Available: false, Visible: true},
		{Name: "Staff tea", Category: "", Price: decimal.Zero, Available: true, Visible: false},
	}

	res, err := Parse(Export(rows))
	require.NoError(t, err)
	require.Len(t, res.Items, len(rows))
	assert.Empty(t, res.DuplicateLines)

	for i, want := range rows {
		got := res.Items[i]
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Description, got.Description)
		assert.Equal(t, want.Available, got.Available)
		assert.Equal(t, want.Visible, got.Visible)
		assert.True(t, want.Price.Equal(got.Price), "price of %s", want.Name)
	}
}
