package catalog_test

import (
	"strings"
	"testing"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_IsTotal(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, c.Verify())

	// Every label offered at one level resolves at the next.
	for _, root := range c.Root() {
		subs, err := c.Lookup(catalog.LevelSubcategory, root.Label)
		require.NoError(t, err, root.Label)
		for _, sub := range subs {
			items, err := c.Lookup(catalog.LevelItem, sub.Label)
			require.NoError(t, err, sub.Label)
			for _, item := range items {
				card, err := c.Detail(item.Label)
				require.NoError(t, err, item.Label)
				assert.NotEmpty(t, card.Title)
			}
		}
	}
}

func TestDefaultCatalog_KnownBranches(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"Men", "Women", "Kids"}, c.Root().Labels())

	men, err := c.Lookup(catalog.LevelSubcategory, "Men")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-Shirts", "PhotoFrames", "Bouquets"}, men.Labels())
	assert.Len(t, men.Gallery(), 3)

	shirts, err := c.Lookup(catalog.LevelItem, "T-Shirts")
	require.NoError(t, err)
	assert.Equal(t, []string{"Orange & Black shirt", "U.S. Polo shirt", "Hooded Neck shirt"}, shirts.Labels())

	card, err := c.Detail("U.S. Polo shirt")
	require.NoError(t, err)
	assert.Equal(t, "U.S. Polo Assn Men Fit Casual T-shirt", card.Title)

	assert.Equal(t, []string{"Add to Cart", "Similar Products"}, c.Actions().Labels())
}

func TestLookup_MissingKeyIsMiscoverage(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	_, err = c.Lookup(catalog.LevelSubcategory, "Elders")
	var ce *chat.CatalogMiscoverageError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "subcategory", ce.Level)
	assert.Equal(t, "Elders", ce.Key)

	_, err = c.Detail("Unknown item")
	assert.True(t, chat.IsCatalogMiscoverage(err))
}

const gappy = `
root:
  - label: Men
  - label: Women
subcategories:
  Men:
    - label: T-Shirts
items:
  T-Shirts:
    - label: Polo
details:
  Other:
    title: Other
actions:
  - label: Add to Cart
`

func TestVerify_ReportsEveryGap(t *testing.T) {
	c, err := catalog.Load(strings.NewReader(gappy))
	require.NoError(t, err)

	err = c.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no subcategory entry for "Women"`)
	assert.Contains(t, err.Error(), `no detail entry for "Polo"`)
}

func TestLoad_RejectsInvalidCatalog(t *testing.T) {
	_, err := catalog.Load(strings.NewReader("root: []\nactions:\n  - label: x\n"))
	assert.Error(t, err)

	_, err = catalog.Load(strings.NewReader("unknown_field: 1\n"))
	assert.Error(t, err)

	bad := `
root:
  - label: Men
subcategories:
  Men:
    - label: T-Shirts
      display:
        name: T-Shirts
        url: not a url
items:
  T-Shirts:
    - label: Polo
details:
  Polo:
    title: Polo
actions:
  - label: Add to Cart
`
	_, err = catalog.Load(strings.NewReader(bad))
	assert.Error(t, err)
}
