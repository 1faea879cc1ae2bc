package types

import "github.com/shopspring/decimal"

// CoinDefinition names a coin and the troy ounces of silver it contains.
type CoinDefinition struct {
	Name         string          `json:"name"`
	SilverOunces decimal.Decimal `json:"silver_ounces"`
}

// Catalog is a fixed, ordered list of coin definitions. Positions are 1-based
// and double as menu numbers, so the order must not change between runs.
type Catalog struct {
	coins []CoinDefinition
}

// NewCatalog builds a catalog from the given definitions. The slice is copied.
func NewCatalog(coins ...CoinDefinition) Catalog {
	c := make([]CoinDefinition, len(coins))
	copy(c, coins)
	return Catalog{coins: c}
}

// DefaultCatalog returns the US silver coins tracked by coinshelf.
func DefaultCatalog() Catalog {
	return NewCatalog(
		coin("Morgan Dollar", "0.77344"),
		coin("Peace Dollar", "0.77344"),
		coin("Kennedy Half Dollar", "0.36169"),
		coin("Walking Liberty Half Dollar", "0.36169"),
		coin("Franklin Half Dollar", "0.36169"),
		coin("Barber Half Dollar", "0.36169"),
		coin("Standing Liberty Quarter", "0.18084"),
		coin("Washington Quarter", "0.18084"),
		coin("Barber Quarter", "0.18084"),
		coin("Roosevelt Dime", "0.07234"),
	)
}

func coin(name, ounces string) CoinDefinition {
	return CoinDefinition{Name: name, SilverOunces: decimal.RequireFromString(ounces)}
}

// Len returns the number of coins in the catalog.
func (c Catalog) Len() int { return len(c.coins) }

// List returns a copy of the catalog in menu order.
func (c Catalog) List() []CoinDefinition {
	out := make([]CoinDefinition, len(c.coins))
	copy(out, c.coins)
	return out
}

// Get returns the coin at the 1-based index.
// Returns ErrInvalidChoice when index is outside [1, Len()].
func (c Catalog) Get(index int) (CoinDefinition, error) {
	if index < 1 || index > len(c.coins) {
		return CoinDefinition{}, ErrInvalidChoice
	}
	return c.coins[index-1], nil
}
