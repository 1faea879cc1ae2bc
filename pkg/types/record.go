package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecordKey is the primary key of an inventory record.
type RecordKey struct {
	CoinType string `json:"coin_type"`
	Year     int    `json:"year"`
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%s/%d", k.CoinType, k.Year)
}

// InventoryRecord is one (coin type, year) line of the collection.
// SilverOunces is copied from the catalog when the record is created and
// ValuePerCoin is fixed at the spot price of that first write.
type InventoryRecord struct {
	Key          RecordKey       `json:"key"`
	SilverOunces decimal.Decimal `json:"silver_ounces"`
	ValuePerCoin decimal.Decimal `json:"value_per_coin"`
	NumCoins     int             `json:"num_coins"`
	PhotoRef     string          `json:"photo,omitempty"`
}

// Validate checks the fields every backend relies on.
func (r *InventoryRecord) Validate() error {
	if r == nil {
		return ErrInvalidRecord
	}
	if r.Key.CoinType == "" {
		return fmt.Errorf("%w: coin type is empty", ErrInvalidRecord)
	}
	if r.NumCoins < 0 {
		return fmt.Errorf("%w: negative coin count %d", ErrInvalidRecord, r.NumCoins)
	}
	return nil
}
