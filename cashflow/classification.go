// Package cashflow derives an indirect-method cash-flow statement and its
// waterfall decomposition from monthly account balances.
package cashflow

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Bucket is a cash-flow classification for an account.
type Bucket string

const (
	BucketCash        Bucket = "cash"
	BucketBank        Bucket = "bank"
	BucketCustomers   Bucket = "customers"
	BucketSuppliers   Bucket = "suppliers"
	BucketInventory   Bucket = "inventory"
	BucketFixedAssets Bucket = "fixedAssets"
	BucketLoans       Bucket = "loans"
)

// bucketOrder fixes iteration order so classification is deterministic.
var bucketOrder = []Bucket{
	BucketCash, BucketBank, BucketCustomers, BucketSuppliers,
	BucketInventory, BucketFixedAssets, BucketLoans,
}

// Classification maps each bucket to the account-key prefixes it covers.
// Matching is by string prefix of the decimal account key; where two
// buckets' prefixes overlap, the longest match wins. Charts of accounts
// differ per tenant, so the table is injected, not a process constant.
type Classification map[Bucket][]string

// DefaultClassification is the standard Hashavshevet chart-of-accounts
// layout: 1xx keys are cash/bank, 16x-17x customers, 18x-19x inventory,
// 20x-22x suppliers, 25x-26x loans.
func DefaultClassification() Classification {
	return Classification{
		BucketCash:        {"1000", "1100", "1200"},
		BucketBank:        {"1300", "1400", "1500"},
		BucketCustomers:   {"1600", "1700"},
		BucketSuppliers:   {"2000", "2100", "2200"},
		BucketInventory:   {"1800", "1900"},
		BucketFixedAssets: {"1001", "1002"},
		BucketLoans:       {"2500", "2600"},
	}
}

// LoadClassification reads a per-tenant classification table from a JSON
// file shaped {"cash": ["1000", ...], ...}. Unknown bucket names are
// rejected so typos do not silently drop accounts.
func LoadClassification(path string) (Classification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classification file %s: %w", path, err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse classification file %s: %w", path, err)
	}

	known := make(map[Bucket]bool, len(bucketOrder))
	for _, b := range bucketOrder {
		known[b] = true
	}

	table := make(Classification, len(raw))
	for name, prefixes := range raw {
		bucket := Bucket(name)
		if !known[bucket] {
			return nil, fmt.Errorf("unknown cash-flow bucket %q in %s", name, path)
		}
		table[bucket] = prefixes
	}
	return table, nil
}

// BucketFor classifies an account key by longest matching prefix.
// The second return is false when no bucket covers the key.
func (c Classification) BucketFor(accountKey int) (Bucket, bool) {
	key := strconv.Itoa(accountKey)

	var best Bucket
	bestLen := -1
	for _, bucket := range bucketOrder {
		for _, prefix := range c[bucket] {
			if strings.HasPrefix(key, prefix) && len(prefix) > bestLen {
				best = bucket
				bestLen = len(prefix)
			}
		}
	}
	return best, bestLen >= 0
}
