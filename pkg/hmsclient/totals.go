package hmsclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
)

// Cache keys, one snapshot per currency.
const (
	TotalsKeyCDF = "billing_totals_cdf"
	TotalsKeyUSD = "billing_totals_usd"
)

func totalsKey(currency string) string {
	if currency == CurrencyUSD {
		return TotalsKeyUSD
	}
	return TotalsKeyCDF
}

// TotalsStore persists totals snapshots between sessions.
type TotalsStore interface {
	Get(key string) (*TotalsRow, error)
	Set(key string, row TotalsRow) error
}

// MemoryStore is an in-process TotalsStore.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]TotalsRow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]TotalsRow)}
}

func (m *MemoryStore) Get(key string) (*TotalsRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if row, ok := m.rows[key]; ok {
		return &row, nil
	}
	return nil, nil
}

func (m *MemoryStore) Set(key string, row TotalsRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[key] = row
	return nil
}

// FileStore keeps one JSON file per key in a directory, so snapshots
// survive process restarts.
type FileStore struct {
	Dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *FileStore) Get(key string) (*TotalsRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var row TotalsRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (f *FileStore) Set(key string, row TotalsRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path(key), data, 0o644)
}

// TotalsCache is the per-currency snapshot of the billing aggregates.
// Before the first fetch every currency reads as zeroes; each fetch
// overwrites the previous snapshot.
type TotalsCache struct {
	store TotalsStore
}

func NewTotalsCache(store TotalsStore) *TotalsCache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &TotalsCache{store: store}
}

// Put overwrites the cached snapshot with freshly fetched rows.
func (tc *TotalsCache) Put(rows []TotalsRow) error {
	for _, row := range rows {
		if err := tc.store.Set(totalsKey(row.Currency), row); err != nil {
			return err
		}
	}
	return nil
}

// Row returns the cached snapshot for a currency. A currency that was never
// fetched reads as an all-zero row, not an error.
func (tc *TotalsCache) Row(currency string) (TotalsRow, error) {
	row, err := tc.store.Get(totalsKey(currency))
	if err != nil {
		return TotalsRow{}, err
	}
	if row == nil {
		return TotalsRow{
			Currency: currency,
			Total:    decimal.Zero,
			Paid:     decimal.Zero,
			Unpaid:   decimal.Zero,
		}, nil
	}
	return *row, nil
}

// Rows returns the cached snapshot for both currencies in reporting order.
func (tc *TotalsCache) Rows() ([]TotalsRow, error) {
	result := make([]TotalsRow, 0, 2)
	for _, cur := range []string{CurrencyCDF, CurrencyUSD} {
		row, err := tc.Row(cur)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, nil
}
