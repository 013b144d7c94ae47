package menu

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// Catalog is the process-wide, read-only lookup from item number to menu
// item. A reload re-reads the whole file and swaps the table atomically;
// readers never observe a partially loaded catalog.
type Catalog struct {
	table atomic.Pointer[catalogTable]
}

type catalogTable struct {
	byNumber map[int]models.MenuItem
	ordered  []models.MenuItem
}

// Load reads the menu CSV and builds the catalog. Any missing or malformed
// input is a load error; callers are expected to fail process startup
// rather than run with an empty catalog.
func Load(path string) (*Catalog, error) {
	table, err := readMenuFile(path)
	if err != nil {
		return nil, err
	}

	c := &Catalog{}
	c.table.Store(table)
	return c, nil
}

// Lookup returns the item for the given number.
func (c *Catalog) Lookup(number int) (models.MenuItem, bool) {
	item, ok := c.table.Load().byNumber[number]
	return item, ok
}

// Items returns all items ordered by number.
func (c *Catalog) Items() []models.MenuItem {
	ordered := c.table.Load().ordered
	items := make([]models.MenuItem, len(ordered))
	copy(items, ordered)
	return items
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.table.Load().ordered)
}

// Reload re-reads the menu file and atomically replaces the table. On
// error the previous table stays in place untouched.
func (c *Catalog) Reload(path string) error {
	table, err := readMenuFile(path)
	if err != nil {
		return err
	}
	c.table.Store(table)
	return nil
}

func readMenuFile(path string) (*catalogTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open menu file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 5

	// Header row: numero,nome,descricao,preco,tempo_estimado_minutos
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read menu header: %w", err)
	}

	table := &catalogTable{byNumber: make(map[int]models.MenuItem)}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read menu line %d: %w", line, err)
		}

		item, err := parseMenuRecord(record)
		if err != nil {
			return nil, fmt.Errorf("invalid menu line %d: %w", line, err)
		}

		if _, exists := table.byNumber[item.Number]; exists {
			return nil, fmt.Errorf("invalid menu line %d: duplicate item number %d", line, item.Number)
		}

		table.byNumber[item.Number] = item
		table.ordered = append(table.ordered, item)
	}

	if len(table.ordered) == 0 {
		return nil, fmt.Errorf("menu file %s contains no items", path)
	}

	sort.Slice(table.ordered, func(i, j int) bool {
		return table.ordered[i].Number < table.ordered[j].Number
	})

	return table, nil
}

func parseMenuRecord(record []string) (models.MenuItem, error) {
	number, err := strconv.Atoi(record[0])
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("invalid item number %q: %w", record[0], err)
	}
	if number <= 0 {
		return models.MenuItem{}, fmt.Errorf("item number must be positive, got %d", number)
	}

	price, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("invalid price %q: %w", record[3], err)
	}
	if price < 0 {
		return models.MenuItem{}, fmt.Errorf("price must not be negative, got %v", price)
	}

	prepMinutes, err := strconv.Atoi(record[4])
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("invalid prep time %q: %w", record[4], err)
	}
	if prepMinutes < 0 {
		return models.MenuItem{}, fmt.Errorf("prep time must not be negative, got %d", prepMinutes)
	}

	return models.MenuItem{
		Number:      number,
		Name:        record[1],
		Description: record[2],
		Price:       price,
		PrepMinutes: prepMinutes,
	}, nil
}
