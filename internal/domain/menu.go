package domain

import (
	"fmt"
	"math"
)

// MenuItem is one orderable dish. Prices are whole shillings.
type MenuItem struct {
	Name        string   `json:"name" yaml:"name"`
	Price       int      `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	Icon        string   `json:"icon" yaml:"icon"`
}

// MaxPrice keeps price * MaxQuantity within an int.
const MaxPrice = math.MaxInt / MaxQuantity

// Catalog is the static menu keyed by dish name. Items keep the order they were added in.
type Catalog struct {
	items []MenuItem
	index map[string]int
}

// NewCatalog builds a catalog, rejecting duplicate names and prices outside 1..MaxPrice.
func NewCatalog(items []MenuItem) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(items))}
	for _, item := range items {
		if item.Name == "" {
			return nil, fmt.Errorf("menu item name is required")
		}
		if item.Price <= 0 {
			return nil, fmt.Errorf("menu item %q: price must be positive", item.Name)
		}
		if item.Price > MaxPrice {
			return nil, fmt.Errorf("menu item %q: price must not exceed %d", item.Name, MaxPrice)
		}
		if _, dup := c.index[item.Name]; dup {
			return nil, fmt.Errorf("menu item %q: duplicate name", item.Name)
		}
		c.index[item.Name] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// DefaultCatalog returns the restaurant's standard menu.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]MenuItem{
		{Name: "Wali Maharage", Price: 2000, Description: "Wali na maharage", Ingredients: []string{"mchele", "maharage", "mchuzi"}, Icon: "RICE_BOWL"},
		{Name: "Mihogo", Price: 500, Description: "Mihogo ya kupika", Ingredients: []string{"mihogo", "maji", "chumvi"}, Icon: "RESTAURANT"},
		{Name: "Chapati Maharage", Price: 1500, Description: "Chapati na maharage", Ingredients: []string{"unga", "maharage", "mafuta"}, Icon: "BREAD_SLICE"},
		{Name: "Chai Maziwa", Price: 500, Description: "Chai yenye maziwa", Ingredients: []string{"maji", "chai", "sukari", "maziwa"}, Icon: "COFFEE"},
		{Name: "Ugali Dagaa", Price: 1500, Description: "Ugali na dagaa", Ingredients: []string{"unga wa mahindi", "dagaa", "mchuzi"}, Icon: "KITCHEN"},
		{Name: "Supu", Price: 1000, Description: "Supu ya nyama au mboga", Ingredients: []string{"maji", "nyama/mboga", "viungo"}, Icon: "SOUP_KITCHEN"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the item called name.
func (c *Catalog) Lookup(name string) (MenuItem, bool) {
	i, ok := c.index[name]
	if !ok {
		return MenuItem{}, false
	}
	return c.items[i], true
}

// PriceOf returns the unit price of name, if it is on the menu.
func (c *Catalog) PriceOf(name string) (int, bool) {
	item, ok := c.Lookup(name)
	if !ok {
		return 0, false
	}
	return item.Price, true
}

// Items returns the menu in display order.
func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}
