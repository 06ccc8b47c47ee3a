// Package notebook provides the in-memory catalog of notebooks shown on the
// dashboard.
package notebook

import (
	"errors"
	"strconv"
	"strings"
	"sync"
)

// ErrNotFound is returned for unknown notebook IDs.
var ErrNotFound = errors.New("notebook not found")

// DefaultName is used when a notebook is created without a name.
const DefaultName = "Untitled Notebook"

// DefaultDescription is shown under notebooks created without a description.
const DefaultDescription = "This is a sample notebook."

// Notebook is a named container of queries.
type Notebook struct {
	ID          string `koanf:"id" yaml:"id"`
	Name        string `koanf:"name" yaml:"name"`
	Description string `koanf:"description" yaml:"description,omitempty"`
}

// Samples returns the notebooks a fresh dashboard starts with.
func Samples() []Notebook {
	names := []string{
		"My First Notebook",
		"Data Analysis Notebook",
		"Machine Learning Experiments",
		"Web Scraping Project",
		"Data Visualization Notebook",
		"Deep Learning Models",
		"Natural Language Processing",
		"Time Series Analysis",
		"Exploratory Data Analysis",
	}
	out := make([]Notebook, len(names))
	for i, name := range names {
		out[i] = Notebook{ID: strconv.Itoa(i + 1), Name: name, Description: DefaultDescription}
	}
	return out
}

// Catalog is an ordered, concurrency-safe set of notebooks.
type Catalog struct {
	mu        sync.RWMutex
	notebooks []Notebook
	byID      map[string]int
	nextID    int
}

// NewCatalog creates a catalog holding the given notebooks in order.
// Notebooks with an empty or duplicate ID are assigned a fresh numeric ID.
func NewCatalog(initial []Notebook) *Catalog {
	c := &Catalog{byID: make(map[string]int)}
	for _, nb := range initial {
		c.add(nb)
	}
	return c
}

// List returns the notebooks in insertion order.
func (c *Catalog) List() []Notebook {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Notebook, len(c.notebooks))
	copy(out, c.notebooks)
	return out
}

// Get returns the notebook with the given ID.
func (c *Catalog) Get(id string) (Notebook, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Notebook{}, ErrNotFound
	}
	return c.notebooks[i], nil
}

// Create appends a new notebook and returns it.
func (c *Catalog) Create(name, description string) Notebook {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(Notebook{Name: name, Description: description})
}

// Len returns the number of notebooks.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.notebooks)
}

// add must be called with mu held (or before the catalog is shared).
func (c *Catalog) add(nb Notebook) Notebook {
	if n, err := strconv.Atoi(nb.ID); err == nil && n > c.nextID {
		c.nextID = n
	}
	if _, dup := c.byID[nb.ID]; nb.ID == "" || dup {
		c.nextID++
		nb.ID = strconv.Itoa(c.nextID)
	}
	c.byID[nb.ID] = len(c.notebooks)
	c.notebooks = append(c.notebooks, nb)
	return nb
}
