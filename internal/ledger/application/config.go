package application

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	ledger "lunchledger/internal/ledger/domain"
)

// RestaurantsFile is the YAML shape of the restaurant directory.
type RestaurantsFile struct {
	Restaurants []RestaurantEntry `yaml:"restaurants"`
}

// RestaurantEntry is one configured restaurant. SalesTaxRate is a
// decimal string ("0.0815"); empty means the default rate applies.
type RestaurantEntry struct {
	Name         string `yaml:"name"`
	SalesTaxRate string `yaml:"sales_tax_rate"`
}

// ReloadFunc is invoked with the new directory after a reload.
type ReloadFunc func(map[ledger.RestaurantName]ledger.Restaurant)

// RestaurantLoader reads the restaurant directory from a YAML file and
// watches it for changes.
type RestaurantLoader struct {
	path     string
	mu       sync.RWMutex
	current  map[ledger.RestaurantName]ledger.Restaurant
	onChange []ReloadFunc
}

// NewRestaurantLoader creates a loader and performs the initial load.
// An empty path yields an empty directory with no watching.
func NewRestaurantLoader(path string) (*RestaurantLoader, error) {
	l := &RestaurantLoader{path: path, current: map[ledger.RestaurantName]ledger.Restaurant{}}
	if path == "" {
		return l, nil
	}
	restaurants, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = restaurants
	return l, nil
}

// Restaurants returns the current directory.
func (l *RestaurantLoader) Restaurants() map[ledger.RestaurantName]ledger.Restaurant {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the directory reloads.
func (l *RestaurantLoader) OnChange(fn ReloadFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the file on
// change. Call the returned stop function to clean up.
func (l *RestaurantLoader) Watch() (stop func(), err error) {
	if l.path == "" {
		return func() {}, nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("restaurants watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("restaurants watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					restaurants, err := l.load()
					if err != nil {
						// Keep serving the previous directory.
						continue
					}
					l.mu.Lock()
					l.current = restaurants
					callbacks := append([]ReloadFunc(nil), l.onChange...)
					l.mu.Unlock()
					for _, fn := range callbacks {
						fn(restaurants)
					}
				}
			case <-w.Errors:
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

func (l *RestaurantLoader) load() (map[ledger.RestaurantName]ledger.Restaurant, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read restaurants %s: %w", l.path, err)
	}
	var file RestaurantsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse restaurants %s: %w", l.path, err)
	}
	restaurants := make(map[ledger.RestaurantName]ledger.Restaurant, len(file.Restaurants))
	for _, entry := range file.Restaurants {
		if entry.Name == "" {
			return nil, fmt.Errorf("parse restaurants %s: entry without name", l.path)
		}
		restaurant := ledger.Restaurant{Name: ledger.RestaurantName(entry.Name)}
		if entry.SalesTaxRate != "" {
			rate, err := decimal.NewFromString(entry.SalesTaxRate)
			if err != nil {
				return nil, fmt.Errorf("parse restaurants %s: rate for %s: %w", l.path, entry.Name, err)
			}
			restaurant.SalesTaxRate = &rate
		}
		restaurants[restaurant.Name] = restaurant
	}
	return restaurants, nil
}
