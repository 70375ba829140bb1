package session

import (
	"sync"

	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// Cache guarda las últimas listas traídas del backend para no repetir la consulta entre
// pantallas. Cada escritura reemplaza la lista completa; no hay expiración ni límite.
type Cache struct {
	mu sync.RWMutex

	items        []entity.PharmacyItem
	itemsLoaded  bool
	sales        []entity.Sale
	salesLoaded  bool
	consignments []entity.Consignment
	consLoaded   bool
}

// NewCache crea una caché vacía.
func NewCache() *Cache {
	return &Cache{}
}

// Items devuelve una copia de los productos y si la lista ya se cargó.
func (c *Cache) Items() ([]entity.PharmacyItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.PharmacyItem(nil), c.items...), c.itemsLoaded
}

// SetItems reemplaza la lista de productos.
func (c *Cache) SetItems(items []entity.PharmacyItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]entity.PharmacyItem(nil), items...)
	c.itemsLoaded = true
}

// RemoveItem quita un producto de la lista local. Devuelve false si no estaba.
func (c *Cache) RemoveItem(id string) (entity.PharmacyItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return it, true
		}
	}
	return entity.PharmacyItem{}, false
}

// Sales devuelve una copia de las ventas, líneas incluidas, y si la lista ya se cargó.
func (c *Cache) Sales() ([]entity.Sale, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneSales(c.sales), c.salesLoaded
}

// SetSales reemplaza la lista de ventas.
func (c *Cache) SetSales(sales []entity.Sale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sales = cloneSales(sales)
	c.salesLoaded = true
}

func cloneSales(sales []entity.Sale) []entity.Sale {
	if sales == nil {
		return nil
	}
	out := make([]entity.Sale, len(sales))
	for i, s := range sales {
		out[i] = s.Clone()
	}
	return out
}

// Consignments devuelve una copia de las consignaciones y si la lista ya se cargó.
func (c *Cache) Consignments() ([]entity.Consignment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.Consignment(nil), c.consignments...), c.consLoaded
}

// SetConsignments reemplaza la lista de consignaciones.
func (c *Cache) SetConsignments(list []entity.Consignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consignments = append([]entity.Consignment(nil), list...)
	c.consLoaded = true
}

// Loaded informa si las tres listas ya se cargaron al menos una vez.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.itemsLoaded && c.salesLoaded && c.consLoaded
}
