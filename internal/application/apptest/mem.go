// Package apptest provee implementaciones en memoria de los puertos de
// persistencia para las pruebas de los casos de uso. Mantienen el mismo
// contrato observable que los repositorios de Postgres (orden de listado,
// semántica de "no encontrado" como nil, deduplicación) sin base de datos.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/internal/domain/workflow"
)

// Store agrupa todos los repositorios en memoria y actúa como TxRunner: Run
// ejecuta fn directamente sobre ellos. No simula rollback; las pruebas que
// verifican atomicidad lo hacen observando que los errores cortan antes de
// mutar.
type Store struct {
	Products      *MemProducts
	Lots          *MemLots
	Providers     *MemProviders
	Receptions    *MemReceptions
	WriteOffs     *MemWriteOffs
	Orders        *MemOrders
	Sales         *MemSales
	Notifications *MemNotifications
	Settings      *MemSettings
	Audit         *MemAudit
}

// NewStore construye un Store vacío con los repositorios enlazados.
func NewStore() *Store {
	products := &MemProducts{byID: map[string]*entity.Product{}}
	lots := &MemLots{byID: map[string]*entity.Lot{}, products: products}
	products.lots = lots
	return &Store{
		Products:      products,
		Lots:          lots,
		Providers:     &MemProviders{byID: map[string]*entity.Provider{}},
		Receptions:    &MemReceptions{byID: map[string]*entity.Reception{}},
		WriteOffs:     &MemWriteOffs{byID: map[string]*entity.WriteOff{}},
		Orders:        &MemOrders{byID: map[string]*entity.Order{}},
		Sales:         &MemSales{byID: map[string]*entity.Sale{}},
		Notifications: &MemNotifications{byID: map[string]*entity.Notification{}},
		Settings:      &MemSettings{byKey: map[string]*entity.Setting{}},
		Audit:         &MemAudit{},
	}
}

// Run implementa repository.TxRunner sin transacción real.
func (s *Store) Run(_ context.Context, fn func(r repository.TxRepos) error) error {
	return fn(repository.TxRepos{
		Products:      s.Products,
		Lots:          s.Lots,
		Receptions:    s.Receptions,
		WriteOffs:     s.WriteOffs,
		Orders:        s.Orders,
		Sales:         s.Sales,
		Notifications: s.Notifications,
	})
}

// MemProducts repositorio de productos en memoria.
type MemProducts struct {
	mu   sync.Mutex
	byID map[string]*entity.Product
	lots *MemLots
}

func (m *MemProducts) Create(p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MemProducts) GetByID(id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.StockTotal = m.lots.stockOf(id)
	return &cp, nil
}

func (m *MemProducts) Update(p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MemProducts) SetActive(id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		p.Active = active
	}
	return nil
}

func (m *MemProducts) List(search string, onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, p := range m.byID {
		if onlyActive && !p.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		cp := *p
		cp.StockTotal = m.lots.stockOf(p.ID)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (m *MemProducts) ListLowStock(_ context.Context) ([]repository.LowStockRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.LowStockRow
	for _, p := range m.byID {
		if !p.Active {
			continue
		}
		stock := m.lots.stockOf(p.ID)
		if stock.GreaterThanOrEqual(p.MinStock) {
			continue
		}
		out = append(out, repository.LowStockRow{
			ProductID:  p.ID,
			Name:       p.Name,
			ProviderID: p.ProviderID,
			MinStock:   p.MinStock,
			Stock:      stock,
			UnitCost:   m.lots.lastCostOf(p.ID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemProducts) StockTotal(id string) (decimal.Decimal, error) {
	return m.lots.stockOf(id), nil
}

// MemLots repositorio de lotes en memoria.
type MemLots struct {
	mu       sync.Mutex
	byID     map[string]*entity.Lot
	products *MemProducts
}

func (m *MemLots) Create(l *entity.Lot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *MemLots) GetByID(id string) (*entity.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *MemLots) GetByProductAndExpirationForUpdate(_ context.Context, productID string, expiration time.Time) (*entity.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.byID {
		if l.ProductID == productID && sameDay(l.Expiration, expiration) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemLots) ListByProduct(productID string) ([]*entity.Lot, error) {
	return m.listByProduct(productID, false), nil
}

func (m *MemLots) ListForUpdateByProduct(_ context.Context, productID string) ([]*entity.Lot, error) {
	return m.listByProduct(productID, true), nil
}

func (m *MemLots) listByProduct(productID string, onlyWithStock bool) []*entity.Lot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Lot
	for _, l := range m.byID {
		if l.ProductID != productID {
			continue
		}
		if onlyWithStock && !l.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Expiration.Equal(out[j].Expiration) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Expiration.Before(out[j].Expiration)
	})
	return out
}

func (m *MemLots) GetForUpdate(_ context.Context, id string) (*entity.Lot, error) {
	return m.GetByID(id)
}

func (m *MemLots) UpdateQuantity(l *entity.Lot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *MemLots) ListExpiring(_ context.Context, withinDays int) ([]repository.ExpiringLotRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, withinDays)
	var out []repository.ExpiringLotRow
	for _, l := range m.byID {
		if !l.Quantity.GreaterThan(decimal.Zero) || l.Expiration.After(cutoff) {
			continue
		}
		row := repository.ExpiringLotRow{Lot: *l}
		if p, ok := m.products.byID[l.ProductID]; ok {
			row.ProductName = p.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lot.Expiration.Before(out[j].Lot.Expiration) })
	return out, nil
}

func (m *MemLots) stockOf(productID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.byID {
		if l.ProductID == productID {
			total = total.Add(l.Quantity)
		}
	}
	return total
}

func (m *MemLots) lastCostOf(productID string) decimal.Decimal {
	var last *entity.Lot
	for _, l := range m.byID {
		if l.ProductID != productID {
			continue
		}
		if last == nil || l.CreatedAt.After(last.CreatedAt) {
			last = l
		}
	}
	if last == nil {
		return decimal.Zero
	}
	return last.UnitCost
}

// MemProviders repositorio de proveedores en memoria.
type MemProviders struct {
	mu   sync.Mutex
	byID map[string]*entity.Provider
}

func (m *MemProviders) Create(p *entity.Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MemProviders) GetByID(id string) (*entity.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemProviders) Update(p *entity.Provider) error { return m.Create(p) }

func (m *MemProviders) SetActive(id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		p.Active = active
	}
	return nil
}

func (m *MemProviders) List(onlyActive bool, limit, offset int) ([]*entity.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Provider
	for _, p := range m.byID {
		if onlyActive && !p.Active {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// MemReceptions repositorio de recepciones en memoria.
type MemReceptions struct {
	mu   sync.Mutex
	byID map[string]*entity.Reception
}

func (m *MemReceptions) Create(r *entity.Reception) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	cp.Items = append([]entity.ReceptionItem(nil), r.Items...)
	m.byID[r.ID] = &cp
	return nil
}

func (m *MemReceptions) GetByID(id string) (*entity.Reception, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	cp.Items = append([]entity.ReceptionItem(nil), r.Items...)
	return &cp, nil
}

func (m *MemReceptions) GetForUpdate(_ context.Context, id string) (*entity.Reception, error) {
	return m.GetByID(id)
}

func (m *MemReceptions) UpdateStatus(r *entity.Reception) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[r.ID]
	if !ok {
		return nil
	}
	cur.Status = r.Status
	cur.ApproverID = r.ApproverID
	cur.Reason = r.Reason
	cur.ResolvedAt = r.ResolvedAt
	return nil
}

func (m *MemReceptions) ListPending() ([]*entity.Reception, error) {
	return m.List(repository.ReceptionFilters{Status: workflow.StatusPending})
}

func (m *MemReceptions) List(f repository.ReceptionFilters) ([]*entity.Reception, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Reception
	for _, r := range m.byID {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.ProviderID != "" && r.ProviderID != f.ProviderID {
			continue
		}
		cp := *r
		cp.Items = append([]entity.ReceptionItem(nil), r.Items...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

// MemWriteOffs repositorio de bajas en memoria.
type MemWriteOffs struct {
	mu   sync.Mutex
	byID map[string]*entity.WriteOff
}

func (m *MemWriteOffs) Create(w *entity.WriteOff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.byID[w.ID] = &cp
	return nil
}

func (m *MemWriteOffs) GetByID(id string) (*entity.WriteOff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (m *MemWriteOffs) GetForUpdate(_ context.Context, id string) (*entity.WriteOff, error) {
	return m.GetByID(id)
}

func (m *MemWriteOffs) UpdateStatus(w *entity.WriteOff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[w.ID]
	if !ok {
		return nil
	}
	cur.Status = w.Status
	cur.ApproverID = w.ApproverID
	cur.RejectReason = w.RejectReason
	cur.ResolvedAt = w.ResolvedAt
	return nil
}

func (m *MemWriteOffs) ListPending() ([]*entity.WriteOff, error) {
	return m.List(repository.WriteOffFilters{Status: workflow.StatusPending})
}

func (m *MemWriteOffs) List(f repository.WriteOffFilters) ([]*entity.WriteOff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.WriteOff
	for _, w := range m.byID {
		if f.Status != "" && w.Status != f.Status {
			continue
		}
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

// MemOrders repositorio de pedidos en memoria.
type MemOrders struct {
	mu   sync.Mutex
	byID map[string]*entity.Order
}

func (m *MemOrders) Create(o *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	m.byID[o.ID] = &cp
	return nil
}

func (m *MemOrders) GetByID(id string) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (m *MemOrders) GetForUpdate(_ context.Context, id string) (*entity.Order, error) {
	return m.GetByID(id)
}

func (m *MemOrders) UpdateStatus(o *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[o.ID]
	if !ok {
		return nil
	}
	cur.Status = o.Status
	cur.UpdatedAt = o.UpdatedAt
	return nil
}

func (m *MemOrders) List(f repository.OrderFilters) ([]*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Order
	for _, o := range m.byID {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ProviderID != "" && o.ProviderID != f.ProviderID {
			continue
		}
		if f.AutoGenerated != nil && o.AutoGenerated != *f.AutoGenerated {
			continue
		}
		cp := *o
		cp.Items = append([]entity.OrderItem(nil), o.Items...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (m *MemOrders) HasOpenAutoOrder(_ context.Context, productID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.byID {
		if !o.AutoGenerated || workflow.Orders.IsTerminal(o.Status) {
			continue
		}
		for _, it := range o.Items {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// MemSales repositorio de ventas en memoria.
type MemSales struct {
	mu   sync.Mutex
	byID map[string]*entity.Sale
}

func (m *MemSales) Create(s *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	m.byID[s.ID] = &cp
	return nil
}

func (m *MemSales) GetByID(id string) (*entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (m *MemSales) GetForUpdate(_ context.Context, id string) (*entity.Sale, error) {
	return m.GetByID(id)
}

func (m *MemSales) UpdateStatus(s *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[s.ID]
	if !ok {
		return nil
	}
	cur.Status = s.Status
	cur.CancelledAt = s.CancelledAt
	return nil
}

func (m *MemSales) List(f repository.SaleFilters) ([]*entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Sale
	for _, s := range m.byID {
		if f.CashierID != "" && s.CashierID != f.CashierID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && s.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && s.CreatedAt.After(f.To) {
			continue
		}
		cp := *s
		cp.Items = append([]entity.SaleItem(nil), s.Items...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

// MemNotifications repositorio de notificaciones en memoria.
type MemNotifications struct {
	mu   sync.Mutex
	byID map[string]*entity.Notification
}

func (m *MemNotifications) Create(n *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.byID[n.ID] = &cp
	return nil
}

func (m *MemNotifications) ExistsUnread(_ context.Context, productID, notifType string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.byID {
		if n.Active && n.SeenAt == nil && n.ProductID == productID && n.Type == notifType {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemNotifications) ListActive(limit, offset int) ([]*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Notification
	for _, n := range m.byID {
		if !n.Active {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (m *MemNotifications) MarkRead(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.byID[id]; ok && n.SeenAt == nil {
		now := time.Now()
		n.SeenAt = &now
	}
	return nil
}

func (m *MemNotifications) Dismiss(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.byID[id]; ok {
		n.Active = false
	}
	return nil
}

// MemSettings almacén clave/valor en memoria.
type MemSettings struct {
	mu    sync.Mutex
	byKey map[string]*entity.Setting
}

func (m *MemSettings) Get(key string) (*entity.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byKey[key]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemSettings) Upsert(s *entity.Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byKey[s.Key] = &cp
	return nil
}

func (m *MemSettings) List() ([]*entity.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Setting
	for _, s := range m.byKey {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// MemAudit historial de auditoría en memoria.
type MemAudit struct {
	mu      sync.Mutex
	entries []*entity.AuditEntry
}

func (m *MemAudit) Insert(e *entity.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MemAudit) ListRecent(limit, offset int) ([]*entity.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.AuditEntry, len(m.entries))
	for i, e := range m.entries {
		cp := *e
		out[len(m.entries)-1-i] = &cp
	}
	return page(out, limit, offset), nil
}

// Entries copia de todas las entradas en orden de inserción.
func (m *MemAudit) Entries() []*entity.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
