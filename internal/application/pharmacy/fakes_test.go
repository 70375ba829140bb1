package pharmacy_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-admin/internal/application/pharmacy"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

var errBackend = errors.New("backend caído")

// fakeAPI backend en memoria que cuenta las llamadas por operación.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	items        []entity.PharmacyItem
	consignments []entity.Consignment
	sales        []entity.Sale

	lastSale        ports.SaleInput
	lastItem        ports.ItemInput
	lastConsignment ports.ConsignmentInput
	listItemsErr    error
	listSalesErr    error
	createSaleResp  *entity.Sale
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}}
}

func (f *fakeAPI) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ListItems(_ context.Context, _ string) ([]entity.PharmacyItem, error) {
	f.hit("ListItems")
	if f.listItemsErr != nil {
		return nil, f.listItemsErr
	}
	return append([]entity.PharmacyItem(nil), f.items...), nil
}

func (f *fakeAPI) CreateItem(_ context.Context, _ string, in ports.ItemInput) (*entity.PharmacyItem, error) {
	f.hit("CreateItem")
	f.lastItem = in
	it := entity.PharmacyItem{ID: "nuevo", Name: in.Name, UnitName: in.UnitName, UnitPrice: in.UnitPrice, Discount: in.Discount}
	f.items = append(f.items, it)
	return &it, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, _, id string, in ports.ItemInput) (*entity.PharmacyItem, error) {
	f.hit("UpdateItem")
	f.lastItem = in
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Name = in.Name
			f.items[i].UnitPrice = in.UnitPrice
			f.items[i].Discount = in.Discount
			it := f.items[i]
			return &it, nil
		}
	}
	return nil, errors.New("no existe")
}

func (f *fakeAPI) ListConsignments(_ context.Context, _ string) ([]entity.Consignment, error) {
	f.hit("ListConsignments")
	return append([]entity.Consignment(nil), f.consignments...), nil
}

func (f *fakeAPI) CreateConsignment(_ context.Context, _ string, in ports.ConsignmentInput) (*entity.Consignment, error) {
	f.hit("CreateConsignment")
	f.lastConsignment = in
	c := entity.Consignment{ID: "c-nuevo", ItemID: in.ItemID, Quantity: in.Quantity, PurchaseCost: in.PurchaseCost, TotalPaid: in.TotalPaid}
	f.consignments = append(f.consignments, c)
	return &c, nil
}

func (f *fakeAPI) UpdateConsignment(_ context.Context, _, id string, in ports.ConsignmentInput) (*entity.Consignment, error) {
	f.hit("UpdateConsignment")
	f.lastConsignment = in
	c := entity.Consignment{ID: id, ItemID: in.ItemID, Quantity: in.Quantity}
	return &c, nil
}

func (f *fakeAPI) ListSales(_ context.Context, _ string) ([]entity.Sale, error) {
	f.hit("ListSales")
	if f.listSalesErr != nil {
		return nil, f.listSalesErr
	}
	return append([]entity.Sale(nil), f.sales...), nil
}

func (f *fakeAPI) CreateSale(_ context.Context, _ string, in ports.SaleInput) (*entity.Sale, error) {
	f.hit("CreateSale")
	f.lastSale = in
	if f.createSaleResp != nil {
		s := *f.createSaleResp
		return &s, nil
	}
	s := entity.Sale{ID: "v-nueva", CustomerName: in.CustomerName, Lines: in.Lines, TotalAmount: in.TotalAmount}
	f.sales = append(f.sales, s)
	return &s, nil
}

func (f *fakeAPI) GetSale(_ context.Context, _, id string) (*entity.Sale, error) {
	f.hit("GetSale")
	for i := range f.sales {
		if f.sales[i].ID == id {
			s := f.sales[i]
			return &s, nil
		}
	}
	return nil, errors.New("no existe")
}

// fakeReceipts registra lo que se pidió imprimir.
type fakeReceipts struct {
	mu        sync.Mutex
	sale      *entity.Sale
	showMoney bool
	listLen   int
}

func (f *fakeReceipts) SaleReceipt(_ context.Context, sale *entity.Sale, _ entity.User) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sale = sale
	return []byte("%PDF-recibo"), nil
}

func (f *fakeReceipts) ConsignmentReport(_ context.Context, list []entity.Consignment, showMoney bool, _ entity.User, _ time.Time) ([]byte, error) {
	f.showMoney = showMoney
	f.listLen = len(list)
	return []byte("%PDF-reporte"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var (
	superadmin = entity.User{ID: "sa", FirstName: "Sara", Role: entity.RoleSuperAdmin}
	counter    = entity.User{ID: "mo", FirstName: "Mostrador", Role: entity.RoleAdmin, Permission: entity.PermissionOverTheCounter}
	clinician  = entity.User{ID: "cl", FirstName: "Clínica", Role: entity.RoleAdmin, Permission: entity.PermissionOutDoorPatient}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSession(u entity.User) *session.Session {
	return session.New("tok", u, time.Now(), time.Hour)
}

func newUseCase(t *testing.T, api *fakeAPI) (*pharmacy.PharmacyUseCase, *fakeReceipts) {
	t.Helper()
	rec := &fakeReceipts{}
	return pharmacy.NewPharmacyUseCase(api, rec, zerolog.Nop()), rec
}

// catalog dos productos: 20.00 con 10% y 5.00 sin descuento.
func catalog() []entity.PharmacyItem {
	return []entity.PharmacyItem{
		{ID: "A", Name: "Amoxicilina", UnitName: "caja", UnitPrice: dec("20.00"), Discount: dec("10"), Quantity: 10},
		{ID: "B", Name: "Bicarbonato", UnitName: "sobre", UnitPrice: dec("5.00"), Discount: decimal.Zero, Quantity: 3},
	}
}
