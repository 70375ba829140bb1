package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

var _ ports.PharmacyAPI = (*Client)(nil)

type consignmentRequest struct {
	ItemID       string          `json:"item_id"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     int64           `json:"quantity"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Supplier     string          `json:"supplier"`
	PurchaseDate wireTime        `json:"purchase_date"`
	ExpiryDate   wireTime        `json:"expiry_date"`
}

type saleRequest struct {
	CustomerName string          `json:"customer_name"`
	Items        []wireSaleLine  `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// ListItems GET /pharmacy/all-items.
func (c *Client) ListItems(ctx context.Context, token string) ([]entity.PharmacyItem, error) {
	var out []wireItem
	if err := c.do(ctx, http.MethodGet, "/pharmacy/all-items", nil, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("items", listOf[wireItem]{Items: out}); err != nil {
		return nil, err
	}
	items := make([]entity.PharmacyItem, 0, len(out))
	for _, it := range out {
		items = append(items, it.toEntity())
	}
	return items, nil
}

// CreateItem POST /pharmacy/add-item.
func (c *Client) CreateItem(ctx context.Context, token string, in ports.ItemInput) (*entity.PharmacyItem, error) {
	return c.itemRequest(ctx, http.MethodPost, "/pharmacy/add-item", in, token)
}

// UpdateItem PUT /pharmacy/update-item/{id}.
func (c *Client) UpdateItem(ctx context.Context, token, id string, in ports.ItemInput) (*entity.PharmacyItem, error) {
	return c.itemRequest(ctx, http.MethodPut, "/pharmacy/update-item/"+url.PathEscape(id), in, token)
}

func (c *Client) itemRequest(ctx context.Context, method, path string, in ports.ItemInput, token string) (*entity.PharmacyItem, error) {
	var out wireItem
	if err := c.do(ctx, method, path, in, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("item", out); err != nil {
		return nil, err
	}
	item := out.toEntity()
	return &item, nil
}

// ListConsignments GET /pharmacy/all-consignments.
func (c *Client) ListConsignments(ctx context.Context, token string) ([]entity.Consignment, error) {
	var out []wireConsignment
	if err := c.do(ctx, http.MethodGet, "/pharmacy/all-consignments", nil, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("consignments", listOf[wireConsignment]{Items: out}); err != nil {
		return nil, err
	}
	list := make([]entity.Consignment, 0, len(out))
	for _, cs := range out {
		list = append(list, cs.toEntity())
	}
	return list, nil
}

// CreateConsignment POST /pharmacy/add-consignment.
func (c *Client) CreateConsignment(ctx context.Context, token string, in ports.ConsignmentInput) (*entity.Consignment, error) {
	return c.consignmentRequest(ctx, http.MethodPost, "/pharmacy/add-consignment", in, token)
}

// UpdateConsignment PUT /pharmacy/update-consignment/{id}.
func (c *Client) UpdateConsignment(ctx context.Context, token, id string, in ports.ConsignmentInput) (*entity.Consignment, error) {
	return c.consignmentRequest(ctx, http.MethodPut, "/pharmacy/update-consignment/"+url.PathEscape(id), in, token)
}

func (c *Client) consignmentRequest(ctx context.Context, method, path string, in ports.ConsignmentInput, token string) (*entity.Consignment, error) {
	req := consignmentRequest{
		ItemID:       in.ItemID,
		BatchNumber:  in.BatchNumber,
		Quantity:     in.Quantity,
		PurchaseCost: in.PurchaseCost,
		TotalPaid:    in.TotalPaid,
		Supplier:     in.Supplier,
		PurchaseDate: wireTime{in.PurchaseDate},
		ExpiryDate:   wireTime{in.ExpiryDate},
	}
	var out wireConsignment
	if err := c.do(ctx, method, path, req, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("consignment", out); err != nil {
		return nil, err
	}
	cs := out.toEntity()
	return &cs, nil
}

// ListSales GET /pharmacy/all-sales.
func (c *Client) ListSales(ctx context.Context, token string) ([]entity.Sale, error) {
	var out []wireSale
	if err := c.do(ctx, http.MethodGet, "/pharmacy/all-sales", nil, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("sales", listOf[wireSale]{Items: out}); err != nil {
		return nil, err
	}
	sales := make([]entity.Sale, 0, len(out))
	for _, s := range out {
		sales = append(sales, s.toEntity())
	}
	return sales, nil
}

// CreateSale POST /pharmacy/add-sale. Envía el total calculado en el dashboard.
func (c *Client) CreateSale(ctx context.Context, token string, in ports.SaleInput) (*entity.Sale, error) {
	req := saleRequest{
		CustomerName: in.CustomerName,
		Items:        make([]wireSaleLine, 0, len(in.Lines)),
		TotalAmount:  in.TotalAmount,
	}
	for _, l := range in.Lines {
		req.Items = append(req.Items, wireSaleLine{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Total:     l.LineTotal,
		})
	}
	return c.saleRequest(ctx, http.MethodPost, "/pharmacy/add-sale", req, token)
}

// GetSale GET /pharmacy/sale/{id}.
func (c *Client) GetSale(ctx context.Context, token, id string) (*entity.Sale, error) {
	return c.saleRequest(ctx, http.MethodGet, "/pharmacy/sale/"+url.PathEscape(id), nil, token)
}

func (c *Client) saleRequest(ctx context.Context, method, path string, in any, token string) (*entity.Sale, error) {
	var out wireSale
	if err := c.do(ctx, method, path, in, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("sale", out); err != nil {
		return nil, err
	}
	sale := out.toEntity()
	return &sale, nil
}
