package pharmacy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Items lista los productos. Con caché cargada no se consulta al backend salvo q.Refresh.
func (uc *PharmacyUseCase) Items(ctx context.Context, sess *session.Session, q dto.ItemQuery) (*dto.ItemListResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	items, fromCache, err := uc.loadItems(ctx, sess, q.Refresh)
	if err != nil {
		return nil, err
	}
	items = filterItems(items, q.Search)
	sortItems(items, q.SortBy, q.Desc)

	out := &dto.ItemListResponse{Items: make([]dto.ItemResponse, 0, len(items)), FromCache: fromCache}
	for _, it := range items {
		out.Items = append(out.Items, toItemResponse(it))
	}
	out.Total = len(out.Items)
	return out, nil
}

// CreateItem da de alta un producto y vuelve a traer la lista.
func (uc *PharmacyUseCase) CreateItem(ctx context.Context, sess *session.Session, in dto.ItemRequest) (*dto.ItemResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	in = normalizeItem(in)
	if err := validateItem(in); err != nil {
		return nil, err
	}
	item, err := uc.api.CreateItem(ctx, sess.Token, toItemInput(in))
	if err != nil {
		return nil, err
	}
	uc.reloadItems(ctx, sess, item)
	uc.log.Info().Str("item_id", item.ID).Str("name", item.Name).Msg("producto creado")
	out := toItemResponse(*item)
	return &out, nil
}

// UpdateItem edita un producto y vuelve a traer la lista.
func (uc *PharmacyUseCase) UpdateItem(ctx context.Context, sess *session.Session, id string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "id es obligatorio")
	}
	in = normalizeItem(in)
	if err := validateItem(in); err != nil {
		return nil, err
	}
	item, err := uc.api.UpdateItem(ctx, sess.Token, id, toItemInput(in))
	if err != nil {
		return nil, err
	}
	uc.reloadItems(ctx, sess, item)
	out := toItemResponse(*item)
	return &out, nil
}

// DeleteItem quita el producto de la lista de la sesión. El backend no ofrece borrado,
// así que el cambio no se persiste y vuelve a aparecer al refrescar.
func (uc *PharmacyUseCase) DeleteItem(_ context.Context, sess *session.Session, id string) (*dto.DeleteItemResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	removed, ok := sess.Cache.RemoveItem(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	uc.log.Warn().
		Str("item_id", id).
		Str("session_id", sess.ID).
		Msg("producto quitado solo de la lista local; el backend no expone borrado")
	return &dto.DeleteItemResponse{
		ID:        id,
		Persisted: false,
		Message:   fmt.Sprintf("%s se quitó de la lista de esta sesión; el backend no permite borrar productos", removed.Name),
	}, nil
}

// loadItems devuelve la lista de la caché o la pide al backend. El bool indica si vino de la caché.
func (uc *PharmacyUseCase) loadItems(ctx context.Context, sess *session.Session, refresh bool) ([]entity.PharmacyItem, bool, error) {
	if !refresh {
		if cached, ok := sess.Cache.Items(); ok && len(cached) > 0 {
			return cached, true, nil
		}
	}
	items, err := uc.api.ListItems(ctx, sess.Token)
	if err != nil {
		return nil, false, err
	}
	sess.Cache.SetItems(items)
	return items, false, nil
}

// reloadItems vuelve a pedir la lista tras una escritura. Si falla, actualiza la caché
// con el producto devuelto por el backend.
func (uc *PharmacyUseCase) reloadItems(ctx context.Context, sess *session.Session, changed *entity.PharmacyItem) {
	items, err := uc.api.ListItems(ctx, sess.Token)
	if err == nil {
		sess.Cache.SetItems(items)
		return
	}
	uc.log.Warn().Err(err).Msg("no se pudo refrescar la lista de productos")
	if changed == nil {
		return
	}
	cached, _ := sess.Cache.Items()
	sess.Cache.SetItems(upsertItem(cached, *changed))
}

func upsertItem(items []entity.PharmacyItem, it entity.PharmacyItem) []entity.PharmacyItem {
	for i := range items {
		if items[i].ID == it.ID {
			items[i] = it
			return items
		}
	}
	return append(items, it)
}

func normalizeItem(in dto.ItemRequest) dto.ItemRequest {
	in.Name = strings.TrimSpace(in.Name)
	in.UnitName = strings.TrimSpace(in.UnitName)
	in.SalesInstructions = strings.TrimSpace(in.SalesInstructions)
	return in
}

func validateItem(in dto.ItemRequest) error {
	var money error
	switch {
	case !in.UnitPrice.IsPositive():
		money = domain.NewValidationError("unit_price", "unit_price debe ser mayor que 0")
	case in.Discount.IsNegative() || in.Discount.GreaterThan(hundred):
		money = domain.NewValidationError("discount", "discount debe estar entre 0 y 100")
	}
	return validation.Merge(validation.Struct(in), money)
}

func toItemInput(in dto.ItemRequest) ports.ItemInput {
	return ports.ItemInput{
		Name:              in.Name,
		UnitName:          in.UnitName,
		UnitPrice:         in.UnitPrice.Round(2),
		Discount:          in.Discount,
		SalesInstructions: in.SalesInstructions,
	}
}

// foldKey pasa a minúsculas y quita tildes para buscar sin distinguir "Acetaminofén" de "acetaminofen".
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

func filterItems(items []entity.PharmacyItem, search string) []entity.PharmacyItem {
	q := foldKey(strings.TrimSpace(search))
	if q == "" {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if strings.Contains(foldKey(it.Name), q) || strings.Contains(foldKey(it.UnitName), q) {
			out = append(out, it)
		}
	}
	return out
}

func sortItems(items []entity.PharmacyItem, by string, desc bool) {
	less := func(a, b entity.PharmacyItem) bool { return foldKey(a.Name) < foldKey(b.Name) }
	switch by {
	case "unit_price":
		less = func(a, b entity.PharmacyItem) bool { return a.UnitPrice.LessThan(b.UnitPrice) }
	case "quantity":
		less = func(a, b entity.PharmacyItem) bool { return a.Quantity < b.Quantity }
	case "created_at":
		less = func(a, b entity.PharmacyItem) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func toItemResponse(it entity.PharmacyItem) dto.ItemResponse {
	out := dto.ItemResponse{
		ID:                it.ID,
		Name:              it.Name,
		UnitName:          it.UnitName,
		UnitPrice:         it.UnitPrice,
		Discount:          it.Discount,
		DiscountedPrice:   it.DiscountedPrice(),
		Quantity:          it.Quantity,
		InStock:           it.Quantity > 0,
		SalesInstructions: it.SalesInstructions,
	}
	if !it.CreatedAt.IsZero() {
		t := it.CreatedAt
		out.CreatedAt = &t
	}
	return out
}
