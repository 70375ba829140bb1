package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-admin/internal/application/admins"
	"github.com/jhoicas/farmacia-admin/internal/application/auth"
	"github.com/jhoicas/farmacia-admin/internal/application/clinic"
	"github.com/jhoicas/farmacia-admin/internal/application/pharmacy"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/profile"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
	"github.com/jhoicas/farmacia-admin/internal/infrastructure/backend"
	"github.com/jhoicas/farmacia-admin/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/farmacia-admin/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/farmacia-admin/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret = "test-secret-key-for-unit-tests"
	testCookie = "farmacia_session"
	testIssuer = "farmacia-admin-test"
)

var (
	superadmin = entity.User{ID: "sa", FirstName: "Sara", LastName: "Admin", Email: "sara@farmacia.test", Role: entity.RoleSuperAdmin}
	counter    = entity.User{ID: "mo", FirstName: "Mostrador", Email: "mostrador@farmacia.test", Role: entity.RoleAdmin, Permission: entity.PermissionOverTheCounter}
	clinician  = entity.User{ID: "cl", FirstName: "Clínica", Email: "clinica@farmacia.test", Role: entity.RoleAdmin, Permission: entity.PermissionOutDoorPatient}
)

// fakeBackend implementa los puertos del backend; los métodos no usados quedan en nil
// y harían panic si algún handler los llamara.
type fakeBackend struct {
	ports.AuthAPI
	ports.UsersAPI
	ports.PharmacyAPI
	ports.ClinicAPI

	mu    sync.Mutex
	calls map[string]int

	user         entity.User
	loginErr     error
	items        []entity.PharmacyItem
	sales        []entity.Sale
	listItemsErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls: map[string]int{},
		user:  superadmin,
		items: []entity.PharmacyItem{
			{ID: "A", Name: "Amoxicilina", UnitName: "caja", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 10},
			{ID: "B", Name: "Bicarbonato", UnitName: "sobre", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 3},
		},
	}
}

func (f *fakeBackend) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (*ports.LoginResult, error) {
	f.hit("Login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	u := f.user
	u.Email = email
	return &ports.LoginResult{Token: "backend-token", User: u}, nil
}

func (f *fakeBackend) Profile(_ context.Context, _ string) (*entity.User, error) {
	f.hit("Profile")
	u := f.user
	return &u, nil
}

func (f *fakeBackend) ListUsers(_ context.Context, _ string) ([]entity.User, error) {
	f.hit("ListUsers")
	return []entity.User{superadmin, counter}, nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, _, _ string) error {
	f.hit("DeleteUser")
	return nil
}

func (f *fakeBackend) ListItems(_ context.Context, _ string) ([]entity.PharmacyItem, error) {
	f.hit("ListItems")
	if f.listItemsErr != nil {
		return nil, f.listItemsErr
	}
	return append([]entity.PharmacyItem(nil), f.items...), nil
}

func (f *fakeBackend) ListSales(_ context.Context, _ string) ([]entity.Sale, error) {
	f.hit("ListSales")
	return append([]entity.Sale(nil), f.sales...), nil
}

func (f *fakeBackend) CreateSale(_ context.Context, _ string, in ports.SaleInput) (*entity.Sale, error) {
	f.hit("CreateSale")
	return &entity.Sale{ID: "S-new", CustomerName: in.CustomerName, Lines: in.Lines, TotalAmount: in.TotalAmount}, nil
}

func (f *fakeBackend) GetSale(_ context.Context, _, id string) (*entity.Sale, error) {
	f.hit("GetSale")
	for _, s := range f.sales {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, &backend.APIError{Status: http.StatusNotFound, Message: "venta no encontrada"}
}

// buildTestApp arma el router completo con los casos de uso reales sobre el backend falso.
func buildTestApp(t *testing.T, api *fakeBackend) (*fiber.App, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	log := zerolog.Nop()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(api, store, time.Hour, log),
		ProfileUC:  profile.NewProfileUseCase(api, store, log),
		PharmacyUC: pharmacy.NewPharmacyUseCase(api, pdf.NewMarotoReceiptGenerator("Farmacia Central", "es"), log),
		AdminsUC:   admins.NewAdminsUseCase(api, log),
		ClinicUC:   clinic.NewClinicUseCase(api, log),
		Sessions:   store,
		Cookie:     apphttp.CookieConfig{Name: testCookie, Secret: testSecret, Issuer: testIssuer},
		Log:        log,
	})
	return app, store
}

// loginAs guarda una sesión para u y devuelve el valor firmado de la cookie.
func loginAs(t *testing.T, store session.Store, u entity.User) string {
	t.Helper()
	sess := session.New("backend-token", u, time.Now(), time.Hour)
	require.NoError(t, store.Save(context.Background(), sess))
	signed, err := pkgjwt.Generate(testSecret, sess.ID, u.ID, u.Role, testIssuer, time.Hour)
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, cookie string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EntregaCookieYPermiteLeerPerfil(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "sara@farmacia.test", "password": "secreto123"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := findCookie(resp, testCookie)
	require.NotNil(t, cookie, "el login debe entregar la cookie de sesión")
	assert.True(t, cookie.HttpOnly)

	body := decodeBody(t, resp)
	assert.NotContains(t, body, "token", "el token del backend no se expone")
	assert.Len(t, body["screens"], 5)
	assert.Equal(t, 1, store.Len())

	resp = doRequest(t, app, http.MethodGet, "/api/profile", nil, cookie.Value)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profileBody := decodeBody(t, resp)
	assert.Equal(t, true, profileBody["can_view_money"])
	assert.Equal(t, 1, api.count("Profile"))
}

func TestLogin_FormularioInvalidoNoLlamaAlBackend(t *testing.T) {
	api := newFakeBackend()
	app, _ := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "no-es-email", "password": ""}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotEmpty(t, body["fields"])
	assert.Zero(t, api.count("Login"))
}

func TestLogin_CredencialesRechazadasPorElBackend(t *testing.T) {
	api := newFakeBackend()
	api.loginErr = &backend.APIError{Status: http.StatusUnauthorized, Message: "credenciales inválidas"}
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "sara@farmacia.test", "password": "mala"}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "BACKEND_ERROR", body["code"])
	assert.Equal(t, "credenciales inválidas", body["message"])
	assert.Zero(t, store.Len())
}

func TestLogout_BorraLaSesion(t *testing.T) {
	app, store := buildTestApp(t, newFakeBackend())
	cookie := loginAs(t, store, superadmin)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := findCookie(resp, testCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Zero(t, store.Len())

	resp = doRequest(t, app, http.MethodGet, "/api/profile", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_SinCookieIgualResponde200(t *testing.T) {
	app, _ := buildTestApp(t, newFakeBackend())
	resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// SessionMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestSession_SinCookieResponde401(t *testing.T) {
	app, _ := buildTestApp(t, newFakeBackend())
	resp := doRequest(t, app, http.MethodGet, "/api/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeBody(t, resp)["code"])
}

func TestSession_CookieConFirmaAjenaResponde401(t *testing.T) {
	app, store := buildTestApp(t, newFakeBackend())
	sess := session.New("backend-token", superadmin, time.Now(), time.Hour)
	require.NoError(t, store.Save(context.Background(), sess))
	forged, err := pkgjwt.Generate("otra-clave", sess.ID, superadmin.ID, superadmin.Role, testIssuer, time.Hour)
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodGet, "/api/profile", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSession_SesionInexistenteLimpiaLaCookie(t *testing.T) {
	app, _ := buildTestApp(t, newFakeBackend())
	signed, err := pkgjwt.Generate(testSecret, "sesion-borrada", superadmin.ID, superadmin.Role, testIssuer, time.Hour)
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodGet, "/api/profile", nil, signed)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	cleared := findCookie(resp, testCookie)
	require.NotNil(t, cleared, "debe enviarse la cookie vacía")
	assert.Empty(t, cleared.Value)
}

func TestSession_AceptaBearerConElMismoJWT(t *testing.T) {
	app, store := buildTestApp(t, newFakeBackend())
	signed := loginAs(t, store, superadmin)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSession_PropagaRequestID(t *testing.T) {
	app, _ := buildTestApp(t, newFakeBackend())
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireScreen
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireScreen_MostradorBloqueadoEnAdmins(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodGet, "/api/admins", nil, loginAs(t, store, counter))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeBody(t, resp)["code"])
	assert.Zero(t, api.count("ListUsers"))
}

func TestRequireScreen_ClinicoBloqueadoEnFarmacia(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodGet, "/api/pharmacy/items", nil, loginAs(t, store, clinician))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, api.count("ListItems"))
}

func TestRequireScreen_SuperadminAccedeAdmins(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodGet, "/api/admins", nil, loginAs(t, store, superadmin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, decodeBody(t, resp)["total"])
}

func TestAdmins_BorrarDevuelveListaRefrescada(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodDelete, "/api/admins/mo", nil, loginAs(t, store, superadmin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "administrador eliminado", body["message"])
	assert.Equal(t, true, body["refreshed"])
	list, ok := body["admins"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, list["total"])
	assert.Equal(t, 1, api.count("DeleteUser"))
	assert.Equal(t, 1, api.count("ListUsers"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Farmacia
// ──────────────────────────────────────────────────────────────────────────────

func TestPharmacy_ListadoUsaLaCacheDeLaSesion(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)
	cookie := loginAs(t, store, counter)

	resp := doRequest(t, app, http.MethodGet, "/api/pharmacy/items", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["from_cache"])

	resp = doRequest(t, app, http.MethodGet, "/api/pharmacy/items?q=amox", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["from_cache"])
	assert.EqualValues(t, 1, body["total"])
	assert.Equal(t, 1, api.count("ListItems"))
}

func TestPharmacy_EliminarProductoEsSoloLocal(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)
	cookie := loginAs(t, store, counter)

	resp := doRequest(t, app, http.MethodGet, "/api/pharmacy/items", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/pharmacy/items/B", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["persisted"])

	resp = doRequest(t, app, http.MethodGet, "/api/pharmacy/items", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decodeBody(t, resp)["total"])
	assert.Equal(t, 1, api.count("ListItems"), "borrar no debe tocar el backend")
}

func TestPharmacy_VentaSinStockResponde409(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)

	sale := map[string]any{
		"customer_name": "Juan Pérez",
		"lines":         []map[string]any{{"item_id": "B", "quantity": 5}},
	}
	resp := doRequest(t, app, http.MethodPost, "/api/pharmacy/sales", sale, loginAs(t, store, counter))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeBody(t, resp)["code"])
	assert.Zero(t, api.count("CreateSale"))
}

func TestPharmacy_VentaEnviaElTotalCalculado(t *testing.T) {
	api := newFakeBackend()
	app, store := buildTestApp(t, api)

	sale := map[string]any{
		"customer_name": "Juan Pérez",
		"lines": []map[string]any{
			{"item_id": "A", "quantity": 2},
			{"item_id": "B", "quantity": 3},
		},
	}
	resp := doRequest(t, app, http.MethodPost, "/api/pharmacy/sales", sale, loginAs(t, store, counter))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	total, ok := decodeBody(t, resp)["total_amount"].(string)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString(total).Equal(decimal.RequireFromString("35.00")), "total %s", total)
	assert.Equal(t, 1, api.count("CreateSale"))
}

func TestPharmacy_ReciboPDF(t *testing.T) {
	api := newFakeBackend()
	api.sales = []entity.Sale{{
		ID:           "S1",
		CustomerName: "Juan Pérez",
		Lines: []entity.SaleLine{{
			ItemID: "A", ItemName: "Amoxicilina", Quantity: 2,
			UnitPrice: decimal.RequireFromString("10.00"), LineTotal: decimal.RequireFromString("20.00"),
		}},
		TotalAmount: decimal.RequireFromString("20.00"),
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodGet, "/api/pharmacy/sales/S1/receipt", nil, loginAs(t, store, counter))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "recibo-S1.pdf")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestPharmacy_BackendCaidoResponde502(t *testing.T) {
	api := newFakeBackend()
	api.listItemsErr = fmt.Errorf("listar productos: %w", backend.ErrTransport)
	app, store := buildTestApp(t, api)

	resp := doRequest(t, app, http.MethodGet, "/api/pharmacy/items", nil, loginAs(t, store, counter))
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "BACKEND_UNAVAILABLE", decodeBody(t, resp)["code"])
}
