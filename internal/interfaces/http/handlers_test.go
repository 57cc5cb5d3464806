package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ventas-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/ventas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ventas-api/pkg/jwt"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

type testEnv struct {
	t     *testing.T
	app   *fiber.App
	users *usecase.UserUseCase
}

// newTestEnv arma la API completa sobre el store en memoria.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	images, err := storage.NewLocalImageStore(t.TempDir(), "/images")
	require.NoError(t, err)
	log := logger.Nop()

	userUC := usecase.NewUserUseCase(repos.Users)
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log, nil))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		UserUC:        userUC,
		CategoryUC:    usecase.NewCategoryUseCase(repos.Categories),
		SupplierUC:    usecase.NewSupplierUseCase(repos.Suppliers),
		ProductUC:     usecase.NewProductUseCase(store, repos.Products, repos.Variants, images, log),
		OrderUC:       purchasing.NewOrderUseCase(store, repos.Orders, ports.NopPublisher{}, nil, log),
		SaleUC:        sales.NewSaleUseCase(store, repos.Sales, repos.Users, ports.NopPublisher{}, nil, log, sales.Config{}),
		ReceiptUC:     sales.NewReceiptUseCase(repos.Sales, pdf.NewMarotoPDFGenerator("Tienda")),
		Replenishment: inventory.NewReplenishmentUseCase(store.Analytics(), 5),
		SalesReport:   analytics.NewSalesReportUseCase(store.Analytics()),
		JWTSecret:     testJWTSecret,
	})
	return &testEnv{t: t, app: app, users: userUC}
}

// seedUser crea un usuario y devuelve su header Authorization.
func (e *testEnv) seedUser(email, cedula, role string) string {
	e.t.Helper()
	u, err := e.users.Create(context.Background(), dto.CreateUserRequest{
		Email: email, Cedula: cedula, FullName: "Usuario " + cedula, Password: "secreto123", Role: role,
	})
	require.NoError(e.t, err)
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{
		UserID: u.ID, Email: u.Email, Cedula: u.Cedula, Role: u.Role,
	}, testIssuer, testExpMin)
	require.NoError(e.t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(method, path, auth string, body any) (int, []byte) {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return e.send(req)
}

func (e *testEnv) send(req *http.Request) (int, []byte) {
	e.t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp.StatusCode, out
}

func decodeObject(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

// catalog crea proveedor y producto con una variante de stock inicial dado; devuelve ids.
func (e *testEnv) catalog(manager string, stock int) (supplierID, productID, variantID string) {
	e.t.Helper()
	status, raw := e.do(http.MethodPost, "/api/suppliers", manager, map[string]any{"name": "Textiles Andinos"})
	require.Equal(e.t, http.StatusCreated, status, string(raw))
	supplierID = decodeObject(e.t, raw)["id"].(string)

	status, raw = e.do(http.MethodPost, "/api/products", manager, map[string]any{
		"name":        "Camiseta",
		"price":       "12.50",
		"supplier_id": supplierID,
		"variants":    []map[string]any{{"color": "rojo", "size": "M", "stock": stock}},
	})
	require.Equal(e.t, http.StatusCreated, status, string(raw))
	product := decodeObject(e.t, raw)
	productID = product["id"].(string)
	variants := product["variants"].([]any)
	require.Len(e.t, variants, 1)
	variantID = variants[0].(map[string]any)["id"].(string)
	return supplierID, productID, variantID
}

func (e *testEnv) variantStock(auth, variantID string) float64 {
	e.t.Helper()
	status, raw := e.do(http.MethodGet, "/api/variants/"+variantID, auth, nil)
	require.Equal(e.t, http.StatusOK, status, string(raw))
	return decodeObject(e.t, raw)["stock"].(float64)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_TokenYMe(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("ana@example.com", "1001", "client")

	status, raw := env.do(http.MethodPost, "/api/auth/token", "", map[string]string{
		"email": "ANA@example.com", "password": "secreto123",
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	tok := decodeObject(t, raw)
	assert.Equal(t, "bearer", tok["token_type"])

	status, raw = env.do(http.MethodGet, "/api/auth/me", "Bearer "+tok["access_token"].(string), nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "1001", decodeObject(t, raw)["cedula"])
}

func TestAuth_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("ana@example.com", "1001", "client")

	status, _ := env.do(http.MethodPost, "/api/auth/token", "", map[string]string{
		"email": "ana@example.com", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(http.MethodPost, "/api/auth/token", "", map[string]string{
		"email": "nadie@example.com", "password": "secreto123",
	})
	assert.Equal(t, http.StatusUnauthorized, status, "email desconocido responde igual que password incorrecto")
}

func TestAuth_UsuarioInactivo_Retorna403(t *testing.T) {
	env := newTestEnv(t)
	inactive := false
	_, err := env.users.Create(context.Background(), dto.CreateUserRequest{
		Email: "off@example.com", Cedula: "2002", Password: "secreto123", IsActive: &inactive,
	})
	require.NoError(t, err)

	status, _ := env.do(http.MethodPost, "/api/auth/token", "", map[string]string{
		"email": "off@example.com", "password": "secreto123",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Users
// ──────────────────────────────────────────────────────────────────────────────

func TestUsers_SoloAdminCrea(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser("admin@example.com", "1", "admin")
	manager := env.seedUser("manager@example.com", "2", "manager")

	body := map[string]any{"email": "nuevo@example.com", "cedula": "3", "password": "secreto123"}
	status, _ := env.do(http.MethodPost, "/api/users", manager, body)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := env.do(http.MethodPost, "/api/users", admin, body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	assert.Equal(t, "client", decodeObject(t, raw)["role"])

	status, raw = env.do(http.MethodPost, "/api/users", admin, body)
	assert.Equal(t, http.StatusConflict, status, string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_CrearYCancelarRestituyeStock(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	client := env.seedUser("ana@example.com", "1001", "client")
	_, _, variantID := env.catalog(manager, 10)

	status, raw := env.do(http.MethodPost, "/api/sales", client, map[string]any{
		"customer_cedula": "1001",
		"lines":           []map[string]any{{"variant_id": variantID, "quantity": 2, "unit_price": "12.50"}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	sale := decodeObject(t, raw)
	assert.Equal(t, "pending", sale["status"])
	assert.Equal(t, "25", sale["total"])
	code := sale["code"].(string)
	assert.Len(t, code, 8)
	assert.Equal(t, float64(8), env.variantStock(manager, variantID))

	status, _ = env.do(http.MethodPatch, "/api/sales/"+code+"/status", client, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusForbidden, status, "un cliente no cambia estados")

	status, raw = env.do(http.MethodPatch, "/api/sales/"+code+"/status", manager, map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, float64(10), env.variantStock(manager, variantID))

	status, raw = env.do(http.MethodPatch, "/api/sales/"+code+"/status", manager, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", decodeObject(t, raw)["code"])
}

func TestSales_StockInsuficienteNoDescuenta(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	client := env.seedUser("ana@example.com", "1001", "client")
	_, _, variantID := env.catalog(manager, 3)

	status, raw := env.do(http.MethodPost, "/api/sales", client, map[string]any{
		"customer_cedula": "1001",
		"lines": []map[string]any{
			{"variant_id": variantID, "quantity": 2, "unit_price": "10"},
			{"variant_id": variantID, "quantity": 2, "unit_price": "10"},
		},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeObject(t, raw)["code"])
	assert.Equal(t, float64(3), env.variantStock(manager, variantID))
}

func TestSales_SinLineas_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	client := env.seedUser("ana@example.com", "1001", "client")

	status, raw := env.do(http.MethodPost, "/api/sales", client, map[string]any{"customer_cedula": "1001"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeObject(t, raw)["code"])
}

func TestSales_ListadoPorCedula_AccesoPropio(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	ana := env.seedUser("ana@example.com", "1001", "client")
	env.seedUser("luis@example.com", "1002", "client")

	status, raw := env.do(http.MethodGet, "/api/sales/by-cedula/1001", ana, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Empty(t, decodeObject(t, raw)["items"])

	status, _ = env.do(http.MethodGet, "/api/sales/by-cedula/1002", ana, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(http.MethodGet, "/api/sales/by-cedula/1002", manager, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(http.MethodGet, "/api/sales/by-cedula/9999", manager, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(http.MethodGet, "/api/sales", ana, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSales_ComprobantePDF(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	env.seedUser("ana@example.com", "1001", "client")
	_, _, variantID := env.catalog(manager, 5)

	status, raw := env.do(http.MethodPost, "/api/sales", manager, map[string]any{
		"customer_cedula": "1001",
		"lines":           []map[string]any{{"variant_id": variantID, "quantity": 1, "unit_price": "12.50"}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	code := decodeObject(t, raw)["code"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+code+"/receipt", nil)
	req.Header.Set("Authorization", manager)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	status, _ = env.do(http.MethodGet, "/api/sales/NOEXISTE/receipt", manager, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrders_ConfirmarIngresaStock(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	supplierID, _, variantID := env.catalog(manager, 1)

	status, raw := env.do(http.MethodPost, "/api/purchase-orders", manager, map[string]any{
		"supplier_id": supplierID,
		"lines":       []map[string]any{{"variant_id": variantID, "quantity": 7, "unit_price": "4.00"}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	orderID := decodeObject(t, raw)["id"].(string)
	assert.Equal(t, float64(1), env.variantStock(manager, variantID), "una orden pendiente no mueve stock")

	status, raw = env.do(http.MethodPatch, "/api/purchase-orders/"+orderID+"/status", manager, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, float64(8), env.variantStock(manager, variantID))

	status, _ = env.do(http.MethodPut, "/api/purchase-orders/"+orderID, manager, map[string]any{
		"supplier_id": supplierID,
		"lines":       []map[string]any{{"variant_id": variantID, "quantity": 1, "unit_price": "4.00"}},
	})
	assert.Equal(t, http.StatusConflict, status, "una orden confirmada no se edita")
}

func TestPurchaseOrders_ProveedorDistinto_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	_, _, variantID := env.catalog(manager, 1)

	status, raw := env.do(http.MethodPost, "/api/suppliers", manager, map[string]any{"name": "Otro"})
	require.Equal(t, http.StatusCreated, status)
	otherID := decodeObject(t, raw)["id"].(string)

	status, raw = env.do(http.MethodPost, "/api/purchase-orders", manager, map[string]any{
		"supplier_id": otherID,
		"lines":       []map[string]any{{"variant_id": variantID, "quantity": 1, "unit_price": "1"}},
	})
	assert.Equal(t, http.StatusBadRequest, status, string(raw))

	status, raw = env.do(http.MethodGet, "/api/purchase-orders", manager, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeObject(t, raw)["items"])
}

func TestPurchaseOrders_ClienteSinAcceso(t *testing.T) {
	env := newTestEnv(t)
	client := env.seedUser("ana@example.com", "1001", "client")

	status, _ := env.do(http.MethodGet, "/api/purchase-orders", client, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCategories_NombreDuplicado(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")

	status, _ := env.do(http.MethodPost, "/api/categories", manager, map[string]string{"name": "Camisetas"})
	require.Equal(t, http.StatusCreated, status)

	status, raw := env.do(http.MethodPost, "/api/categories", manager, map[string]string{"name": "Camisetas"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decodeObject(t, raw)["code"])
}

func TestProducts_ProveedorInexistente_Retorna404(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")

	status, _ := env.do(http.MethodPost, "/api/products", manager, map[string]any{
		"name": "Camiseta", "price": "10", "supplier_id": "no-existe",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProducts_SubirImagen(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	_, productID, _ := env.catalog(manager, 1)

	upload := func(contentType string) (int, []byte) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="foto"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("contenido"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/products/"+productID+"/image", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", manager)
		return env.send(req)
	}

	status, raw := upload("image/png")
	require.Equal(t, http.StatusOK, status, string(raw))
	url := decodeObject(t, raw)["image_url"].(string)
	assert.True(t, strings.HasPrefix(url, "/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	status, _ = upload("application/pdf")
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_LowStock(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")
	env.catalog(manager, 2)

	status, raw := env.do(http.MethodGet, "/api/inventory/low-stock?threshold=3", manager, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	report := decodeObject(t, raw)
	suppliers := report["suppliers"].([]any)
	require.Len(t, suppliers, 1)
	item := suppliers[0].(map[string]any)["items"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(4), item["suggested_qty"])

	status, _ = env.do(http.MethodGet, "/api/inventory/low-stock?threshold=abc", manager, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAnalytics_RangoInvalido(t *testing.T) {
	env := newTestEnv(t)
	manager := env.seedUser("manager@example.com", "2", "manager")

	status, _ := env.do(http.MethodGet, "/api/analytics/sales?from=2026-03-10&to=2026-03-01", manager, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw := env.do(http.MethodGet, "/api/analytics/sales?from=2026-03-01&to=2026-03-10", manager, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "0", decodeObject(t, raw)["revenue"])
}
