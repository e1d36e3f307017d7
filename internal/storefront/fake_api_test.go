package storefront

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const fakeToken = "fake-session-token"

type fakeProduct struct {
	name  string
	price decimal.Decimal
	stock int
}

// fakeAPI 内存版店铺 API，按服务端约定返回信封
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu           sync.Mutex
	products     map[uint]fakeProduct
	lines        []CartLine
	favorites    []FavoriteItem
	promos       map[string]decimal.Decimal
	percentOff   map[string]decimal.Decimal
	profile      Profile
	orders       []Order
	idemKeys     map[string]uint
	calls        []string
	failures     map[string]int
	orderGate    chan struct{}
	orderEntered chan struct{}
	clearGate    chan struct{}
	clearEntered chan struct{}
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fakeAPI{
		t: t,
		products: map[uint]fakeProduct{
			1: {name: "Lace Bra", price: decimal.RequireFromString("50.00"), stock: 10},
			2: {name: "Silk Brief", price: decimal.RequireFromString("30.00"), stock: 10},
			3: {name: "Satin Robe", price: decimal.RequireFromString("80.00"), stock: 10},
		},
		promos: map[string]decimal.Decimal{
			"SAVE20": decimal.RequireFromString("20.00"),
		},
		percentOff: map[string]decimal.Decimal{
			"TEN": decimal.NewFromInt(10),
		},
		profile:  Profile{FirstName: "Olena", LastName: "K", Phone: "+380501112233", Email: "olena@example.com"},
		idemKeys: make(map[string]uint),
		failures: make(map[string]int),
	}

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(f.record, f.auth, f.injectFailure)
	api.GET("/cart", f.getCart)
	api.POST("/cart/add", f.addCart)
	api.DELETE("/cart/:productId", f.removeCart)
	api.DELETE("/cart", f.clearCart)
	api.POST("/cart/apply-promo", f.applyPromo)
	api.GET("/user/profile", f.getProfile)
	api.GET("/checkout/options", f.getOptions)
	api.POST("/order/create", f.createOrder)
	api.GET("/favorites", f.getFavorites)
	api.POST("/favorites/add", f.addFavorite)
	api.DELETE("/favorites/:productId", f.removeFavorite)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) client(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithToken(fakeToken)}
	c, err := NewClient(Config{BaseURL: f.server.URL + "/api/v1", Timeout: 5 * time.Second}, append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func (f *fakeAPI) seedLine(productID uint, quantity int, variant Variant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product := f.products[productID]
	f.lines = append(f.lines, CartLine{
		ProductID: productID,
		Name:      product.name,
		UnitPrice: product.price,
		Quantity:  quantity,
		Size:      variant.Size,
		Color:     variant.Color,
		Stock:     product.stock,
		LineTotal: product.price.Mul(decimal.NewFromInt(int64(quantity))),
	})
}

func (f *fakeAPI) failNext(route string, status int) {
	f.mu.Lock()
	f.failures[route] = status
	f.mu.Unlock()
}

func (f *fakeAPI) callCount(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if call == route {
			count++
		}
	}
	return count
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) serverLines() []CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CartLine(nil), f.lines...)
}

func routeKey(c *gin.Context) string {
	return c.Request.Method + " " + c.FullPath()
}

func (f *fakeAPI) record(c *gin.Context) {
	f.mu.Lock()
	f.calls = append(f.calls, routeKey(c))
	f.mu.Unlock()
	c.Next()
}

func (f *fakeAPI) auth(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+fakeToken {
		respondFail(c, http.StatusUnauthorized, "Please sign in to continue", nil)
		c.Abort()
		return
	}
	c.Next()
}

func (f *fakeAPI) injectFailure(c *gin.Context) {
	f.mu.Lock()
	status, ok := f.failures[routeKey(c)]
	if ok {
		delete(f.failures, routeKey(c))
	}
	f.mu.Unlock()
	if ok {
		respondFail(c, status, "injected failure", nil)
		c.Abort()
		return
	}
	c.Next()
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"status_code": 0, "msg": "success", "data": data})
}

func respondFail(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, gin.H{"status_code": status, "msg": msg, "data": data})
}

func (f *fakeAPI) getCart(c *gin.Context) {
	respondOK(c, f.serverLines())
}

func (f *fakeAPI) addCart(c *gin.Context) {
	var req struct {
		ProductID uint   `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "bad request", nil)
		return
	}
	f.mu.Lock()
	product, found := f.products[req.ProductID]
	if !found {
		f.mu.Unlock()
		respondFail(c, http.StatusNotFound, "product not found", nil)
		return
	}
	idx := -1
	for i, line := range f.lines {
		if line.ProductID == req.ProductID && line.Size == req.Size && line.Color == req.Color {
			idx = i
			break
		}
	}
	current := 0
	if idx >= 0 {
		current = f.lines[idx].Quantity
	}
	next := current + req.Quantity
	if next < 1 {
		f.mu.Unlock()
		respondFail(c, http.StatusBadRequest, "validation failed", gin.H{"fields": gin.H{"quantity": "error.quantity_invalid"}})
		return
	}
	line := CartLine{
		ProductID: req.ProductID,
		Name:      product.name,
		UnitPrice: product.price,
		Quantity:  next,
		Size:      req.Size,
		Color:     req.Color,
		Stock:     product.stock,
		LineTotal: product.price.Mul(decimal.NewFromInt(int64(next))),
	}
	if idx >= 0 {
		f.lines[idx] = line
	} else {
		f.lines = append(f.lines, line)
	}
	lines := append([]CartLine(nil), f.lines...)
	f.mu.Unlock()
	respondOK(c, lines)
}

func (f *fakeAPI) removeCart(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	size, hasSize := c.GetQuery("size")
	color, hasColor := c.GetQuery("color")
	f.mu.Lock()
	kept := f.lines[:0]
	for _, line := range f.lines {
		match := line.ProductID == uint(id)
		if hasSize || hasColor {
			match = match && line.Size == size && line.Color == color
		}
		if !match {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	lines := append([]CartLine(nil), f.lines...)
	f.mu.Unlock()
	respondOK(c, lines)
}

func (f *fakeAPI) clearCart(c *gin.Context) {
	f.mu.Lock()
	entered, gate := f.clearEntered, f.clearGate
	f.mu.Unlock()
	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			return
		}
	}

	f.mu.Lock()
	f.lines = nil
	f.mu.Unlock()
	respondOK(c, gin.H{"cleared": true})
}

func (f *fakeAPI) applyPromo(c *gin.Context) {
	var req struct {
		PromoCode string `json:"promoCode"`
	}
	_ = c.ShouldBindJSON(&req)
	f.mu.Lock()
	items := decimal.Zero
	for _, line := range f.lines {
		items = items.Add(line.LineTotal)
	}
	discount, found := f.discountLocked(req.PromoCode, items)
	f.mu.Unlock()
	if !found {
		respondFail(c, http.StatusBadRequest, "Promo code is invalid", nil)
		return
	}
	respondOK(c, PromoQuote{PromoCode: req.PromoCode, DiscountAmount: discount})
}

// discountLocked 固定金额码直接返回，百分比码按商品金额计算
func (f *fakeAPI) discountLocked(code string, items decimal.Decimal) (decimal.Decimal, bool) {
	if amount, ok := f.promos[code]; ok {
		return amount, true
	}
	if pct, ok := f.percentOff[code]; ok {
		return items.Mul(pct).Div(decimal.NewFromInt(100)).Round(2), true
	}
	return decimal.Zero, false
}

func (f *fakeAPI) getProfile(c *gin.Context) {
	f.mu.Lock()
	profile := f.profile
	f.mu.Unlock()
	respondOK(c, profile)
}

func (f *fakeAPI) getOptions(c *gin.Context) {
	respondOK(c, CheckoutOptions{
		Currency: "USD",
		DeliveryMethods: []DeliveryOption{
			{Method: "post_office", Cost: decimal.RequireFromString("35.00")},
			{Method: "courier", Cost: decimal.RequireFromString("35.00")},
			{Method: "pickup", Cost: decimal.Zero},
			{Method: "international", Cost: decimal.RequireFromString("120.00")},
		},
		PaymentMethods: []string{"apple_pay", "google_pay", "credit_card", "cash"},
	})
}

func (f *fakeAPI) createOrder(c *gin.Context) {
	f.mu.Lock()
	entered, gate := f.orderEntered, f.orderGate
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			return
		}
	}

	var draft OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondFail(c, http.StatusBadRequest, "bad request", nil)
		return
	}
	key := c.GetHeader(idempotencyKeyHeader)

	f.mu.Lock()
	defer f.mu.Unlock()
	if id, seen := f.idemKeys[key]; seen && key != "" {
		for _, order := range f.orders {
			if order.ID == id {
				c.Header("Idempotent-Replayed", "true")
				respondOK(c, order)
				return
			}
		}
	}
	items := decimal.Zero
	for _, line := range draft.Items {
		items = items.Add(f.products[line.ProductID].price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	discount, _ := f.discountLocked(draft.PromoCode, items)
	delivery := decimal.RequireFromString("35.00")
	order := Order{
		ID:             uint(len(f.orders) + 1),
		OrderNo:        fmt.Sprintf("LS%06d", len(f.orders)+1),
		Status:         "created",
		DeliveryMethod: draft.DeliveryMethod,
		PaymentMethod:  draft.PaymentMethod,
		PromoCode:      draft.PromoCode,
		Currency:       "USD",
		ItemsWorth:     items,
		DeliveryCost:   delivery,
		Discount:       discount,
		Total:          items.Add(delivery).Sub(discount),
	}
	f.orders = append(f.orders, order)
	f.idemKeys[key] = order.ID
	f.lines = nil
	respondOK(c, order)
}

func (f *fakeAPI) getFavorites(c *gin.Context) {
	f.mu.Lock()
	items := append([]FavoriteItem(nil), f.favorites...)
	f.mu.Unlock()
	respondOK(c, items)
}

func (f *fakeAPI) addFavorite(c *gin.Context) {
	var req struct {
		ProductID uint `json:"productId"`
	}
	_ = c.ShouldBindJSON(&req)
	f.mu.Lock()
	exists := false
	for _, item := range f.favorites {
		if item.ProductID == req.ProductID {
			exists = true
		}
	}
	if !exists {
		product := f.products[req.ProductID]
		f.favorites = append(f.favorites, FavoriteItem{ProductID: req.ProductID, Name: product.name, Price: product.price, SalePrice: product.price})
	}
	items := append([]FavoriteItem(nil), f.favorites...)
	f.mu.Unlock()
	respondOK(c, items)
}

func (f *fakeAPI) removeFavorite(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("productId"), 10, 64)
	f.mu.Lock()
	kept := f.favorites[:0]
	for _, item := range f.favorites {
		if item.ProductID != uint(id) {
			kept = append(kept, item)
		}
	}
	f.favorites = kept
	items := append([]FavoriteItem(nil), f.favorites...)
	f.mu.Unlock()
	respondOK(c, items)
}
