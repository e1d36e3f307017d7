package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const idempotencyKeyHeader = "Idempotency-Key"

// Health 检查服务可用
func (c *Client) Health(ctx context.Context) error {
	// /health 挂在根路径，不走 /api/v1
	root := *c.baseURL
	root.Path = ""
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root.String()+"/health", nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return &APIError{Err: ErrNetwork, Message: err.Error()}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return &APIError{Status: res.StatusCode, Err: classifyStatus(res.StatusCode)}
	}
	return nil
}

// Login 登录并保存 token
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Register 注册并保存 token
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var out AuthResult
	if err := c.post(ctx, "/auth/register", input, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Profile 读取当前用户资料
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Products 商品列表
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	query := url.Values{}
	if q.CategoryID > 0 {
		query.Set("categoryId", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	if s := strings.TrimSpace(q.Query); s != "" {
		query.Set("query", s)
	}
	if q.OnSale {
		query.Set("onSale", "true")
	}
	if q.IsNew {
		query.Set("isNew", "true")
	}
	if q.Bestseller {
		query.Set("bestseller", "true")
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	var out []Product
	if err := c.get(ctx, "/products", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckoutOptions 结算可选项
func (c *Client) CheckoutOptions(ctx context.Context) (*CheckoutOptions, error) {
	var out CheckoutOptions
	if err := c.get(ctx, "/checkout/options", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCart 读取服务端购物车
func (c *Client) GetCart(ctx context.Context) ([]CartLine, error) {
	var out []CartLine
	if err := c.get(ctx, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCart 按增量修改购物车行
func (c *Client) AddToCart(ctx context.Context, productID uint, delta int, variant Variant) ([]CartLine, error) {
	body := struct {
		ProductID uint   `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size,omitempty"`
		Color     string `json:"color,omitempty"`
	}{ProductID: productID, Quantity: delta, Size: variant.Size, Color: variant.Color}
	var out []CartLine
	if err := c.post(ctx, "/cart/add", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFromCart 删除购物车行，variant 为 nil 时删除该商品全部规格
func (c *Client) RemoveFromCart(ctx context.Context, productID uint, variant *Variant) ([]CartLine, error) {
	var query url.Values
	if variant != nil {
		query = url.Values{}
		query.Set("size", variant.Size)
		query.Set("color", variant.Color)
	}
	var out []CartLine
	if err := c.delete(ctx, fmt.Sprintf("/cart/%d", productID), query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCart 清空服务端购物车
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart", nil, nil)
}

// ApplyPromo 按当前购物车报价优惠码
func (c *Client) ApplyPromo(ctx context.Context, code string) (*PromoQuote, error) {
	var out PromoQuote
	if err := c.post(ctx, "/cart/apply-promo", map[string]string{"promoCode": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder 提交订单，同一幂等键重复提交返回同一订单
func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft, idempotencyKey string) (*Order, error) {
	var out Order
	opts := requestOptions{headers: map[string]string{idempotencyKeyHeader: idempotencyKey}}
	if err := c.do(ctx, http.MethodPost, "/order/create", draft, opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders 我的订单
func (c *Client) ListOrders(ctx context.Context, page, pageSize int) ([]Order, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	var out []Order
	if err := c.get(ctx, "/order", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder 订单详情
func (c *Client) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var out Order
	if err := c.get(ctx, fmt.Sprintf("/order/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder 取消订单
func (c *Client) CancelOrder(ctx context.Context, id uint) (*Order, error) {
	var out Order
	if err := c.post(ctx, fmt.Sprintf("/order/%d/cancel", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Favorites 收藏列表
func (c *Client) Favorites(ctx context.Context) ([]FavoriteItem, error) {
	var out []FavoriteItem
	if err := c.get(ctx, "/favorites", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFavorite 添加收藏，返回完整列表
func (c *Client) AddFavorite(ctx context.Context, productID uint) ([]FavoriteItem, error) {
	var out []FavoriteItem
	if err := c.post(ctx, "/favorites/add", map[string]uint{"productId": productID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFavorite 取消收藏，返回完整列表
func (c *Client) RemoveFavorite(ctx context.Context, productID uint) ([]FavoriteItem, error) {
	var out []FavoriteItem
	if err := c.delete(ctx, fmt.Sprintf("/favorites/%d", productID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
