package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lingerie-shop/internal/storefront"
)

func TestReadTokenMissingFile(t *testing.T) {
	token, err := readToken(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("read token failed: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestReadTokenTrimsNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("abc\n"), 0o600); err != nil {
		t.Fatalf("write token failed: %v", err)
	}
	token, err := readToken(path)
	if err != nil {
		t.Fatalf("read token failed: %v", err)
	}
	if token != "abc" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestDescribeError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{err: &storefront.APIError{Err: storefront.ErrNetwork}, want: "Cannot reach the shop"},
		{err: &storefront.APIError{Status: 400, Err: storefront.ErrPromoInvalid}, want: "Promo code is invalid"},
		{err: storefront.ErrEmptyCart, want: "cart is empty"},
		{err: &storefront.APIError{Status: 401, Err: storefront.ErrUnauthorized}, want: "sign in"},
		{err: &storefront.APIError{Status: 400, Err: &storefront.ValidationError{Fields: map[string]string{"email": "validation.email"}}}, want: "email: validation.email"},
		{err: &storefront.APIError{Status: 409, Err: storefront.ErrConflict, Message: "Out of stock"}, want: "Out of stock"},
		{err: errors.New("boom"), want: "boom"},
	}
	for _, tc := range cases {
		if got := describeError(tc.err); !strings.Contains(got, tc.want) {
			t.Fatalf("describeError(%v) = %q, want substring %q", tc.err, got, tc.want)
		}
	}
}

func TestAppRegistersCommands(t *testing.T) {
	app := newApp()
	want := []string{"login", "register", "logout", "products", "cart", "promo", "checkout", "favorites", "orders"}
	for _, name := range want {
		if app.Command(name) == nil {
			t.Fatalf("command %s not registered", name)
		}
	}
}
