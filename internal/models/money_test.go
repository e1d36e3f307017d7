package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var fromString, fromNumber Money
	if err := json.Unmarshal([]byte(`"49.999"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`30.5`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromString.String() != "50.00" {
		t.Fatalf("expected 50.00, got %s", fromString.String())
	}
	if fromNumber.String() != "30.50" {
		t.Fatalf("expected 30.50, got %s", fromNumber.String())
	}

	out, err := json.Marshal(fromNumber)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"30.50"` {
		t.Fatalf("unexpected json: %s", out)
	}
}

func TestMoneyTimes(t *testing.T) {
	price := NewMoneyFromFloat(19.99)
	if got := price.Times(3).String(); got != "59.97" {
		t.Fatalf("expected 59.97, got %s", got)
	}
}

func TestProductSalePriceAppliesDiscount(t *testing.T) {
	p := Product{PriceAmount: NewMoneyFromDecimal(decimal.NewFromInt(80)), DiscountPercent: 25}
	if got := p.SalePrice().String(); got != "60.00" {
		t.Fatalf("expected 60.00, got %s", got)
	}
	p.DiscountPercent = 0
	if got := p.SalePrice().String(); got != "80.00" {
		t.Fatalf("expected 80.00, got %s", got)
	}
}

func TestProductAcceptsVariant(t *testing.T) {
	p := Product{Sizes: StringArray{"S", "M"}, Colors: StringArray{"black"}}
	sizeOK, colorOK := p.AcceptsVariant("M", "")
	if !sizeOK || !colorOK {
		t.Fatalf("expected M with no color to be accepted")
	}
	sizeOK, colorOK = p.AcceptsVariant("XL", "red")
	if sizeOK || colorOK {
		t.Fatalf("expected XL/red to be rejected")
	}
}
