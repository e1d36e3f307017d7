package service

import (
	"errors"
	"testing"

	"github.com/lingerie-shop/internal/config"
	"github.com/lingerie-shop/internal/constants"
)

func TestRegisterLoginAndProfile(t *testing.T) {
	f := setupShop(t)

	user, token, _, err := f.users.Register(RegisterInput{
		Email:     " Olena@Example.com ",
		Password:  "lace2024pass",
		FirstName: "Olena",
		LastName:  "Koval",
		Phone:     "+380501112233",
		Locale:    "uk",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "olena@example.com" || user.Role != constants.UserRoleCustomer || user.Locale != "uk-UA" {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := f.users.ParseUserJWT(token)
	if err != nil || claims.UserID != user.ID {
		t.Fatalf("token does not round-trip: %+v %v", claims, err)
	}

	if _, _, _, err := f.users.Register(RegisterInput{Email: "olena@example.com", Password: "lace2024pass"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, _, _, err := f.users.Login("olena@example.com", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := f.users.Login("olena@example.com", "lace2024pass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	profile, err := f.users.GetProfile(user.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.FirstName != "Olena" || profile.Email != "olena@example.com" || profile.Phone != "+380501112233" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	f := setupShop(t)
	user, _, _, err := f.users.Register(RegisterInput{Email: "a@example.com", Password: "first1234"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := f.users.ChangePassword(user.ID, "first1234", "second1234"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	reloaded, err := f.users.GetUser(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.TokenVersion != user.TokenVersion+1 || reloaded.TokenInvalidBefore == nil {
		t.Fatalf("expected token invalidation, got %+v", reloaded)
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireNumber: true}
	err := validatePassword(policy, "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) || policyErr.Key() != "error.password_min_length" || policyErr.Args()[0] != 8 {
		t.Fatalf("unexpected policy error: %+v", err)
	}
	if err := validatePassword(policy, "alllowercase1"); err == nil || err.Error() != "error.password_require_upper" {
		t.Fatalf("expected upper requirement, got %v", err)
	}
	if err := validatePassword(policy, "Valid1234"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}

func TestCheckoutOptionsDefaultsAndValidation(t *testing.T) {
	options := NewCheckoutOptionsService(config.CheckoutConfig{
		DeliveryCosts:  map[string]float64{"courier": 40, "teleport": 1},
		PaymentMethods: []string{"cash", "bitcoin", "CASH"},
	})
	if options.Currency() != "USD" {
		t.Fatalf("expected default currency USD, got %s", options.Currency())
	}
	cost, err := options.DeliveryCost(constants.DeliveryMethodCourier)
	if err != nil || cost.String() != "40.00" {
		t.Fatalf("expected configured courier cost, got %s %v", cost, err)
	}
	cost, err = options.DeliveryCost(constants.DeliveryMethodInternational)
	if err != nil || cost.String() != "120.00" {
		t.Fatalf("expected default international cost, got %s %v", cost, err)
	}
	if _, err := options.DeliveryCost("teleport"); !errors.Is(err, ErrDeliveryMethodInvalid) {
		t.Fatalf("expected invalid delivery method, got %v", err)
	}
	if err := options.ValidatePaymentMethod(constants.PaymentMethodCreditCard); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("credit card is not enabled, got %v", err)
	}
	got := options.Options()
	if len(got.PaymentMethods) != 1 || got.PaymentMethods[0] != "cash" || len(got.DeliveryMethods) != 4 {
		t.Fatalf("unexpected options: %+v", got)
	}
}
