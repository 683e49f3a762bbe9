package view

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/nadasobeh22/RestoManage/internal/restoapi"
	"github.com/nadasobeh22/RestoManage/pkg/notify"
)

// Checkout collects shipping details, places the order and presents the
// payment approval URL, both as a link and as a QR code so payment can be
// finished on a phone.
type Checkout struct {
	deps Deps

	shipping restoapi.ShippingDetails
}

// NewCheckout creates the checkout view.
func NewCheckout(deps Deps) *Checkout {
	return &Checkout{deps: deps}
}

// Render shows the current cart summary and the shipping form state.
func (v *Checkout) Render(ctx context.Context) error {
	if !v.deps.requireLogin("Please log in to check out.") {
		return nil
	}
	v.deps.Cart.Fetch(ctx)
	state := v.deps.Cart.State()

	v.deps.println("Checkout")
	if state.ItemCount() == 0 {
		v.deps.println("  your cart is empty, add something first")
		return nil
	}
	v.deps.printf("  %d item(s), total %s\n", state.ItemCount(), state.Total.Display)
	v.paintForm()
	return nil
}

// SetAddress stages the street address.
func (v *Checkout) SetAddress(s string) { v.shipping.Address = strings.TrimSpace(s) }

// SetCountry stages the country.
func (v *Checkout) SetCountry(s string) { v.shipping.Country = strings.TrimSpace(s) }

// SetTown stages the town.
func (v *Checkout) SetTown(s string) { v.shipping.Town = strings.TrimSpace(s) }

// SetZipCode stages the postal code.
func (v *Checkout) SetZipCode(s string) { v.shipping.ZipCode = strings.TrimSpace(s) }

// SetPhoneNumber stages the contact phone number.
func (v *Checkout) SetPhoneNumber(s string) { v.shipping.PhoneNumber = strings.TrimSpace(s) }

// validate reports the first missing shipping field, empty when complete.
func (v *Checkout) validate() string {
	switch {
	case v.shipping.Address == "":
		return "address"
	case v.shipping.Country == "":
		return "country"
	case v.shipping.Town == "":
		return "town"
	case v.shipping.ZipCode == "":
		return "zip code"
	case v.shipping.PhoneNumber == "":
		return "phone number"
	}
	return ""
}

// PlaceOrder validates the form, creates the order and shows the approval
// URL. No request is made while the form is incomplete.
func (v *Checkout) PlaceOrder(ctx context.Context) error {
	if !v.deps.requireLogin("Please log in to check out.") {
		return errors.New("login required")
	}
	if missing := v.validate(); missing != "" {
		v.deps.Notifier.Notify(notify.Error, "Please fill in your "+missing+".")
		return errors.Errorf("missing %s", missing)
	}

	approveURL, err := v.deps.API.CreateOrder(ctx, v.shipping)
	if err != nil {
		if errors.Is(err, restoapi.ErrUnauthorized) {
			v.deps.sessionExpired(ctx)
			return err
		}
		v.deps.Notifier.Notify(notify.Error, restoapi.ErrorMessage(err, "Failed to place the order."))
		return err
	}

	v.deps.Notifier.Notify(notify.Success, "Order placed. Complete the payment to confirm it.")
	v.printApproveURL(approveURL)

	// The server moved the cart into the order.
	v.deps.Cart.Fetch(ctx)
	v.shipping = restoapi.ShippingDetails{}
	return nil
}

// printApproveURL renders the payment link plus a scannable QR code. QR
// generation failures fall back to the plain link.
func (v *Checkout) printApproveURL(approveURL string) {
	v.deps.printf("  pay here: %s\n", approveURL)
	qr, err := qrcode.New(approveURL, qrcode.Medium)
	if err != nil {
		return
	}
	v.deps.println(qr.ToSmallString(false))
}

func (v *Checkout) paintForm() {
	v.deps.println("  shipping details:")
	v.deps.printf("    address: %s\n", orPlaceholder(v.shipping.Address))
	v.deps.printf("    country: %s\n", orPlaceholder(v.shipping.Country))
	v.deps.printf("    town:    %s\n", orPlaceholder(v.shipping.Town))
	v.deps.printf("    zip:     %s\n", orPlaceholder(v.shipping.ZipCode))
	v.deps.printf("    phone:   %s\n", orPlaceholder(v.shipping.PhoneNumber))
}

func orPlaceholder(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}
