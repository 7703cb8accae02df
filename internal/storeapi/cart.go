package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vetsoftlabs/vetstore/internal/cart"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

func registerCartRoutes() {
	webserver.PubGET("/store/cart", getCart)
	webserver.PubPOST("/store/cart/add/:id", addToCart)
	webserver.PubPOST("/store/cart/increment/:id", incrementLine)
	webserver.PubPOST("/store/cart/decrement/:id", decrementLine)
	webserver.PubPOST("/store/cart/remove/:id", removeLine)
	webserver.ApiPOST("/store/checkout", checkout)
}

type cartView struct {
	Lines []cart.Line `json:"lines"`
	Total float64     `json:"total"`
}

func viewOf(ledger *cart.Ledger) cartView {
	return cartView{Lines: ledger.Lines(), Total: ledger.Total()}
}

func getCart(c echo.Context) error {
	id, err := cartID(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to open session", err.Error())
	}
	ledger, err := GetApp(c).Cart().Open(id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to open cart", err.Error())
	}
	return ok(c, viewOf(ledger))
}

// mutateLine opens the session cart and applies op, translating ledger
// errors to HTTP statuses.
func mutateLine(c echo.Context, op func(*cart.Ledger, int64) error) error {
	productID, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	id, err := cartID(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to open session", err.Error())
	}
	ledger, err := GetApp(c).Cart().Open(id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to open cart", err.Error())
	}

	switch err := op(ledger, productID); {
	case errors.Is(err, cart.ErrUnknownProduct):
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	case errors.Is(err, cart.ErrOutOfStock):
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "No stock left for this product", nil)
	case errors.Is(err, cart.ErrNotInCart):
		return fail(c, http.StatusBadRequest, "NOT_IN_CART", "Product is not in the cart", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Cart operation failed", err.Error())
	}
	return ok(c, viewOf(ledger))
}

func addToCart(c echo.Context) error {
	return mutateLine(c, func(l *cart.Ledger, id int64) error { return l.Add(id) })
}

func incrementLine(c echo.Context) error {
	return mutateLine(c, func(l *cart.Ledger, id int64) error { return l.Increment(id) })
}

func decrementLine(c echo.Context) error {
	return mutateLine(c, func(l *cart.Ledger, id int64) error { return l.Decrement(id) })
}

func removeLine(c echo.Context) error {
	return mutateLine(c, func(l *cart.Ledger, id int64) error { return l.Remove(id) })
}

// checkout converts the session cart into a sale and answers with the
// payment redirect URL. Requires a logged-in client account.
func checkout(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	if claims == nil || claims.ClientID == 0 {
		return fail(c, http.StatusForbidden, "CLIENT_REQUIRED", "Checkout needs a client account", nil)
	}
	id, err := cartID(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to open session", err.Error())
	}

	sale, err := GetApp(c).Cart().Checkout(c.Request().Context(), id, claims.ClientID)
	switch {
	case errors.Is(err, cart.ErrStockConflict):
		return fail(c, http.StatusConflict, "STOCK_CONFLICT",
			"Stock changed while you were shopping, please review your cart", err.Error())
	case err != nil:
		return fail(c, http.StatusBadRequest, "CHECKOUT_FAILED", "Checkout failed", err.Error())
	}

	return ok(c, map[string]interface{}{
		"sale_id":     sale.ID,
		"total":       sale.Total,
		"payment_url": sale.PaymentURL,
	})
}
