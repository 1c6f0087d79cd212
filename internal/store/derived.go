package store

import (
	"net/url"

	"productkart/internal/models"
)

// Nav is the header navigation derived from session and cart state.
// The shopping entries and the admin entries are mutually exclusive: an
// admin session replaces the cart and the add-to-cart control with
// management links.
type Nav struct {
	ShowCart  bool
	CartBadge int // 0 means the badge is hidden
	ShowLogin bool
	UserName  string // "" when logged out
	ShowAdmin bool   // product/order/user management links
}

// NavFor derives the header state from the current session and cart
// badge count.
func NavFor(session *models.Session, badgeCount int) Nav {
	nav := Nav{}
	if session == nil {
		nav.ShowLogin = true
		nav.ShowCart = true
		nav.CartBadge = badgeCount
		return nav
	}
	nav.UserName = session.Name
	if session.IsAdmin {
		nav.ShowAdmin = true
		return nav
	}
	nav.ShowCart = true
	nav.CartBadge = badgeCount
	return nav
}

// AllowAddToCart reports whether the add-to-cart panel is shown for the
// session: hidden for admins, who manage the catalog instead of
// shopping it.
func AllowAddToCart(session *models.Session) bool {
	return session == nil || !session.IsAdmin
}

// LoginRedirect builds the login path that resumes at target after
// authentication.
func LoginRedirect(target string) string {
	if target == "" || target == "/" {
		return "/login"
	}
	return "/login?redirect=" + url.QueryEscape(target)
}

// ResumeAfterLogin extracts the post-authentication destination from a
// login/register query string, defaulting to the home screen. The same
// redirect parameter round-trips between the login and register screens.
func ResumeAfterLogin(rawQuery string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "/"
	}
	if target := values.Get("redirect"); target != "" {
		return target
	}
	return "/"
}

// RequiresLogin reports whether a screen observing this session must
// redirect to login. Route guarding is optimistic; the server still
// enforces authorization on every protected endpoint.
func RequiresLogin(session *models.Session) bool {
	return session == nil
}

// CanPlaceOrder reports whether the checkout submit control is enabled:
// an empty cart cannot be placed.
func CanPlaceOrder(cart *Cart) bool {
	return !cart.Empty()
}
