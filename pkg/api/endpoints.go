package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, "/User/Login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns the initial session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, "register", http.MethodPost, "/User/Register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleLogin exchanges an OAuth ID token for a session.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"idToken": idToken}
	if err := c.do(ctx, "google_login", http.MethodPost, "/User/GoogleLogin", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken confirms the current token server-side.
func (c *Client) ValidateToken(ctx context.Context) error {
	return c.do(ctx, "validate_token", http.MethodGet, "/User/ValidateToken", nil, nil)
}

// Profile fetches the identity bound to the current token.
func (c *Client) Profile(ctx context.Context) (*Identity, error) {
	var resp Identity
	if err := c.do(ctx, "profile", http.MethodGet, "/User/Profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser applies a partial identity update server-side.
func (c *Client) UpdateUser(ctx context.Context, userID int64, patch IdentityPatch) error {
	return c.do(ctx, "update_user", http.MethodPut, fmt.Sprintf("/User/%d", userID), patch, nil)
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, "change_password", http.MethodPost, "/User/ChangePassword", req, nil)
}

// RefreshToken rotates the bearer token.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, "refresh_token", http.MethodPost, "/User/RefreshToken", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Logout notifies the server of session teardown.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/User/Logout", nil, nil)
}

// Categories lists the catalog categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp []Category
	if err := c.do(ctx, "categories", http.MethodGet, "/Category", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Products lists the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var resp []Product
	if err := c.do(ctx, "products", http.MethodGet, "/Product", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ProductByID fetches one product.
func (c *Client) ProductByID(ctx context.Context, id int64) (*Product, error) {
	var resp Product
	if err := c.do(ctx, "product", http.MethodGet, fmt.Sprintf("/Product/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProductsByCategory lists products in one category.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var resp []Product
	path := fmt.Sprintf("/Product/ByCategory/%d", categoryID)
	if err := c.do(ctx, "products_by_category", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MyCart reads the authoritative cart for the current user.
func (c *Client) MyCart(ctx context.Context) ([]CartLine, error) {
	var resp []CartLine
	if err := c.do(ctx, "my_cart", http.MethodGet, "/Cart/MyCart", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AddToCart adds a line server-side; the server may merge into an existing line.
func (c *Client) AddToCart(ctx context.Context, req AddToCartRequest) error {
	return c.do(ctx, "add_to_cart", http.MethodPost, "/Cart/Add", req, nil)
}

// UpdateCartQuantity sets the quantity of an existing line.
func (c *Client) UpdateCartQuantity(ctx context.Context, req UpdateCartQtyRequest) error {
	return c.do(ctx, "update_cart_qty", http.MethodPut, "/Cart/UpdateQty", req, nil)
}

// RemoveFromCart deletes a line by its server-assigned id.
func (c *Client) RemoveFromCart(ctx context.Context, cartID int64) error {
	path := fmt.Sprintf("/Cart/Remove/%d", cartID)
	return c.do(ctx, "remove_from_cart", http.MethodDelete, path, nil, nil)
}

// Addresses lists the user's saved addresses.
func (c *Client) Addresses(ctx context.Context) ([]Address, error) {
	var resp []Address
	if err := c.do(ctx, "addresses", http.MethodGet, "/Address", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateAddress saves a new address and returns the stored record.
func (c *Client) CreateAddress(ctx context.Context, addr Address) (*Address, error) {
	var resp Address
	if err := c.do(ctx, "create_address", http.MethodPost, "/Address", addr, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateAddress replaces an existing address.
func (c *Client) UpdateAddress(ctx context.Context, id int64, addr Address) error {
	return c.do(ctx, "update_address", http.MethodPut, fmt.Sprintf("/Address/%d", id), addr, nil)
}

// DeleteAddress removes a saved address.
func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_address", http.MethodDelete, fmt.Sprintf("/Address/%d", id), nil, nil)
}

// CreateOrder submits an order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.do(ctx, "create_order", http.MethodPost, "/Order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrdersByUser lists a user's order history.
func (c *Client) OrdersByUser(ctx context.Context, userID int64) ([]OrderSummary, error) {
	var resp []OrderSummary
	path := fmt.Sprintf("/Order/User/%d", userID)
	if err := c.do(ctx, "orders_by_user", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OrderByID fetches one order.
func (c *Client) OrderByID(ctx context.Context, orderID int64) (*OrderSummary, error) {
	var resp OrderSummary
	if err := c.do(ctx, "order", http.MethodGet, fmt.Sprintf("/Order/%d", orderID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
