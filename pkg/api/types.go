package api

import (
	"github.com/freshkart/storefront-go/pkg/enums"
	"github.com/shopspring/decimal"
)

// Identity is the user record returned by login and /User/Profile.
type Identity struct {
	ID              int64  `json:"userId"`
	Name            string `json:"userName"`
	Email           string `json:"email"`
	AddressID       *int64 `json:"addressId,omitempty"`
	IsOAuthUser     bool   `json:"isOAuthUser"`
	OAuthPictureURL string `json:"oauthPictureUrl,omitempty"`
}

// IdentityPatch carries a partial identity update; nil fields are left untouched.
type IdentityPatch struct {
	Name      *string `json:"userName,omitempty"`
	Email     *string `json:"email,omitempty"`
	AddressID *int64  `json:"addressId,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p IdentityPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.AddressID == nil
}

// Credentials is the payload for /User/Login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for /User/Register.
type RegisterRequest struct {
	Name     string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the payload for /User/ChangePassword.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResponse is returned by login, register, and the OAuth exchange.
type AuthResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Category is a catalog category.
type Category struct {
	ID   int64  `json:"categoryId"`
	Name string `json:"categoryName"`
}

// Product is the catalog view of a product, denormalized for display.
type Product struct {
	ID       int64           `json:"productId"`
	Name     string          `json:"productName"`
	Price    decimal.Decimal `json:"productPrice"`
	InStock  bool            `json:"inStock"`
	Category *Category       `json:"category,omitempty"`
}

// CartLine is one product+quantity entry in the server cart. CartID is the
// server-assigned line identifier.
type CartLine struct {
	CartID    int64    `json:"cartId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// AddToCartRequest is the payload for POST /Cart/Add.
type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartQtyRequest is the payload for PUT /Cart/UpdateQty.
type UpdateCartQtyRequest struct {
	CartID   int64 `json:"cartId"`
	Quantity int   `json:"quantity"`
}

// Address is a shipping address record.
type Address struct {
	ID          int64  `json:"addressId,omitempty"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
}

// OrderItem is one line of an order submission, with the price observed at
// submission time.
type OrderItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderRequest is the payload for POST /Order.
type OrderRequest struct {
	UserID          int64               `json:"userId"`
	Items           []OrderItem         `json:"items"`
	ShippingAddress Address             `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shippingCost"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
}

// OrderResponse is returned on successful order creation.
type OrderResponse struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}

// OrderSummary is one entry of a user's order history.
type OrderSummary struct {
	OrderID       int64               `json:"orderId"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	Items         []OrderItem         `json:"items"`
}

// FieldError is one entry of a server-side validation error list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}
