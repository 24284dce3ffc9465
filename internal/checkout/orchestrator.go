package checkout

import (
	"context"
	"sync"

	"github.com/freshkart/storefront-go/internal/session"
	"github.com/freshkart/storefront-go/pkg/api"
	"github.com/freshkart/storefront-go/pkg/enums"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
	"github.com/shopspring/decimal"
)

// orderAPI is the server surface the orchestrator depends on.
type orderAPI interface {
	CreateOrder(ctx context.Context, req api.OrderRequest) (*api.OrderResponse, error)
}

// cartSource is the live cart the orchestrator reads and clears. Totals are
// always derived from the current lines, never a snapshot taken at entry.
type cartSource interface {
	Lines() []api.CartLine
	Clear(ctx context.Context) error
}

type sessionSource interface {
	Current() session.Snapshot
}

// Policy is the flat free-shipping rule: shipping is free when the subtotal
// strictly exceeds the threshold, else the flat fee applies.
type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatFee               decimal.Decimal
}

// Totals are recomputed from cart lines on every entry to Review and at
// submission time.
type Totals struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	GrandTotal   decimal.Decimal
}

// Orchestrator drives the four-step order flow from review through
// confirmation.
type Orchestrator struct {
	mu   sync.Mutex
	api  orderAPI
	cart cartSource
	sess sessionSource
	logg *logger.Logger

	policy   Policy
	step     enums.CheckoutStep
	shipping ShippingDetails
	payment  enums.PaymentMethod
	totals   Totals
	orderID  int64
}

// New enters checkout. The flow may only begin with a non-empty cart.
func New(client orderAPI, cart cartSource, sess sessionSource, policy Policy, logg *logger.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "api client is required")
	}
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "cart is required")
	}
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "session source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "logger is required")
	}
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot start checkout with an empty cart")
	}

	o := &Orchestrator{
		api:    client,
		cart:   cart,
		sess:   sess,
		logg:   logg,
		policy: policy,
		step:   enums.StepReview,
	}
	o.totals = computeTotals(lines, policy)
	return o, nil
}

// Step returns the current checkout step.
func (o *Orchestrator) Step() enums.CheckoutStep {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

// Totals returns the most recently derived totals.
func (o *Orchestrator) Totals() Totals {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totals
}

// OrderID returns the identifier recorded after a successful submission.
func (o *Orchestrator) OrderID() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.orderID
}

// SetShipping stores the shipping details for later validation at Advance.
func (o *Orchestrator) SetShipping(details ShippingDetails) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shipping = details
}

// Shipping returns the stored shipping details.
func (o *Orchestrator) Shipping() ShippingDetails {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.shipping
}

// SetPaymentMethod chooses the settlement method.
func (o *Orchestrator) SetPaymentMethod(method enums.PaymentMethod) error {
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "unknown payment method")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payment = method
	return nil
}

// PaymentMethod returns the chosen settlement method.
func (o *Orchestrator) PaymentMethod() enums.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.payment
}

// Abandoned reports whether the flow lost its cart mid-way (e.g. an external
// clear); an abandoned flow returns control to the pre-checkout view.
func (o *Orchestrator) Abandoned() bool {
	o.mu.Lock()
	step := o.step
	o.mu.Unlock()
	return step != enums.StepConfirmation && len(o.cart.Lines()) == 0
}

// Advance moves one step forward. Leaving Shipping requires every required
// field; no server contact happens here. Payment advances only through
// SubmitOrder.
func (o *Orchestrator) Advance() error {
	if o.Abandoned() {
		return pkgerrors.New(pkgerrors.CodeConflict, "checkout abandoned: cart is empty")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.step {
	case enums.StepReview:
		o.step = enums.StepShipping
		return nil
	case enums.StepShipping:
		if missing := o.shipping.missingFields(); len(missing) > 0 {
			return pkgerrors.IncompleteShipping(missing)
		}
		o.step = enums.StepPayment
		return nil
	case enums.StepPayment:
		return pkgerrors.New(pkgerrors.CodeConflict, "submit the order to complete checkout")
	default:
		return pkgerrors.New(pkgerrors.CodeConflict, "checkout is complete")
	}
}

// Back moves one step backward; Review and Confirmation do not allow it.
// Re-entering Review recomputes totals from the live cart.
func (o *Orchestrator) Back() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	prev, err := o.step.Prev()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cannot go back")
	}
	o.step = prev
	if o.step == enums.StepReview {
		o.totals = computeTotals(o.cart.Lines(), o.policy)
	}
	return nil
}

// SubmitOrder builds the order from the live cart (price-at-time per line),
// submits it, and on success records the order id, enters Confirmation, and
// clears the cart. On failure the flow stays on Payment and the cart is
// untouched.
func (o *Orchestrator) SubmitOrder(ctx context.Context) error {
	o.mu.Lock()
	if o.step != enums.StepPayment {
		o.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "order can only be submitted from the payment step")
	}
	if !o.payment.IsValid() {
		o.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "payment method is required")
	}
	shipping := o.shipping
	payment := o.payment
	policy := o.policy
	o.mu.Unlock()

	snap := o.sess.Current()
	if !snap.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "checkout requires a valid session")
	}

	lines := o.cart.Lines()
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "checkout abandoned: cart is empty")
	}

	totals := computeTotals(lines, policy)
	items := make([]api.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := api.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
		if line.Product != nil {
			item.Price = line.Product.Price
		}
		items = append(items, item)
	}

	req := api.OrderRequest{
		UserID: snap.User.ID,
		Items:  items,
		ShippingAddress: api.Address{
			FullName:    shipping.FullName,
			Phone:       shipping.Phone,
			AddressLine: shipping.AddressLine,
			City:        shipping.City,
			State:       shipping.State,
			PostalCode:  shipping.PostalCode,
		},
		PaymentMethod: payment,
		Subtotal:      totals.Subtotal,
		ShippingCost:  totals.ShippingCost,
		TotalAmount:   totals.GrandTotal,
	}

	resp, err := o.api.CreateOrder(ctx, req)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.orderID = resp.OrderID
	o.totals = totals
	o.step = enums.StepConfirmation
	o.mu.Unlock()

	ctx = o.logg.WithField(ctx, "order_id", resp.OrderID)
	o.logg.Info(ctx, "order placed")

	if err := o.cart.Clear(ctx); err != nil {
		// The order stands; the cart will resynchronize on the next reload.
		o.logg.Warn(ctx, "cart clear after order failed")
	}
	return nil
}

// computeTotals derives {subtotal, shipping, grand total} from cart lines
// under the flat free-shipping policy.
func computeTotals(lines []api.CartLine, policy Policy) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		subtotal = subtotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	shipping := policy.FlatFee
	if subtotal.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		GrandTotal:   subtotal.Add(shipping),
	}
}
