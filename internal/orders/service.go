package orders

import (
	"context"

	"github.com/freshkart/storefront-go/internal/session"
	"github.com/freshkart/storefront-go/pkg/api"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
)

type orderAPI interface {
	OrdersByUser(ctx context.Context, userID int64) ([]api.OrderSummary, error)
	OrderByID(ctx context.Context, orderID int64) (*api.OrderSummary, error)
}

type sessionSource interface {
	Current() session.Snapshot
}

// Service exposes the signed-in user's order history.
type Service interface {
	History(ctx context.Context) ([]api.OrderSummary, error)
	Order(ctx context.Context, orderID int64) (*api.OrderSummary, error)
}

type service struct {
	api  orderAPI
	sess sessionSource
	logg *logger.Logger
}

// NewService builds the orders service.
func NewService(client orderAPI, sess sessionSource, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "api client is required")
	}
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "session source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "logger is required")
	}
	return &service{api: client, sess: sess, logg: logg}, nil
}

func (s *service) History(ctx context.Context) ([]api.OrderSummary, error) {
	snap := s.sess.Current()
	if !snap.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "order history requires a valid session")
	}
	ctx = s.logg.WithOperation(ctx, "orders.history")
	return s.api.OrdersByUser(ctx, snap.User.ID)
}

func (s *service) Order(ctx context.Context, orderID int64) (*api.OrderSummary, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "order id is required")
	}
	if !s.sess.Current().Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "order lookup requires a valid session")
	}
	return s.api.OrderByID(s.logg.WithOperation(ctx, "orders.order"), orderID)
}
