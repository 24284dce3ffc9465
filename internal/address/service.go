package address

import (
	"context"
	"reflect"
	"strings"

	"github.com/freshkart/storefront-go/pkg/api"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type addressAPI interface {
	Addresses(ctx context.Context) ([]api.Address, error)
	CreateAddress(ctx context.Context, addr api.Address) (*api.Address, error)
	UpdateAddress(ctx context.Context, id int64, addr api.Address) error
	DeleteAddress(ctx context.Context, id int64) error
}

// Input is a saved-address submission. All fields are required.
type Input struct {
	FullName    string `json:"fullName" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	AddressLine string `json:"addressLine" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PostalCode  string `json:"postalCode" validate:"required"`
}

// Service manages the user's saved addresses.
type Service interface {
	List(ctx context.Context) ([]api.Address, error)
	Create(ctx context.Context, input Input) (*api.Address, error)
	Update(ctx context.Context, id int64, input Input) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	api      addressAPI
	logg     *logger.Logger
	validate *validator.Validate
}

// NewService builds the address service.
func NewService(client addressAPI, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "api client is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "logger is required")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &service{api: client, logg: logg, validate: validate}, nil
}

func (s *service) List(ctx context.Context) ([]api.Address, error) {
	return s.api.Addresses(s.logg.WithOperation(ctx, "address.list"))
}

func (s *service) Create(ctx context.Context, input Input) (*api.Address, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}
	return s.api.CreateAddress(s.logg.WithOperation(ctx, "address.create"), input.toAddress())
}

func (s *service) Update(ctx context.Context, id int64, input Input) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "address id is required")
	}
	if err := s.check(input); err != nil {
		return err
	}
	return s.api.UpdateAddress(s.logg.WithOperation(ctx, "address.update"), id, input.toAddress())
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "address id is required")
	}
	return s.api.DeleteAddress(s.logg.WithOperation(ctx, "address.delete"), id)
}

// check maps validator failures to a field-keyed validation error.
func (s *service) check(input Input) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "address validation failed")
	}

	fields := make(map[string]string, len(verrs))
	for _, fieldErr := range verrs {
		fields[fieldErr.Field()] = "required"
	}
	return pkgerrors.Validation("address is incomplete", fields)
}

func (in Input) toAddress() api.Address {
	return api.Address{
		FullName:    in.FullName,
		Phone:       in.Phone,
		AddressLine: in.AddressLine,
		City:        in.City,
		State:       in.State,
		PostalCode:  in.PostalCode,
	}
}
