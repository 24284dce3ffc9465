package address

import (
	"context"
	"io"
	"testing"

	"github.com/freshkart/storefront-go/pkg/api"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
)

type fakeAddressAPI struct {
	saved       []api.Address
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeAddressAPI) Addresses(ctx context.Context) ([]api.Address, error) {
	return f.saved, nil
}

func (f *fakeAddressAPI) CreateAddress(ctx context.Context, addr api.Address) (*api.Address, error) {
	f.createCalls++
	addr.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, addr)
	return &addr, nil
}

func (f *fakeAddressAPI) UpdateAddress(ctx context.Context, id int64, addr api.Address) error {
	f.updateCalls++
	return nil
}

func (f *fakeAddressAPI) DeleteAddress(ctx context.Context, id int64) error {
	f.deleteCalls++
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func completeInput() Input {
	return Input{
		FullName:    "Asha K",
		Phone:       "9999999999",
		AddressLine: "12 Market Road",
		City:        "Pune",
		State:       "MH",
		PostalCode:  "411001",
	}
}

func TestCreateValidInput(t *testing.T) {
	fake := &fakeAddressAPI{}
	svc, err := NewService(fake, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	saved, err := svc.Create(context.Background(), completeInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.ID != 1 || saved.City != "Pune" {
		t.Fatalf("unexpected saved address: %+v", saved)
	}
}

func TestCreateRejectsIncompleteInput(t *testing.T) {
	fake := &fakeAddressAPI{}
	svc, err := NewService(fake, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	input := completeInput()
	input.Phone = ""
	input.PostalCode = ""

	_, err = svc.Create(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	fields, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field map details, got %T", pkgerrors.As(err).Details())
	}
	if _, found := fields["phone"]; !found {
		t.Fatalf("phone missing from details: %v", fields)
	}
	if _, found := fields["postalCode"]; !found {
		t.Fatalf("postalCode missing from details: %v", fields)
	}
	if fake.createCalls != 0 {
		t.Fatalf("invalid input must never reach the server")
	}
}

func TestUpdateRequiresID(t *testing.T) {
	svc, err := NewService(&fakeAddressAPI{}, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Update(context.Background(), 0, completeInput()); !pkgerrors.HasCode(err, pkgerrors.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestDeleteRequiresID(t *testing.T) {
	fake := &fakeAddressAPI{}
	svc, err := NewService(fake, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Delete(context.Background(), -1); !pkgerrors.HasCode(err, pkgerrors.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	if fake.deleteCalls != 0 {
		t.Fatalf("invalid id must never reach the server")
	}
}
