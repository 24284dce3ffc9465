package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/freshkart/storefront-go/pkg/config"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "dial timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T, tokens TokenSource, rt roundTripFunc) *Client {
	t.Helper()
	cfg := config.APIConfig{BaseURL: "http://api.test/api", Timeout: 5 * time.Second}
	client, err := NewClient(cfg, tokens, testLogger(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestLoginDecodesResponse(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"token":"tok-1","user":{"userId":7,"userName":"Asha","email":"asha@example.com"}}`), nil
	})

	resp, err := client.Login(context.Background(), Credentials{Email: "asha@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "tok-1" || resp.User.ID != 7 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if captured.Method != http.MethodPost || captured.URL.Path != "/api/User/Login" {
		t.Fatalf("unexpected request: %s %s", captured.Method, captured.URL.Path)
	}
	if captured.Header.Get("Authorization") != "" {
		t.Fatalf("login must not carry an Authorization header")
	}
	if captured.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected a generated request id header")
	}
}

func TestBearerTokenAttached(t *testing.T) {
	tokens := TokenSourceFunc(func() string { return "tok-99" })
	var captured *http.Request
	client := newTestClient(t, tokens, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	if _, err := client.MyCart(context.Background()); err != nil {
		t.Fatalf("MyCart: %v", err)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer tok-99" {
		t.Fatalf("unexpected Authorization header: %q", got)
	}
}

func TestUnauthorizedMapped(t *testing.T) {
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"message":"token expired"}`), nil
	})

	err := client.ValidateToken(context.Background())
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthenticated) {
		t.Fatalf("expected UNAUTHENTICATED, got %v", err)
	}
	if typed := pkgerrors.As(err); typed.Message() != "token expired" {
		t.Fatalf("server message lost: %q", typed.Message())
	}
}

func TestFieldErrorsAggregated(t *testing.T) {
	body := `{"message":"invalid","errors":[{"field":"email","message":"already taken"},{"field":"password","message":"too short"}]}`
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, body), nil
	})

	_, err := client.Register(context.Background(), RegisterRequest{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	fields, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field map details, got %T", pkgerrors.As(err).Details())
	}
	if fields["email"] != "already taken" || fields["password"] != "too short" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestServerErrorKeepsStatus(t *testing.T) {
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, ``), nil
	})

	_, err := client.Products(context.Background())
	if !pkgerrors.HasCode(err, pkgerrors.CodeServer) {
		t.Fatalf("expected SERVER_ERROR, got %v", err)
	}
	if msg := pkgerrors.As(err).Message(); !strings.Contains(msg, "502") {
		t.Fatalf("expected status in message, got %q", msg)
	}
}

func TestTimeoutMapped(t *testing.T) {
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		return nil, timeoutError{}
	})

	err := client.ValidateToken(context.Background())
	if !pkgerrors.HasCode(err, pkgerrors.CodeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestNetworkErrorMapped(t *testing.T) {
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	err := client.ValidateToken(context.Background())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNetwork) {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
}

func TestRequestBodyEncoded(t *testing.T) {
	var sent AddToCartRequest
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(raw, &sent); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if !bytes.Contains(raw, []byte("productId")) {
			t.Fatalf("expected camelCase keys, got %s", raw)
		}
		return jsonResponse(http.StatusOK, ``), nil
	})

	if err := client.AddToCart(context.Background(), AddToCartRequest{ProductID: 3, Quantity: 1}); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if sent.ProductID != 3 || sent.Quantity != 1 {
		t.Fatalf("unexpected payload: %+v", sent)
	}
}

func TestEmptySuccessBodyTolerated(t *testing.T) {
	client := newTestClient(t, nil, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, ``), nil
	})

	if _, err := client.RefreshToken(context.Background()); err != nil {
		t.Fatalf("empty body on success must not error: %v", err)
	}
}
