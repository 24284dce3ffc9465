package enums

import "testing"

func TestCheckoutStepNext(t *testing.T) {
	cases := []struct {
		from CheckoutStep
		want CheckoutStep
	}{
		{StepReview, StepShipping},
		{StepShipping, StepPayment},
		{StepPayment, StepConfirmation},
	}
	for _, tc := range cases {
		got, err := tc.from.Next()
		if err != nil {
			t.Fatalf("Next(%q): %v", tc.from, err)
		}
		if got != tc.want {
			t.Fatalf("Next(%q) = %q, want %q", tc.from, got, tc.want)
		}
	}

	if _, err := StepConfirmation.Next(); err == nil {
		t.Fatalf("expected error advancing past the terminal step")
	}
	if _, err := CheckoutStep("bogus").Next(); err == nil {
		t.Fatalf("expected error for unknown step")
	}
}

func TestCheckoutStepPrev(t *testing.T) {
	got, err := StepPayment.Prev()
	if err != nil {
		t.Fatalf("Prev(payment): %v", err)
	}
	if got != StepShipping {
		t.Fatalf("Prev(payment) = %q, want %q", got, StepShipping)
	}

	if _, err := StepReview.Prev(); err == nil {
		t.Fatalf("expected error going back from the first step")
	}
	if _, err := StepConfirmation.Prev(); err == nil {
		t.Fatalf("expected error going back from confirmation")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, value := range []string{"card", "upi", "netbanking", "cod"} {
		method, err := ParsePaymentMethod(value)
		if err != nil {
			t.Fatalf("ParsePaymentMethod(%q): %v", value, err)
		}
		if !method.IsValid() {
			t.Fatalf("parsed method %q reported invalid", method)
		}
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatalf("expected error for unsupported method")
	}
}
