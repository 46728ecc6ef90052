package order

import "testing"

func TestStatusFromGateway(t *testing.T) {
	tests := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		want              PaymentStatus
	}{
		{"capture accepted", "capture", "accept", StatusPaid},
		{"capture challenged", "capture", "challenge", StatusFailed},
		{"capture denied", "capture", "deny", StatusFailed},
		{"capture empty fraud status", "capture", "", StatusFailed},
		{"settlement", "settlement", "", StatusPaid},
		{"settlement ignores fraud status", "settlement", "challenge", StatusPaid},
		{"deny", "deny", "", StatusFailed},
		{"expire", "expire", "", StatusFailed},
		{"cancel", "cancel", "", StatusFailed},
		{"failure", "failure", "", StatusFailed},
		{"pending", "pending", "", StatusPending},
		{"unknown status", "refund", "", StatusPending},
		{"empty status", "", "", StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusFromGateway(tt.transactionStatus, tt.fraudStatus)
			if got != tt.want {
				t.Errorf("StatusFromGateway(%q, %q) = %s, want %s",
					tt.transactionStatus, tt.fraudStatus, got, tt.want)
			}
		})
	}
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("PENDING should not be terminal")
	}
	for _, s := range []PaymentStatus{StatusPaid, StatusFailed, StatusExpired, StatusCanceled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestPaymentStatus_Valid(t *testing.T) {
	for _, s := range []PaymentStatus{StatusPending, StatusPaid, StatusFailed, StatusExpired, StatusCanceled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if PaymentStatus("SHIPPED").Valid() {
		t.Error("SHIPPED should not be valid")
	}
}
