package order

// PaymentStatus is the internal lifecycle status of an order.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "PENDING"
	StatusPaid     PaymentStatus = "PAID"
	StatusFailed   PaymentStatus = "FAILED"
	StatusExpired  PaymentStatus = "EXPIRED"
	StatusCanceled PaymentStatus = "CANCELED"
)

// IsTerminal reports whether no further transition is expected.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusExpired, StatusCanceled:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusExpired, StatusCanceled:
		return true
	}
	return false
}

// StatusFromGateway maps the gateway's (transaction_status, fraud_status)
// vocabulary to an internal payment status. Pure and deterministic:
//
//	capture + accept          -> PAID
//	capture + anything else   -> FAILED
//	settlement                -> PAID
//	deny/expire/cancel/failure -> FAILED
//	pending / unknown         -> PENDING
func StatusFromGateway(transactionStatus, fraudStatus string) PaymentStatus {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return StatusPaid
		}
		return StatusFailed
	case "settlement":
		return StatusPaid
	case "deny", "expire", "cancel", "failure":
		return StatusFailed
	case "pending":
		return StatusPending
	default:
		return StatusPending
	}
}
