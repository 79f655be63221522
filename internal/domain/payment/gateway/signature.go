package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signPayload computes the hex HMAC-SHA256 the gateways issue for a
// completed payment: orderID|paymentID signed with the shared secret.
func signPayload(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature compares the claimed signature in constant time.
func verifySignature(secret, gatewayOrderID, gatewayPaymentID, claimed string) bool {
	expected := signPayload(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(claimed))
}
