package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// GenerateInvoiceNo generates a unique invoice number, e.g. INV-1A2B3C4D
func GenerateInvoiceNo() string {
	return "INV-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateGuestPhone generates the placeholder phone of a walk-in guest, e.g. GUEST-0427
func GenerateGuestPhone() string {
	return fmt.Sprintf("GUEST-%04d", rand.Intn(10000))
}

// GenerateRequestID generates an id for correlating a request in logs
func GenerateRequestID() string {
	return uuid.New().String()
}
