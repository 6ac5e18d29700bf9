package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the order on the customer web app as a
// PNG. The page signs the customer in before it polls the status API, so the
// link itself carries no credentials.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultQRGenerator) URL(orderID int) string {
	return fmt.Sprintf("%s/orders?orderId=%d", strings.TrimRight(g.BaseURL, "/"), orderID)
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	size := g.Size
	if size == 0 {
		size = 256
	}
	return qrcode.Encode(g.URL(orderID), qrcode.Medium, size)
}
