package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the order's tracking page.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	data := fmt.Sprintf("%s/orders/%s", strings.TrimRight(g.BaseURL, "/"), orderID)
	return qrcode.Encode(data, qrcode.Medium, 256)
}
