package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRService renders share QR codes pointing at the public listing pages.
type QRService struct {
	baseURL string // e.g. "https://chodocu.vn/p/"
}

func NewQRService(baseURL string) *QRService {
	return &QRService{baseURL: baseURL}
}

// GenerateProductQR returns a PNG QR code for the listing's public page.
func (s *QRService) GenerateProductQR(productID uint, size int) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%d", s.baseURL, productID)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}
	return png, nil
}
