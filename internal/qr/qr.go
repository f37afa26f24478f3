package qr

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// GenerateRegisterQR renders an event's registration link as a QR code
// PNG, for posters and slides.
func GenerateRegisterQR(registerLink string) ([]byte, error) {
	if registerLink == "" {
		return nil, errors.New("event has no registration link")
	}
	return qrcode.Encode(registerLink, qrcode.Medium, defaultSize)
}
