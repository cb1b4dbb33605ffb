package session

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// EncodeQR renders a pairing code as a PNG data URL, the format the dashboard displays
func EncodeQR(code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("qr code cannot be empty")
	}
	png, err := qrcode.Encode(code, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("encoding qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
