package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinSize     = 64
	MaxSize     = 1024
	DefaultSize = 256
)

// GenerateInviteQR renders the guest-facing RSVP link for a family code as
// a PNG. Size is in pixels and gets clamped to [MinSize, MaxSize].
func GenerateInviteQR(publicURL, code string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if size < MinSize {
		size = MinSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	link := fmt.Sprintf("%s/rsvp/%s", publicURL, code)
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
