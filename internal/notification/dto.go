package notification

import (
	"errors"
	"strings"
)

type RegisterDeviceTokenDTO struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (d *RegisterDeviceTokenDTO) Validate() error {
	if strings.TrimSpace(d.Token) == "" {
		return errors.New("token is required")
	}
	switch d.Platform {
	case "ios", "android", "web":
	default:
		return errors.New("platform must be one of ios, android, web")
	}
	return nil
}
