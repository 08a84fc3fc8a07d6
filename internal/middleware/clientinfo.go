package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"

	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
)

const clientInfoKey = "clientInfo"

// ClientInfo classifies the caller's device and browser from the
// User-Agent header and extracts a best-effort client IP, preferring
// the first hop of X-Forwarded-For over the direct peer address. The
// result is stored on the context for the redirect handler.
func ClientInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := useragent.Parse(c.Request.UserAgent())

		device := model.DeviceUnknown
		switch {
		case ua.Mobile:
			device = model.DeviceMobile
		case ua.Tablet:
			device = model.DeviceTablet
		case ua.Desktop:
			device = model.DeviceDesktop
		}

		browser := ua.Name
		if browser == "" {
			browser = model.DeviceUnknown
		}

		c.Set(clientInfoKey, model.ClientInfo{
			IP:      clientIP(c),
			Device:  device,
			Browser: browser,
		})
		c.Next()
	}
}

// GetClientInfo returns the metadata extracted by ClientInfo. A zero
// value with Unknown classification is returned when the middleware
// did not run.
func GetClientInfo(c *gin.Context) model.ClientInfo {
	if v, exists := c.Get(clientInfoKey); exists {
		if info, ok := v.(model.ClientInfo); ok {
			return info
		}
	}
	return model.ClientInfo{Device: model.DeviceUnknown, Browser: model.DeviceUnknown}
}

func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	return c.ClientIP()
}
