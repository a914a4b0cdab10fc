package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetClientIP determines the actual client IP address considering proxies.
// Returns IPv4 and IPv6 separately; either may be empty.
func GetClientIP(c *fiber.Ctx) (string, string) {
	candidates := []string{strings.TrimSpace(c.Get("CF-Connecting-IP"))}
	for _, part := range strings.Split(c.Get("X-Forwarded-For"), ",") {
		candidates = append(candidates, strings.TrimSpace(part))
	}
	candidates = append(candidates, strings.TrimSpace(c.Get("X-Real-IP")), c.IP())

	ipv4, ipv6 := "", ""
	for _, ip := range candidates {
		if ip == "" {
			continue
		}
		// IPv4-mapped IPv6 addresses count as IPv4
		if strings.HasPrefix(ip, "::ffff:") && strings.Contains(ip, ".") {
			ip = strings.TrimPrefix(ip, "::ffff:")
		}
		if strings.Contains(ip, ":") {
			if ipv6 == "" {
				ipv6 = ip
			}
		} else if ipv4 == "" {
			ipv4 = ip
		}
		if ipv4 != "" && ipv6 != "" {
			break
		}
	}
	return ipv4, ipv6
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
