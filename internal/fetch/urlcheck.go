package fetch

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"newsnexus/internal/domain/entity"
)

// ValidateURL rejects a URL before any network use. It prevents SSRF
// via feed configuration by blocking:
//   - non-http(s) schemes (file:, javascript:, data:, vbscript:, ...)
//   - literal localhost and the unspecified address
//   - loopback, RFC 1918 private and link-local literal addresses,
//     IPv4 and IPv6
//
// The check is purely syntactic: no DNS resolution happens here, so a
// rejected URL never touches the network.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: url is required", entity.ErrInvalidArgument)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: url parse: %v", entity.ErrInvalidArgument, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q not allowed (http/https only)", entity.ErrInvalidArgument, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: empty hostname", entity.ErrInvalidArgument)
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: localhost is blocked", entity.ErrInvalidArgument)
	}

	if ip := net.ParseIP(host); ip != nil && isBlockedIP(ip) {
		return fmt.Errorf("%w: address %s is blocked", entity.ErrInvalidArgument, host)
	}
	return nil
}

// isBlockedIP reports whether the literal address falls in a range the
// safety filter denies: loopback (127.0.0.0/8, ::1), private
// (10/8, 172.16/12, 192.168/16, fc00::/7), link-local (169.254/16,
// fe80::/10) or unspecified (0.0.0.0, ::).
func isBlockedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// NormalizeURL resolves a scraped link to an absolute https URL and
// runs it through the safety filter. Fragment-only, javascript: and
// mailto: links return the empty string, as does anything the filter
// rejects.
func NormalizeURL(raw, domain, baseURL string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(raw, "#") || strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return ""
	}

	switch {
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	case strings.HasPrefix(raw, "/"):
		base, err := url.Parse(baseURL)
		if err != nil || base.Host == "" {
			return ""
		}
		raw = base.Scheme + "://" + base.Host + raw
	case !strings.HasPrefix(lower, "http"):
		raw = "https://" + domain + "/" + strings.TrimLeft(raw, "/")
	}

	if err := ValidateURL(raw); err != nil {
		return ""
	}
	return raw
}
