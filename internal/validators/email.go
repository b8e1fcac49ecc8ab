// Package validators holds request validation that needs more than gin
// binding tags, currently just DNS-backed email domain checks.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the domain part of email resolves in
// DNS, via MX records or a plain host lookup as fallback. Registration
// uses it to catch typo'd domains before creating a login. A transient
// DNS failure rejects the address; signup can simply be retried.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
