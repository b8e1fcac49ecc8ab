package validators

import "testing"

func TestIsEmailDomainValid_RejectsMalformedAddresses(t *testing.T) {
	// Syntactic rejections happen before any DNS lookup.
	cases := []string{
		"",
		"no-at-sign",
		"trailing@",
		"@",
	}
	for _, email := range cases {
		if IsEmailDomainValid(email) {
			t.Errorf("IsEmailDomainValid(%q) = true, want false", email)
		}
	}
}
