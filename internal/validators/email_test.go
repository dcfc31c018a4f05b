package validators

import "testing"

func TestIsEmailDomainValid(t *testing.T) {
	valid := []string{
		"user@example.test",
		"a.b@sub.domain.org",
		"x@y.co",
	}
	for _, email := range valid {
		if !IsEmailDomainValid(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"no-at",
		"user@",
		"@x.com",
		"user@nodot",
		"user@.com",
		"user@x.",
		"two@ats@x.com",
		"sp ace@x.com",
	}
	for _, email := range invalid {
		if IsEmailDomainValid(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}
