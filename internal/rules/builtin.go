package rules

// Builtins returns the definitions of the built-in rule set. Every
// definition carries examples that are verified at compilation, so a
// drifting pattern fails fast rather than silently misclassifying.
func Builtins() []Definition {
	return []Definition{
		{
			Name:            "email",
			Kind:            KindRegex,
			Description:     "Email address",
			Pattern:         `^[^@]+@[^@]+\.[^@]+$`,
			MatchExamples:   []string{"john.doe@example.com", "ops+alerts@mail.internal.io"},
			NoMatchExamples: []string{"not-an-email", "user@host", "@missing-local.org"},
		},
		{
			Name:            "ip_v4",
			Kind:            KindRegex,
			Description:     "IP address v4",
			Pattern:         `^(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)(\.(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)){3}$`,
			MatchExamples:   []string{"192.168.1.1", "10.0.0.255", "0.0.0.0"},
			NoMatchExamples: []string{"256.100.50.25", "192.168.1", "abc.def.ghi.jkl"},
		},
		{
			Name:            "ip_v6",
			Kind:            KindTyped,
			Description:     "IP address v6",
			Pattern:         "ipv6",
			MatchExamples:   []string{"2001:db8::8a2e:370:7334", "::1"},
			NoMatchExamples: []string{"192.168.1.1", "2001:db8::zzzz", "not-an-ip"},
		},
		{
			Name:            "mac_address",
			Kind:            KindRegex,
			Description:     "MAC address",
			Pattern:         `^(?:[0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`,
			MatchExamples:   []string{"00:1B:44:11:3A:B7", "aa-bb-cc-dd-ee-ff"},
			NoMatchExamples: []string{"00:1B:44:11:3A", "001B44113AB7"},
		},
		{
			Name:            "fqdn",
			Kind:            KindRegex,
			Description:     "Fully qualified domain name",
			Pattern:         `^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,63}$`,
			MatchExamples:   []string{"example.com", "data.warehouse.example.io", "a.io"},
			NoMatchExamples: []string{"localhost", "-bad.example.com", "example..com"},
		},
		{
			Name:            "url",
			Kind:            KindRegex,
			Description:     "HTTP or HTTPS URL",
			Pattern:         `^https?://[^\s/$.?#].[^\s]*$`,
			MatchExamples:   []string{"https://example.com/search?q=1", "http://localhost:8080"},
			NoMatchExamples: []string{"ftp://example.com", "example.com"},
		},
		{
			Name:            "credit_card_number",
			Kind:            KindRegex,
			Description:     "Credit card number, 12 to 19 digits with optional separators",
			Pattern:         `^(?:\d[ -]?){12,18}\d$`,
			MatchExamples:   []string{"4111111111111111", "4111-1111-1111-1111", "378282246310005"},
			NoMatchExamples: []string{"1234-5678", "41111111111111111111111"},
		},
		{
			Name:            "us_phone_number",
			Kind:            KindRegex,
			Description:     "US phone number",
			Pattern:         `^(?:\+?1[ .-]?)?(?:\(\d{3}\)|\d{3})[ .-]?\d{3}[ .-]?\d{4}$`,
			MatchExamples:   []string{"(555) 123-4567", "555-123-4567", "+1 555 123 4567", "5551234567"},
			NoMatchExamples: []string{"12345", "555-1234", "not-a-number"},
		},
		{
			Name:            "us_social_security_number",
			Kind:            KindRegex,
			Description:     "US social security number",
			Pattern:         `^\d{3}-\d{2}-\d{4}$`,
			MatchExamples:   []string{"123-45-6789"},
			NoMatchExamples: []string{"123-456-789", "123456789"},
		},
		{
			Name:            "us_zip_code",
			Kind:            KindRegex,
			Description:     "US zip code",
			Pattern:         `^\d{5}(?:-\d{4})?$`,
			MatchExamples:   []string{"94105", "94105-1234"},
			NoMatchExamples: []string{"9410", "94105-123"},
		},
		{
			Name:            "iso_date",
			Kind:            KindTyped,
			Description:     "ISO 8601 calendar date",
			Pattern:         "date",
			MatchExamples:   []string{"2024-01-31", "1999-12-31"},
			NoMatchExamples: []string{"01/31/2024", "2024-13-01", "2024-02-30"},
		},
		{
			Name:            "iso_timestamp",
			Kind:            KindTyped,
			Description:     "ISO 8601 timestamp with offset",
			Pattern:         "timestamp",
			MatchExamples:   []string{"2024-01-31T09:30:00Z", "2024-01-31T09:30:00+02:00"},
			NoMatchExamples: []string{"2024-01-31 09:30:00", "noon"},
		},
		{
			Name:            "uuid",
			Kind:            KindTyped,
			Description:     "Universally unique identifier",
			Pattern:         "uuid",
			MatchExamples:   []string{"f47ac10b-58cc-4372-a567-0e02b2c3d479", "F47AC10B-58CC-4372-A567-0E02B2C3D479"},
			NoMatchExamples: []string{"f47ac10b-58cc-4372", "not-a-uuid"},
		},
	}
}
