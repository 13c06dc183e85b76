// Package validation provides input validation for values that cross
// trust boundaries: addresses scraped from firewall output, names sent
// to the edge API, and identifiers read from configuration.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	// Strict dotted-quad shape. net.ParseIP alone is too permissive for
	// text scraped out of firewall listings (it accepts IPv6 and other
	// forms we never want to ship to a blocklist).
	ipv4Regex = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

	// Edge list names: lowercase alphanumeric and underscore.
	listNameRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

	// Valid identifier: alphanumeric, dash, underscore
	identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// DNS label: alphanumeric with inner hyphens.
	domainLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

	// Dangerous characters that should never appear in identifiers
	dangerousChars = []string{";", "|", "&", "$", "`", "(", ")", "<", ">", "\\", "\"", "'", "\n", "\r"}
)

// IsIPv4 reports whether s is a plain dotted-quad IPv4 address. Both
// the shape check and net.ParseIP must pass: the regex rejects IPv6
// and hostnames, ParseIP rejects octets above 255.
func IsIPv4(s string) bool {
	if !ipv4Regex.MatchString(s) {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// ValidateIPv4 validates a dotted-quad IPv4 address.
func ValidateIPv4(s string) error {
	if s == "" {
		return fmt.Errorf("IP address cannot be empty")
	}
	if !IsIPv4(s) {
		return fmt.Errorf("invalid IPv4 address: %s", s)
	}
	return nil
}

// ValidateListName validates an edge blocklist name. The edge provider
// only accepts lowercase alphanumerics and underscores, max 50 chars,
// and the name is interpolated into filter expressions so we enforce
// it locally before any API call.
func ValidateListName(name string) error {
	if name == "" {
		return fmt.Errorf("list name cannot be empty")
	}

	if len(name) > 50 {
		return fmt.Errorf("list name too long (max 50 characters): %s", name)
	}

	if !listNameRegex.MatchString(name) {
		return fmt.Errorf("invalid list name: %s (must be lowercase alphanumeric with _)", name)
	}

	return nil
}

// ValidateDomainName validates a DNS domain name.
func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("domain name cannot be empty")
	}

	if len(name) > 253 {
		return fmt.Errorf("domain name too long (max 253 characters): %s", name)
	}

	for _, char := range dangerousChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("domain name contains dangerous character: %s", char)
		}
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain name must have at least two labels: %s", name)
	}
	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("domain name has empty label: %s", name)
		}
		if len(label) > 63 {
			return fmt.Errorf("domain label too long (max 63 characters): %s", label)
		}
		if !domainLabelRegex.MatchString(label) {
			return fmt.Errorf("invalid domain label: %s", label)
		}
	}

	return nil
}

// ValidateIdentifier validates a general identifier (chain prefixes,
// table names, etc.)
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if len(id) > 255 {
		return fmt.Errorf("identifier too long (max 255 characters)")
	}

	if !identifierRegex.MatchString(id) {
		return fmt.Errorf("invalid identifier: %s (must be alphanumeric with -_)", id)
	}

	for _, char := range dangerousChars {
		if strings.Contains(id, char) {
			return fmt.Errorf("identifier contains dangerous character: %s", char)
		}
	}

	return nil
}
