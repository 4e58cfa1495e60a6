package services

import (
	"strings"
	"testing"
)

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0xABCdef1234567890abcdef1234567890ABCDEF12", "0xabcdef1234567890abcdef1234567890abcdef12"},
		{"  0xABC  ", "0xabc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeAddress(tc.in); got != tc.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractIPAddress_Bare(t *testing.T) {
	addr, ok := ExtractIPAddress("0x1234567890AbcdEF1234567890aBcdef12345678")
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if strings.ToLower(addr.Hex()) != "0x1234567890abcdef1234567890abcdef12345678" {
		t.Errorf("unexpected address: %s", addr.Hex())
	}
}

func TestExtractIPAddress_FromURL(t *testing.T) {
	url := "https://aeneid.explorer.story.foundation/ipa/0x1234567890abcdef1234567890abcdef12345678"
	addr, ok := ExtractIPAddress(url)
	if !ok {
		t.Fatal("expected extraction from URL to succeed")
	}
	if strings.ToLower(addr.Hex()) != "0x1234567890abcdef1234567890abcdef12345678" {
		t.Errorf("unexpected address: %s", addr.Hex())
	}
}

func TestExtractIPAddress_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"not an address",
		"0x123",                    // too short
		"https://example.com/ipa/", // no address at all
	}
	for _, in := range inputs {
		if _, ok := ExtractIPAddress(in); ok {
			t.Errorf("expected extraction of %q to fail", in)
		}
	}
}
