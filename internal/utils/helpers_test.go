package utils

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"10", 10},
		{">= 10", 10},
		{"≥10", 10},
		{"≥10 employees", 10},
		{"4.5", 4.5},
		{"Any", 0},
		{"any", 0},
		{"", 0},
		{"  ", 0},
		{"solid firm", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseThreshold(tt.input); got != tt.want {
				t.Errorf("ParseThreshold(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", limit: "", offset: "", wantLimit: 5, wantOffset: 0},
		{name: "explicit", limit: "20", offset: "40", wantLimit: 20, wantOffset: 40},
		{name: "limit too big", limit: "51", wantErr: true},
		{name: "negative offset", limit: "10", offset: "-1", wantErr: true},
		{name: "not a number", limit: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := ParseLimitOffset(tt.limit, tt.offset)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestExtractIdentity(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/requests", nil)
	r.Header.Set("X-Account-Id", "42")
	r.Header.Set("X-Account-Role", "PROVIDER")
	r.Header.Set("X-Company-Name", "Provider LLC")
	r.Header.Set("X-Company-Size", "15")
	r.Header.Set("X-Company-Rating", "4.5")
	r.Header.Set("X-Blocked-Companies", "Owner LLC, Shady Corp")

	caps, errResp := ExtractIdentity(r)
	if errResp != nil {
		t.Fatalf("ExtractIdentity() error = %v", errResp)
	}
	if caps.AccountID != 42 {
		t.Errorf("accountId = %d, want 42", caps.AccountID)
	}
	if caps.CompanySize == nil || *caps.CompanySize != 15 {
		t.Errorf("companySize = %v, want 15", caps.CompanySize)
	}
	if caps.Rating == nil || *caps.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", caps.Rating)
	}
	if len(caps.BlockedCompanies) != 2 || caps.BlockedCompanies[1] != "Shady Corp" {
		t.Errorf("blockedCompanies = %v", caps.BlockedCompanies)
	}
	if !caps.HasCapabilityData() {
		t.Error("snapshot with size and rating must report capability data")
	}
}

func TestExtractIdentityMissingOptionalHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/requests", nil)
	r.Header.Set("X-Account-Id", "42")
	r.Header.Set("X-Account-Role", "PROVIDER")

	caps, errResp := ExtractIdentity(r)
	if errResp != nil {
		t.Fatalf("ExtractIdentity() error = %v", errResp)
	}
	if caps.HasCapabilityData() {
		t.Error("snapshot without size and rating must not report capability data")
	}
}

func TestExtractIdentityRejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no account id", headers: map[string]string{"X-Account-Role": "PROVIDER"}},
		{name: "bad account id", headers: map[string]string{"X-Account-Id": "forty-two", "X-Account-Role": "PROVIDER"}},
		{name: "unknown role", headers: map[string]string{"X-Account-Id": "42", "X-Account-Role": "INTERN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/requests", nil)
			for key, value := range tt.headers {
				r.Header.Set(key, value)
			}
			if _, errResp := ExtractIdentity(r); errResp == nil {
				t.Fatal("expected an identity error")
			}
		})
	}
}

func TestValidateDetails(t *testing.T) {
	if err := ValidateDetails(map[string]string{"scope": "due diligence", "lang_2": "en"}); err != nil {
		t.Errorf("valid details rejected: %v", err)
	}
	if err := ValidateDetails(map[string]string{"bad key!": "x"}); err == nil {
		t.Error("key with invalid characters must be rejected")
	}
	if err := ValidateDetails(map[string]string{"scope": strings.Repeat("a", 2000)}); err == nil {
		t.Error("oversized value must be rejected")
	}
}
