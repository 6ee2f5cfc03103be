package utils

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

type payload struct {
	Setup string `json:"setup"`
}

func TestDecodeJSONRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
		fails   bool
	}{
		{name: "ok", body: `{"setup":"19"}`, want: "19"},
		{name: "trailing newline", body: "{\"setup\":\"3b\"}\n", want: "3b"},
		{name: "empty", body: "", wantErr: ErrEmptyBody, fails: true},
		{name: "unknown field", body: `{"board":1}`, fails: true},
		{name: "two values", body: `{"setup":"a"} {"setup":"b"}`, fails: true},
		{name: "truncated", body: `{"setup":`, fails: true},
		{name: "too large", body: `{"setup":"` + strings.Repeat("1", maxBodyBytes) + `"}`, wantErr: ErrBodyTooLarge, fails: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSONRequest(r, &p)
			if !tt.fails {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Setup != tt.want {
					t.Errorf("setup = %q, want %q", p.Setup, tt.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
