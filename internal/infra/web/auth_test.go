package web

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestMintAndParse(t *testing.T) {
	am := NewAuthManager("secret", time.Hour)
	token, err := am.Mint("u1", "alice")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	claims, err := am.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Username != "alice" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _ := NewAuthManager("secret-a", time.Hour).Mint("u1", "alice")
	if _, err := NewAuthManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	am := NewAuthManager("secret", -time.Minute)
	token, _ := am.Mint("u1", "alice")
	if _, err := am.Parse(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseFromRequest(t *testing.T) {
	am := NewAuthManager("secret", time.Hour)
	token, _ := am.Mint("u1", "alice")

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	claims, err := am.ParseFromRequest(r)
	if err != nil || claims.Subject != "u1" {
		t.Fatalf("ParseFromRequest = (%+v, %v)", claims, err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	if _, err := am.ParseFromRequest(r); err == nil {
		t.Fatal("missing header accepted")
	}

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", token)
	if _, err := am.ParseFromRequest(r); err == nil {
		t.Fatal("non-bearer header accepted")
	}
}
