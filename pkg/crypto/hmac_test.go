package crypto

import "testing"

func TestGetSHA256(t *testing.T) {
	const text = "some data to hash"
	const secret = "secret"
	const expected = "ab7bca798ad67207c5717d6a33090562d90ec29817af683c5f9f5d9da78a0f5d"
	result := GetSHA256(text, secret)
	if result != expected {
		t.Errorf("wrong hmac, expected: %s, have: %s", expected, result)
	}
}

func TestGetSHA256DependsOnSecret(t *testing.T) {
	const text = "tx-1/gw-1"
	if GetSHA256(text, "one") == GetSHA256(text, "two") {
		t.Error("hmac must differ for different secrets")
	}
}
