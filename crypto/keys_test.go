package crypto

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()
	encoded := addr.String()
	if !strings.HasPrefix(encoded, AddressPrefix+"1") {
		t.Fatalf("expected %q prefix, got %s", AddressPrefix, encoded)
	}

	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode address: %v", err)
	}
	if decoded.String() != encoded {
		t.Fatalf("round trip mismatch: %s != %s", decoded.String(), encoded)
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"nhb1",
		"znhb1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq",
	}
	for _, input := range cases {
		if _, err := DecodeAddress(input); err == nil {
			t.Fatalf("expected decode of %q to fail", input)
		}
	}
}

func TestPrivateKeyFromHex(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	encoded := hex.EncodeToString(key.Bytes())

	parsed, err := PrivateKeyFromHex(encoded)
	if err != nil {
		t.Fatalf("parse hex key: %v", err)
	}
	if parsed.PubKey().Address().String() != key.PubKey().Address().String() {
		t.Fatalf("parsed key derives a different address")
	}

	withPrefix, err := PrivateKeyFromHex("0x" + encoded)
	if err != nil {
		t.Fatalf("parse 0x-prefixed key: %v", err)
	}
	if withPrefix.PubKey().Address().String() != key.PubKey().Address().String() {
		t.Fatalf("0x-prefixed key derives a different address")
	}

	if _, err := PrivateKeyFromHex(""); err == nil {
		t.Fatal("expected empty key to be rejected")
	}
	if _, err := PrivateKeyFromHex("zz"); err == nil {
		t.Fatal("expected non-hex key to be rejected")
	}
}
