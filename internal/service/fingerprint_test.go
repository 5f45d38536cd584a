package service

import "testing"

func TestFingerprintStableAndSalted(t *testing.T) {
	first := Fingerprint("203.0.113.7", "salt-a")
	second := Fingerprint("203.0.113.7", "salt-a")
	if first == "" || first != second {
		t.Fatal("fingerprint must be stable for the same address and salt")
	}

	if Fingerprint("203.0.113.7", "salt-b") == first {
		t.Fatal("different salts must produce different fingerprints")
	}
	if Fingerprint("203.0.113.8", "salt-a") == first {
		t.Fatal("different addresses must produce different fingerprints")
	}
	if first == "203.0.113.7" {
		t.Fatal("fingerprint must not echo the address")
	}
}

func TestFingerprintEmptyAddress(t *testing.T) {
	if Fingerprint("", "salt") != "" {
		t.Fatal("empty address yields empty fingerprint")
	}
}
