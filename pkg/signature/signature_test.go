package signature

import (
	"strings"
	"testing"
)

func TestCompute_KnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	got := Compute("Jefe", []byte("what do ya want for nothing?"))
	want := "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"
	if got != want {
		t.Errorf("Compute() = %s, want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"triggerEvent":"BOOKING_CREATED","payload":{"title":"Intro"}}`)
	valid := Compute(secret, body)

	tests := []struct {
		name      string
		secret    string
		body      []byte
		signature string
		want      bool
	}{
		{"valid", secret, body, valid, true},
		{"uppercase hex", secret, body, strings.ToUpper(valid), true},
		{"sha256 prefix", secret, body, "sha256=" + valid, true},
		{"surrounding whitespace", secret, body, "  " + valid + " ", true},
		{"wrong secret", "other", body, valid, false},
		{"empty secret", "", body, valid, false},
		{"empty signature", secret, body, "", false},
		{"not hex", secret, body, "zz" + valid[2:], false},
		{"truncated", secret, body, valid[:len(valid)-2], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(tt.secret, tt.body, tt.signature); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerify_AnySingleByteMutationFails(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"triggerEvent":"BOOKING_CANCELLED","payload":{"uid":"abc"}}`)
	sig := Compute(secret, body)

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		if Verify(secret, mutated, sig) {
			t.Fatalf("mutation at byte %d still verified", i)
		}
	}
}

func TestVerify_WhitespaceChangeFails(t *testing.T) {
	secret := "whsec_test"
	raw := []byte(`{"a":1,"b":2}`)
	sig := Compute(secret, raw)

	reformatted := []byte("{\"a\": 1, \"b\": 2}")
	if Verify(secret, reformatted, sig) {
		t.Error("re-serialised body must not verify against the raw signature")
	}
}
