package types

import (
	"encoding/json"
	"testing"
)

func TestHashContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{"hello", "hello", "0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HashContent(tt.text)
			if got.String() != tt.want {
				t.Errorf("HashContent(%q): got %s, want %s", tt.text, got, tt.want)
			}
			if got.IsZero() {
				t.Error("HashContent returned the zero hash")
			}
		})
	}
}

func TestParseHash(t *testing.T) {
	h := HashContent("my secret")

	parsed, err := ParseHash(h.String())
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if parsed != h {
		t.Errorf("ParseHash: got %s, want %s", parsed, h)
	}

	for _, bad := range []string{"", "0x1234", "0x" + string(make([]byte, 64))} {
		if _, err := ParseHash(bad); err == nil {
			t.Errorf("ParseHash(%q): expected error", bad)
		}
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"with prefix", "0x00000000000000000000000000000000000000aB", "0x00000000000000000000000000000000000000ab", false},
		{"without prefix", "00000000000000000000000000000000000000ff", "0x00000000000000000000000000000000000000ff", false},
		{"too short", "0x1234", "", true},
		{"not hex", "0xzz000000000000000000000000000000000000ff", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddressZero(t *testing.T) {
	if !ZeroAddress.IsZero() {
		t.Error("ZeroAddress should be zero")
	}
	if BytesToAddress([]byte{1}).IsZero() {
		t.Error("BytesToAddress(1) should not be zero")
	}
	if got := BytesToAddress([]byte{0x01, 0x02}).String(); got != "0x0000000000000000000000000000000000000102" {
		t.Errorf("BytesToAddress: got %s", got)
	}
}

func TestAddressJSON(t *testing.T) {
	type wrapper struct {
		Who Address `json:"who"`
	}
	in := wrapper{Who: BytesToAddress([]byte{0xbe, 0xef})}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"who":"0x000000000000000000000000000000000000beef"}` {
		t.Errorf("marshal: got %s", data)
	}

	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Who != in.Who {
		t.Errorf("unmarshal: got %s, want %s", out.Who, in.Who)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  Amount
		units   int64
		display string
	}{
		{"one token", WholeUSDC(1), 1_000_000, "1.000000 USDC"},
		{"fraction", USDC(1_500_000), 1_500_000, "1.500000 USDC"},
		{"dust", USDC(1), 1, "0.000001 USDC"},
		{"negative", USDC(-2_000_001), -2_000_001, "-2.000001 USDC"},
		{"arithmetic", WholeUSDC(3).Sub(USDC(500_000)).Add(USDC(1)), 2_500_001, "2.500001 USDC"},
		{"mul", WholeUSDC(1).Mul(7), 7_000_000, "7.000000 USDC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.amount.Units() != tt.units {
				t.Errorf("Units: got %d, want %d", tt.amount.Units(), tt.units)
			}
			if tt.amount.String() != tt.display {
				t.Errorf("String: got %s, want %s", tt.amount.String(), tt.display)
			}
		})
	}

	if !USDC(0).IsZero() || USDC(1).IsZero() {
		t.Error("IsZero mismatch")
	}
	if !USDC(1).IsPositive() || !USDC(-1).IsNegative() {
		t.Error("sign mismatch")
	}
}
