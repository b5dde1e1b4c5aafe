package hexfmt

import "testing"

func TestHex4(t *testing.T) {
	cases := []struct {
		in   uint16
		want string
	}{
		{0x0000, "0000"},
		{0x0012, "0012"},
		{0x424D, "424D"},
		{0xFFFF, "FFFF"},
	}
	for _, c := range cases {
		if got := Hex4(c.in); got != c.want {
			t.Errorf("Hex4(0x%04X) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestBytesToHex(t *testing.T) {
	if got := BytesToHex([]byte{0x42, 0x4D, 0x00, 0xFF}); got != "424D00FF" {
		t.Errorf("BytesToHex = %q; want 424D00FF", got)
	}
	if got := BytesToHex(nil); got != "" {
		t.Errorf("BytesToHex(nil) = %q; want empty", got)
	}
}
