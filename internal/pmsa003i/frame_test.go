package pmsa003i

import (
	"encoding/binary"
	"errors"
	"testing"
)

func validFrame(t *testing.T) []byte {
	t.Helper()
	f := BuildFrame(Reading{
		PM10Std: 10, PM25Std: 20, PM100Std: 30,
		PM10Env: 12, PM25Env: 41, PM100Env: 33,
		Particles03: 1000, Particles05: 500, Particles10: 100,
		Particles25: 50, Particles50: 10, Particles100: 5,
	})
	return f[:]
}

func TestValidateHeader(t *testing.T) {
	t.Run("accepts the fixed header", func(t *testing.T) {
		if err := ValidateHeader(validFrame(t)); err != nil {
			t.Fatalf("ValidateHeader() = %v; want nil", err)
		}
	})

	t.Run("rejects short buffers", func(t *testing.T) {
		for _, buf := range [][]byte{nil, {}, {0x42}} {
			if err := ValidateHeader(buf); !errors.Is(err, ErrFrameEmpty) {
				t.Errorf("ValidateHeader(%v) = %v; want ErrFrameEmpty", buf, err)
			}
		}
	})

	t.Run("rejects a wrong header regardless of checksum", func(t *testing.T) {
		f := validFrame(t)
		f[0], f[1] = 0x41, 0x4C
		binary.BigEndian.PutUint16(f[30:], Checksum(f))

		err := ValidateHeader(f)
		var he *HeaderError
		if !errors.As(err, &he) {
			t.Fatalf("ValidateHeader() = %v; want *HeaderError", err)
		}
		if he.Got != [2]byte{0x41, 0x4C} || he.Want != [2]byte{0x42, 0x4D} {
			t.Errorf("HeaderError = %+v; want got=414C want=424D", he)
		}
	})
}

func TestValidateChecksum(t *testing.T) {
	t.Run("round-trips through BuildFrame", func(t *testing.T) {
		if err := ValidateChecksum(validFrame(t)); err != nil {
			t.Fatalf("ValidateChecksum() = %v; want nil", err)
		}
	})

	t.Run("rejects a truncated frame before summing", func(t *testing.T) {
		err := ValidateChecksum(validFrame(t)[:31])
		var le *FrameLengthError
		if !errors.As(err, &le) {
			t.Fatalf("ValidateChecksum(31 bytes) = %v; want *FrameLengthError", err)
		}
		if le.Got != 31 || le.Want != FrameLen {
			t.Errorf("FrameLengthError = %+v; want got=31 want=32", le)
		}
	})

	t.Run("any flipped payload bit breaks validation", func(t *testing.T) {
		for i := 0; i < 30; i++ {
			for bit := 0; bit < 8; bit++ {
				f := validFrame(t)
				f[i] ^= 1 << bit
				err := ValidateChecksum(f)
				var ce *ChecksumError
				if !errors.As(err, &ce) {
					t.Fatalf("ValidateChecksum with byte %d bit %d flipped = %v; want *ChecksumError", i, bit, err)
				}
			}
		}
	})

	t.Run("reports both sums on mismatch", func(t *testing.T) {
		f := validFrame(t)
		want := Checksum(f)
		binary.BigEndian.PutUint16(f[30:], 0)

		var ce *ChecksumError
		if err := ValidateChecksum(f); !errors.As(err, &ce) {
			t.Fatalf("ValidateChecksum() = %v; want *ChecksumError", err)
		}
		if ce.Computed != want || ce.Reported != 0 {
			t.Errorf("ChecksumError = %+v; want computed=%d reported=0", ce, want)
		}
	})

	t.Run("sums only the first 30 bytes", func(t *testing.T) {
		f := validFrame(t)
		want := Checksum(f)
		f[30], f[31] = 0xAA, 0xBB
		if got := Checksum(f); got != want {
			t.Errorf("Checksum changed with trailer bytes: %d != %d", got, want)
		}
	})
}

func TestDecodeReading(t *testing.T) {
	t.Run("extracts all twelve fields at their offsets", func(t *testing.T) {
		want := Reading{
			PM10Std: 1, PM25Std: 2, PM100Std: 3,
			PM10Env: 4, PM25Env: 5, PM100Env: 6,
			Particles03: 7, Particles05: 8, Particles10: 9,
			Particles25: 10, Particles50: 11, Particles100: 12,
		}
		f := BuildFrame(want)
		got, err := DecodeReading(f[:])
		if err != nil {
			t.Fatalf("DecodeReading() err = %v; want nil", err)
		}
		if got != want {
			t.Errorf("DecodeReading() = %+v; want %+v", got, want)
		}
	})

	t.Run("decodes big-endian", func(t *testing.T) {
		f := validFrame(t)
		f[12], f[13] = 0x01, 0x02
		got, err := DecodeReading(f)
		if err != nil {
			t.Fatalf("DecodeReading() err = %v; want nil", err)
		}
		if got.PM25Env != 0x0102 {
			t.Errorf("PM25Env = 0x%04X; want 0x0102", got.PM25Env)
		}
	})

	t.Run("rejects a short buffer", func(t *testing.T) {
		var le *FrameLengthError
		if _, err := DecodeReading(validFrame(t)[:27]); !errors.As(err, &le) {
			t.Fatalf("DecodeReading(27 bytes) = %v; want *FrameLengthError", err)
		}
	})
}
