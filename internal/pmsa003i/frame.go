// Package pmsa003i implements the register frame protocol of the Plantower
// PMSA003I particulate matter sensor: a 32-byte register range read in one
// I2C transaction, starting with the fixed header 0x42 0x4D and ending with
// a big-endian 16-bit checksum over the preceding 30 bytes.
//
// Datasheet: https://cdn-shop.adafruit.com/product-files/4632/4505_PMSA003I_series_data_manual_English_V2.6.pdf
package pmsa003i

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Addr is the sensor's fixed I2C address.
	Addr uint16 = 0x12

	// dataRegister is the first register of the measurement block.
	dataRegister = 0x00

	// FrameLen is the full register range read per transaction.
	FrameLen = 32

	// checksumLen is the number of leading bytes covered by the checksum.
	checksumLen = 30
)

var expectedHeader = [2]byte{0x42, 0x4D}

// ErrFrameEmpty reports a buffer too short to contain the two header bytes.
var ErrFrameEmpty = errors.New("pmsa003i: frame too short for header")

// HeaderError reports a frame whose first two bytes are not the fixed
// header, carrying both observed and expected values.
type HeaderError struct {
	Got  [2]byte
	Want [2]byte
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("pmsa003i: invalid header: got 0x%02X%02X, want 0x%02X%02X",
		e.Got[0], e.Got[1], e.Want[0], e.Want[1])
}

// FrameLengthError reports a frame of the wrong size.
type FrameLengthError struct {
	Got  int
	Want int
}

func (e *FrameLengthError) Error() string {
	return fmt.Sprintf("pmsa003i: frame is %d bytes, want %d", e.Got, e.Want)
}

// ChecksumError reports a frame whose trailing checksum does not match the
// sum computed over its payload.
type ChecksumError struct {
	Computed uint16
	Reported uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("pmsa003i: checksum computed as %d, reported as %d", e.Computed, e.Reported)
}

// ValidateHeader checks that buf begins with the fixed header bytes. It
// never reads past the second byte, so it may be used to reject a frame
// before the checksum is computed.
func ValidateHeader(buf []byte) error {
	if len(buf) < len(expectedHeader) {
		return ErrFrameEmpty
	}
	if buf[0] != expectedHeader[0] || buf[1] != expectedHeader[1] {
		return &HeaderError{Got: [2]byte{buf[0], buf[1]}, Want: expectedHeader}
	}
	return nil
}

// Checksum computes the wrapping 16-bit sum of the first 30 bytes of a
// frame. buf must hold at least 30 bytes.
func Checksum(buf []byte) uint16 {
	var sum uint16
	for _, b := range buf[:checksumLen] {
		sum += uint16(b)
	}
	return sum
}

// ValidateChecksum checks a full frame against its trailing big-endian
// checksum. The frame must be exactly 32 bytes; the length is rejected
// before any summation happens.
func ValidateChecksum(buf []byte) error {
	if len(buf) != FrameLen {
		return &FrameLengthError{Got: len(buf), Want: FrameLen}
	}
	computed := Checksum(buf)
	reported := binary.BigEndian.Uint16(buf[checksumLen:FrameLen])
	if computed != reported {
		return &ChecksumError{Computed: computed, Reported: reported}
	}
	return nil
}

// BuildFrame assembles a full frame from a reading: header, the twelve
// measurement fields in big-endian order, zeroed reserved bytes, and a
// correct trailing checksum. Used by tests and simulators.
func BuildFrame(r Reading) [FrameLen]byte {
	var f [FrameLen]byte
	f[0], f[1] = expectedHeader[0], expectedHeader[1]
	for i, v := range [12]uint16{
		r.PM10Std, r.PM25Std, r.PM100Std,
		r.PM10Env, r.PM25Env, r.PM100Env,
		r.Particles03, r.Particles05, r.Particles10,
		r.Particles25, r.Particles50, r.Particles100,
	} {
		binary.BigEndian.PutUint16(f[4+2*i:6+2*i], v)
	}
	binary.BigEndian.PutUint16(f[checksumLen:], Checksum(f[:]))
	return f
}
