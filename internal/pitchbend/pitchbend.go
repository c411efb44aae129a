// Package pitchbend decodes the UTAU pitchbend string: a run-length
// encoded stream of signed 12-bit cents values, packed two
// base64-ish characters per sample.
package pitchbend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/layetri/straycrab/internal/errs"
)

// Decode parses a pitchbend string into a sequence of signed cents
// offsets, sampled every 1/96th of a beat at the instruction's tempo.
//
// The string is split on "#"; tokens alternate payload (even index)
// and run-length count (odd index). A trailing unpaired payload token
// (no following run-length token) is decoded with no repeat. A
// trailing 0 is always appended. Empty or single-character input
// decodes to [0].
func Decode(s string) ([]int, error) {
	if len(s) < 2 {
		return []int{0}, nil
	}

	tokens := strings.Split(s, "#")
	var res []int

	for i := 0; i < len(tokens); i += 2 {
		payload := tokens[i]
		decoded, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		res = append(res, decoded...)

		if i+2 < len(tokens) {
			rleTok := tokens[i+1]
			count, err := strconv.Atoi(rleTok)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid run-length %q: %v", errs.ErrArgument, rleTok, err)
			}
			if len(res) > 0 {
				last := res[len(res)-1]
				for k := 0; k < count; k++ {
					res = append(res, last)
				}
			}
		}
	}

	res = append(res, 0)
	return res, nil
}

// decodePayload decodes consecutive character pairs into signed
// 12-bit integers. A trailing unpaired character is ignored.
func decodePayload(payload string) ([]int, error) {
	var res []int
	n := len(payload) - (len(payload) % 2)

	for i := 0; i < n; i += 2 {
		hi, err := to6Bit(payload[i])
		if err != nil {
			return nil, err
		}
		lo, err := to6Bit(payload[i+1])
		if err != nil {
			return nil, err
		}

		u := (hi << 6) | lo
		v := int(u)
		if u&(1<<11) != 0 {
			v -= 1 << 12
		}
		res = append(res, v)
	}

	return res, nil
}

// to6Bit maps one character onto its 6-bit value: A-Z -> 0-25, a-z ->
// 26-51, 0-9 -> 52-61, '+' -> 62, '/' -> 63.
func to6Bit(c byte) (uint16, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return uint16(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return uint16(c-'a') + 26, nil
	case c >= '0' && c <= '9':
		return uint16(c-'0') + 52, nil
	case c == '+':
		return 62, nil
	case c == '/':
		return 63, nil
	default:
		return 0, fmt.Errorf("%w: invalid pitchbend character %q", errs.ErrArgument, string(c))
	}
}
