// Package versionx compares loader version strings.
//
// Loader versions are dot-separated sequences of non-negative integers of any
// length ("1.2", "1.2.0", "2.0.1.4"). Shorter sequences compare as if padded
// with trailing zeros, so "1.2" equals "1.2.0". Semver libraries were
// considered and rejected: they fix the component count at three.
package versionx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Result is the ordering of one version relative to another.
type Result int

const (
	Older Result = iota - 1
	Same
	Newer
)

func (r Result) String() string {
	switch r {
	case Older:
		return "older"
	case Newer:
		return "newer"
	default:
		return "same"
	}
}

// ErrMalformed reports a version string that is not a dotted sequence of
// non-negative integers.
var ErrMalformed = errors.New("versionx: malformed version")

// Version is a parsed dotted version.
type Version []int

// Parse validates and splits a version string. Malformed input is a
// reportable error, never a silent default; callers decide policy.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	parts := strings.Split(s, ".")
	v := make(Version, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: component %q in %q", ErrMalformed, part, s)
		}
		v[i] = n
	}
	return v, nil
}

// MustParse parses or panics. For hard-coded versions in config and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare reports how a orders against b, left to right over the integer
// components, padding the shorter sequence with trailing zeros.
func (a Version) Compare(b Version) Result {
	n := max(len(a), len(b))
	for i := range n {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		switch {
		case av < bv:
			return Older
		case av > bv:
			return Newer
		}
	}
	return Same
}

// String returns the canonical dotted form.
func (a Version) String() string {
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare parses both versions and reports how client orders against server.
func Compare(client, server string) (Result, error) {
	cv, err := Parse(client)
	if err != nil {
		return Same, err
	}
	sv, err := Parse(server)
	if err != nil {
		return Same, err
	}
	return cv.Compare(sv), nil
}
