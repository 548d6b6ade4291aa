// Package parse turns the human readable values printed by `docker stats`
// into normalized numbers. Malformed values degrade to zero instead of
// failing, only a line that is not a stats record at all is rejected.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// ErrMissingField is returned by Line when a required key is absent
var ErrMissingField = errors.New("missing required field")

// Unit is a size suffix and the number of bytes it stands for
type Unit struct {
	Suffix string
	Factor uint64
}

// Units is checked in order, so longer suffixes win over "B".
var Units = []Unit{
	{"GiB", 1024 * 1024 * 1024},
	{"MiB", 1024 * 1024},
	{"kB", 1024},
	{"B", 1},
}

// Percent parses values like "45.30%" or "45,30%". Returns 0 on failure.
func Percent(s string) float64 {
	s = strings.TrimRight(strings.TrimSpace(s), "%")
	v, ok := number(s)
	if !ok || v < 0 {
		return 0
	}
	return v
}

// ByteSize parses values like "4.2MiB" into bytes. Returns 0 when no
// known unit matches or the number is unreadable (e.g. "--").
func ByteSize(s string) uint64 {
	s = strings.TrimSpace(s)
	for _, u := range Units {
		if !strings.HasSuffix(s, u.Suffix) {
			continue
		}
		v, ok := number(strings.TrimSpace(strings.TrimSuffix(s, u.Suffix)))
		if !ok {
			return 0
		}
		return toUint(v * float64(u.Factor))
	}
	return 0
}

// Pair parses composite "a / b" values. A missing side yields 0.
func Pair(s string) (uint64, uint64) {
	parts := strings.Split(s, "/")
	var a, b uint64
	a = ByteSize(parts[0])
	if len(parts) > 1 {
		b = ByteSize(parts[1])
	}
	return a, b
}

// Sample normalizes every field of a raw sample
func Sample(raw model.RawSample) model.Metrics {
	var m model.Metrics
	m.CPUPercent = Percent(raw.CPUPerc)
	m.MemoryUsage, m.MemoryLimit = Pair(raw.MemUsage)
	m.NetworkRx, m.NetworkTx = Pair(raw.NetIO)
	m.BlockRead, m.BlockWrite = Pair(raw.BlockIO)
	return m
}

// wireSample mirrors model.RawSample with pointers so absent keys can be
// told apart from empty strings.
type wireSample struct {
	Name     *string `json:"Name"`
	CPUPerc  *string `json:"CPUPerc"`
	MemUsage *string `json:"MemUsage"`
	NetIO    *string `json:"NetIO"`
	BlockIO  *string `json:"BlockIO"`
}

// Line decodes a single JSON stats line. All five keys must be present.
func Line(line []byte) (model.RawSample, error) {
	var w wireSample
	if err := json.Unmarshal(line, &w); err != nil {
		return model.RawSample{}, fmt.Errorf("decode stats line: %w", err)
	}

	fields := []struct {
		key string
		val *string
	}{
		{"Name", w.Name},
		{"CPUPerc", w.CPUPerc},
		{"MemUsage", w.MemUsage},
		{"NetIO", w.NetIO},
		{"BlockIO", w.BlockIO},
	}
	for _, f := range fields {
		if f.val == nil {
			return model.RawSample{}, fmt.Errorf("%w: %s", ErrMissingField, f.key)
		}
	}

	return model.RawSample{
		Name:     *w.Name,
		CPUPerc:  *w.CPUPerc,
		MemUsage: *w.MemUsage,
		NetIO:    *w.NetIO,
		BlockIO:  *w.BlockIO,
	}, nil
}

// number accepts both "." and "," as the decimal separator
func number(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func toUint(v float64) uint64 {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxUint64:
		return math.MaxUint64
	}
	return uint64(v)
}
