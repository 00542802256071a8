package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/netip"
	"unicode/utf8"
)

// wireInfo keeps pointers so that absent fields can be told from zero values.
type wireInfo struct {
	Sender *string `json:"sender"`
	Host   *string `json:"host"`
	Port   *uint16 `json:"port"`
}

// Encode serializes info into a single datagram payload.
func Encode(info ConnectionInfo) ([]byte, error) {
	const op = "discovery.Encode"

	if !info.Sender.Is4() {
		return nil, fmt.Errorf("%s: sender %q: %w", op, info.Sender, ErrNotIPv4)
	}
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) > MaxDatagramSize {
		return nil, fmt.Errorf("%s: %d bytes: %w", op, len(data), ErrRecordTooLarge)
	}
	return data, nil
}

// Decode parses a received datagram. All three fields are required.
func Decode(data []byte) (ConnectionInfo, error) {
	const op = "discovery.Decode"

	if !utf8.Valid(data) {
		return ConnectionInfo{}, fmt.Errorf("%s: invalid utf-8: %w", op, ErrMalformed)
	}

	var w wireInfo
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&w); err != nil {
		return ConnectionInfo{}, fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}
	if dec.More() {
		return ConnectionInfo{}, fmt.Errorf("%s: trailing data: %w", op, ErrMalformed)
	}

	switch {
	case w.Sender == nil:
		return ConnectionInfo{}, fmt.Errorf("%s: missing sender: %w", op, ErrMalformed)
	case w.Host == nil:
		return ConnectionInfo{}, fmt.Errorf("%s: missing host: %w", op, ErrMalformed)
	case w.Port == nil:
		return ConnectionInfo{}, fmt.Errorf("%s: missing port: %w", op, ErrMalformed)
	}

	sender, err := netip.ParseAddr(*w.Sender)
	if err != nil || !sender.Is4() {
		return ConnectionInfo{}, fmt.Errorf("%s: sender %q: %w", op, *w.Sender, ErrMalformed)
	}

	return ConnectionInfo{
		Sender: sender,
		Host:   *w.Host,
		Port:   *w.Port,
	}, nil
}
