// LIM Core
// Copyright (c) 2026 The LevelImposter Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LIM Core.
//
// LIM Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LIM Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LIM Core.  If not, see <http://www.gnu.org/licenses/>.

// Package datauri reads and writes the "data:<type>;base64,<payload>"
// strings legacy map files use to embed sprites and sounds.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	scheme       = "data:"
	base64Marker = ";base64,"
	// maxQuoted is how much of a URI error messages repeat. Embedded
	// sprites run to megabytes.
	maxQuoted = 48
)

// ErrMalformed matches every MalformedDataURIError via errors.Is.
var ErrMalformed = errors.New("malformed data URI")

// MalformedDataURIError reports a string that does not follow the
// data:<type>;base64,<payload> grammar.
type MalformedDataURIError struct {
	Err    error
	URI    string
	Reason string
}

func (e *MalformedDataURIError) Error() string {
	return fmt.Sprintf("malformed data URI %q: %s", quoted(e.URI), e.Reason)
}

func (e *MalformedDataURIError) Unwrap() error {
	return e.Err
}

func (*MalformedDataURIError) Is(target error) bool {
	return target == ErrMalformed
}

func quoted(uri string) string {
	if len(uri) <= maxQuoted {
		return uri
	}
	return uri[:maxQuoted] + "..."
}

// split returns the media type and the raw payload of uri.
func split(uri string) (mediaType, payload string, err error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", "", &MalformedDataURIError{URI: uri, Reason: "missing data: prefix"}
	}
	semi := strings.IndexByte(uri, ';')
	if semi < 0 {
		return "", "", &MalformedDataURIError{URI: uri, Reason: "missing ';' after media type"}
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return "", "", &MalformedDataURIError{URI: uri, Reason: "missing ',' before payload"}
	}
	return uri[len(scheme):semi], uri[comma+1:], nil
}

// Decode parses uri and returns its media type and decoded bytes. Nothing
// is returned besides the error when uri is malformed.
func Decode(uri string) (mediaType string, data []byte, err error) {
	mediaType, payload, err := split(uri)
	if err != nil {
		return "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &MalformedDataURIError{
			URI:    uri,
			Reason: "payload is not valid base64",
			Err:    err,
		}
	}
	return mediaType, data, nil
}

// MediaType returns the declared media type of uri without decoding the
// payload.
func MediaType(uri string) (string, error) {
	mediaType, _, err := split(uri)
	return mediaType, err
}

// Encode builds the data URI for data. Decode(Encode(t, b)) returns (t, b).
func Encode(mediaType string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len(scheme) + len(mediaType) + len(base64Marker) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString(scheme)
	sb.WriteString(mediaType)
	sb.WriteString(base64Marker)
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// IsDataURI reports whether s looks like an embedded data URI at all.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, scheme)
}
