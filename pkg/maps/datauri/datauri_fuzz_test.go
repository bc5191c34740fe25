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

package datauri

import (
	"bytes"
	"testing"
)

// FuzzDecode checks Decode never panics and that every accepted URI
// re-encodes to a string that decodes to the same payload.
func FuzzDecode(f *testing.F) {
	f.Add("data:image/png;base64,iVBORw0KGgo=")
	f.Add("data:audio/wav;base64,AAA=")
	f.Add("data:;base64,")
	f.Add("data:image/png;base64,")
	f.Add("not-a-data-uri")
	f.Add("data:image/png,AAAA")
	f.Add("data:image/png;base64AAAA")
	f.Add("data:a,b;c")
	f.Add("")

	f.Fuzz(func(t *testing.T, uri string) {
		mediaType, data, err := Decode(uri)
		if err != nil {
			if mediaType != "" || data != nil {
				t.Fatalf("partial result on error: %q %v", mediaType, data)
			}
			return
		}

		// the media type ends at the first ';' so it can never contain one
		if bytes.ContainsRune([]byte(mediaType), ';') {
			t.Fatalf("media type %q contains ';'", mediaType)
		}
		_, again, err := Decode(Encode("application/octet-stream", data))
		if err != nil {
			t.Fatalf("re-encoded payload failed to decode: %v", err)
		}
		if !bytes.Equal(again, data) {
			t.Fatalf("payload changed across re-encode")
		}
	})
}
