/*
 * files.go, part of gocrystal.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mpds

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//zstd's Decoder doesn't implement io.ReadCloser, as its
//Close returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func compressed(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".zst")
}

//Save writes the rows to a JSON file with the given name, one tuple per row.
//If the name ends in .zst, the file is zstd-compressed.
func Save(name string, rows []Row) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("mpds: creating %s: %w", name, err)
	}
	defer f.Close()
	var w io.WriteCloser = nopWriteCloser{f}
	if compressed(name) {
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return fmt.Errorf("mpds: compressing %s: %w", name, err)
		}
	}
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(rows); err != nil {
		w.Close()
		return fmt.Errorf("mpds: writing %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mpds: writing %s: %w", name, err)
	}
	return f.Close()
}

//Load reads the rows saved with Save. Files ending in .zst are
//decompressed.
func Load(name string) ([]Row, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("mpds: opening %s: %w", name, err)
	}
	defer f.Close()
	var r io.ReadCloser = f
	if compressed(name) {
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("mpds: decompressing %s: %w", name, err)
		}
		r = zstdReadCloser{d}
		defer r.Close()
	}
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("mpds: reading %s: %w", name, err)
	}
	return rows, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
