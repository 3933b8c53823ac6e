/*
 * archives.go, part of gocrystal.
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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bodgit/sevenzip"
)

//ArchiveCount tallies the archives retrieved for one property.
type ArchiveCount struct {
	NAPI  int `json:"n_mpds_api"` //entries the API reported
	NReal int `json:"n_real"`     //archives that actually contain the property's data
}

type rawEntry struct {
	Sample struct {
		Measurement []struct {
			RawData string `json:"raw_data"`
		} `json:"measurement"`
	} `json:"sample"`
}

//ArchiveURLs returns the URL of the raw-data archive of each entry
//with the property prop, and the number of entries found. Entries
//without an archive are skipped.
func (C *Client) ArchiveURLs(ctx context.Context, prop string) ([]string, int, error) {
	q := Query{"props": prop}
	var urls []string
	n := 0
	for page := 0; ; page++ {
		resp, err := C.page(ctx, q, page, nil)
		if err != nil {
			return nil, 0, err
		}
		n += len(resp.Out)
		for _, hit := range resp.Out {
			data, err := json.Marshal(hit)
			if err != nil {
				return nil, 0, err
			}
			var e rawEntry
			if err := json.Unmarshal(data, &e); err != nil {
				return nil, 0, fmt.Errorf("mpds: decoding %s entry: %w", prop, err)
			}
			if len(e.Sample.Measurement) == 0 || e.Sample.Measurement[0].RawData == "" {
				continue
			}
			urls = append(urls, e.Sample.Measurement[0].RawData)
		}
		if page+1 >= resp.NPages {
			break
		}
	}
	return urls, n, nil
}

//SortArchives downloads the raw-data archives of the entries for each
//property in folders (PropsFolders if nil) and files them under
//dir/<property>/true or dir/<property>/false, depending on whether the
//extracted archive contains the folder mapped to the property.
//A 400 response ends the downloads for a property. Properties whose
//query fails are logged and skipped.
func (C *Client) SortArchives(ctx context.Context, dir string, folders map[string]string) (map[string]ArchiveCount, error) {
	if folders == nil {
		folders = PropsFolders
	}
	props := make([]string, 0, len(folders))
	for k := range folders {
		props = append(props, k)
	}
	sort.Strings(props)
	client := C.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	counts := make(map[string]ArchiveCount)
	for _, prop := range props {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		urls, n, err := C.ArchiveURLs(ctx, prop)
		if err != nil {
			C.logf("mpds: %s: %v", prop, err)
			continue
		}
		cnt := ArchiveCount{NAPI: n}
	downloads:
		for _, u := range urls {
			data, status, err := C.download(ctx, client, u)
			switch {
			case err != nil:
				return counts, err
			case status == http.StatusBadRequest:
				break downloads
			case status != http.StatusOK:
				C.logf("mpds: failed to load archive %s. Status: %d", u, status)
				continue
			}
			found, err := checkArchive(data, filepath.Join(dir, prop), path.Base(u), folders[prop])
			if err != nil {
				C.logf("mpds: %s: %v", u, err)
				continue
			}
			sub := "false"
			if found {
				cnt.NReal++
				sub = "true"
			}
			target := filepath.Join(dir, prop, sub)
			if err := os.MkdirAll(target, 0o755); err != nil {
				return counts, fmt.Errorf("mpds: %w", err)
			}
			if err := os.WriteFile(filepath.Join(target, path.Base(u)), data, 0o644); err != nil {
				return counts, fmt.Errorf("mpds: saving %s: %w", u, err)
			}
		}
		counts[prop] = cnt
		C.logf("mpds: %s: %d archives listed, %d with data", prop, cnt.NAPI, cnt.NReal)
	}
	return counts, nil
}

func (C *Client) download(ctx context.Context, client *http.Client, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("mpds: creating request: %w", err)
	}
	resp, err := DoWithRetry(ctx, client, req, C.MaxRetries)
	if err != nil {
		return nil, 0, fmt.Errorf("mpds: downloading %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("mpds: downloading %s: %w", u, err)
	}
	return data, resp.StatusCode, nil
}

//checkArchive extracts the 7z archive in data to dir/name, without the
//extension, and reports whether folder exists in it. The extracted
//tree is removed afterwards.
func checkArchive(data []byte, dir, name, folder string) (bool, error) {
	dest := filepath.Join(dir, name[:len(name)-len(filepath.Ext(name))])
	defer os.RemoveAll(dest)
	if err := Extract(data, dest); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(dest, filepath.FromSlash(folder)))
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	return err == nil, nil
}

//Extract writes the contents of the 7z archive in data under dest.
//Entries whose names would escape dest are rejected.
func Extract(data []byte, dest string) error {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("mpds: opening archive: %w", err)
	}
	for _, f := range r.File {
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("mpds: archive entry %q outside the extraction directory", f.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("mpds: extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *sevenzip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
