/*
 * archives_test.go, part of gocrystal.
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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//archiveServer answers facet queries and serves the archives they point to.
//It records every archive path requested.
func archiveServer(t *testing.T, requested *[]string) *httptest.Server {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "raw.7z"))
	require.NoError(t, err)
	var mu sync.Mutex
	var ts *httptest.Server
	entry := func(name string) string {
		return fmt.Sprintf(`{"sample": {"measurement": [{"raw_data": "%s/arch/%s"}]}}`, ts.URL, name)
	}
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/arch/") {
			mu.Lock()
			*requested = append(*requested, r.URL.Path)
			mu.Unlock()
			switch strings.TrimPrefix(r.URL.Path, "/arch/") {
			case "missing.7z":
				w.WriteHeader(http.StatusNotFound)
			case "stop.7z":
				w.WriteHeader(http.StatusBadRequest)
			default:
				w.Write(raw)
			}
			return
		}
		if r.URL.Query().Get("fields") != "" || r.URL.Query().Get("dtype") != "8" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": "unexpected fields or dtype"}`)
			return
		}
		var q Query
		if err := json.Unmarshal([]byte(r.URL.Query().Get("q")), &q); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var out []string
		switch q["props"] {
		case "Seebeck coefficient":
			out = []string{entry("a.7z"), entry("missing.7z"), entry("b.7z"), `{"sample": {"measurement": []}}`}
		case "enthalpy of formation":
			out = []string{entry("c.7z"), entry("stop.7z"), entry("d.7z")}
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": "boom"}`)
			return
		}
		fmt.Fprintf(w, `{"out": [%s], "npages": 1, "count": %d}`, strings.Join(out, ","), len(out))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestSortArchives(t *testing.T) {
	var requested []string
	ts := archiveServer(t, &requested)
	c := testClient(t, ts, "secret")
	c.DType = AbInitio
	dir := t.TempDir()
	folders := map[string]string{
		"Seebeck coefficient":   "foo",
		"enthalpy of formation": "HFORM",
		"energy gap":            "STRUCT",
	}

	counts, err := c.SortArchives(context.Background(), dir, folders)
	require.NoError(t, err)
	assert.Equal(t, map[string]ArchiveCount{
		"Seebeck coefficient":   {NAPI: 4, NReal: 2},
		"enthalpy of formation": {NAPI: 3, NReal: 0},
	}, counts)
	assert.NotContains(t, requested, "/arch/d.7z")

	for _, f := range []string{"Seebeck coefficient/true/a.7z", "Seebeck coefficient/true/b.7z", "enthalpy of formation/false/c.7z"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(f)))
	}
	assert.NoFileExists(t, filepath.Join(dir, "enthalpy of formation", "false", "d.7z"))
	//the extracted trees are gone
	for prop, want := range map[string]string{"Seebeck coefficient": "true", "enthalpy of formation": "false"} {
		ents, err := os.ReadDir(filepath.Join(dir, prop))
		require.NoError(t, err)
		require.Len(t, ents, 1)
		assert.Equal(t, want, ents[0].Name())
	}
}

func TestSortArchivesCancelled(t *testing.T) {
	var requested []string
	ts := archiveServer(t, &requested)
	c := testClient(t, ts, "secret")
	c.DType = AbInitio

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	counts, err := c.SortArchives(ctx, t.TempDir(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, counts)
	assert.Empty(t, requested)
}

func TestExtract(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "raw.7z"))
	require.NoError(t, err)
	dest := t.TempDir()
	require.NoError(t, Extract(raw, dest))
	for _, name := range []string{"foo", "bar"} {
		got, err := os.ReadFile(filepath.Join(dest, name))
		require.NoError(t, err)
		assert.Equal(t, name+"\n", string(got))
	}

	assert.Error(t, Extract([]byte("not a 7z archive"), t.TempDir()))
}
