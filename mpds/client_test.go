/*
 * client_test.go, part of gocrystal.
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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = 1 * time.Millisecond
}

//facetServer serves two pages of copper structures, and answers the
//first request with a 429.
func facetServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	pages := []string{
		`{"out": [{"entry": "S1", "occs_noneq": [1, 1, 1, 1], "cell_abc": [3.61, 3.61, 3.61, 90, 90, 90], "sg_n": 225,
 "basis_noneq": [[0, 0, 0], [0, 0.5, 0.5], [0.5, 0, 0.5], [0.5, 0.5, 0]], "els_noneq": ["Cu", "Cu", "Cu", "Cu"]}],
 "npages": 2, "count": 2}`,
		`{"out": [{"entry": "S2", "occs_noneq": [1], "cell_abc": [2.55, 2.55, 2.55, 60, 60, 60], "sg_n": 1,
 "basis_noneq": [[0, 0, 0]], "els_noneq": ["Cu"]}], "npages": 2, "count": 2}`,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if r.Header.Get("Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error": "Unknown API key"}`)
			return
		}
		var q Query
		if err := json.Unmarshal([]byte(r.URL.Query().Get("q")), &q); err != nil || q["elements"] != "Cu" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": "bad query"}`)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= len(pages) || r.URL.Query().Get("fmt") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, pages[page])
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testClient(t *testing.T, ts *httptest.Server, key string) *Client {
	old := Endpoint
	Endpoint = ts.URL
	t.Cleanup(func() { Endpoint = old })
	c := NewClient(key)
	c.HTTP = ts.Client()
	return c
}

func TestFetchStructures(t *testing.T) {
	var calls int32
	ts := facetServer(t, &calls)
	c := testClient(t, ts, "secret")

	structs, meta, err := c.FetchStructures(context.Background(), DefaultQuery("Cu"))
	require.NoError(t, err)
	require.Len(t, structs, 2)
	require.Len(t, meta, 2)
	assert.Equal(t, "S1", meta[0].Entry)
	assert.Equal(t, "S2", meta[1].Entry)
	assert.Equal(t, 1, structs[1].Len())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchAPIError(t *testing.T) {
	var calls int32
	ts := facetServer(t, &calls)
	c := testClient(t, ts, "wrong")

	_, err := c.FetchRows(context.Background(), DefaultQuery("Cu"))
	var apierr *APIError
	require.True(t, errors.As(err, &apierr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apierr.Status)
	assert.Equal(t, "Unknown API key", apierr.Message)
}

func TestDoWithRetry_ExhaustsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 3)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Hour
	defer func() { RetryBaseDelay = old }()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
