/*
 * client.go, part of gocrystal.
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
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	crystal "github.com/rmera/gocrystal"
)

//Endpoint is the MPDS facet download endpoint. Declared as a
//var so tests can substitute an httptest server.
var Endpoint = "https://api.mpds.io/v0/download/facet"

//RetryBaseDelay is the first backoff delay after an HTTP 429. It doubles
//with each attempt.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 5
	defaultPageSize   = 1000
)

//DataType selects the kind of MPDS data, as a bit mask.
type DataType int

const (
	PeerReviewed    DataType = 1
	MachineLearning DataType = 2
	AbInitio        DataType = 8
	All             DataType = 7
)

//Query is an MPDS search query, e.g. {"elements": "Cu", "classes": "unary"}.
type Query map[string]string

//DefaultQuery returns the query for the atomic structures of the
//cubic unary compounds of el.
func DefaultQuery(el string) Query {
	return Query{
		"elements": el,
		"props":    "atomic structure",
		"classes":  "unary",
		"lattices": "cubic",
	}
}

//APIError is an error reported by the MPDS API itself.
type APIError struct {
	Status  int
	Message string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("mpds: API error (HTTP %d): %s", err.Status, err.Message)
}

//Client retrieves structures from the MPDS API.
type Client struct {
	HTTP       *http.Client
	Key        string //the MPDS API key, sent in the Key header
	DType      DataType
	PageSize   int
	MaxRetries int
	Log        *log.Logger
}

//NewClient returns a client with the given API key, for all data types.
func NewClient(key string) *Client {
	return &Client{HTTP: &http.Client{Timeout: 5 * time.Minute}, Key: key, DType: All}
}

func (C *Client) logf(format string, v ...interface{}) {
	if C.Log != nil {
		C.Log.Printf(format, v...)
	}
}

type facetResponse struct {
	Out    []map[string]json.RawMessage `json:"out"`
	NPages int                          `json:"npages"`
	Count  int                          `json:"count"`
	Error  string                       `json:"error"`
}

//FetchRows retrieves every page of structure records for query q,
//with the fields in Fields.
func (C *Client) FetchRows(ctx context.Context, q Query) ([]Row, error) {
	var rows []Row
	for page := 0; ; page++ {
		resp, err := C.page(ctx, q, page, Fields)
		if err != nil {
			return nil, err
		}
		for _, hit := range resp.Out {
			r, err := hitRow(hit)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}
		C.logf("mpds: page %d of %d, %d hits so far (of %d)", page+1, resp.NPages, len(rows), resp.Count)
		if page+1 >= resp.NPages {
			break
		}
	}
	return rows, nil
}

//FetchStructures retrieves and compiles the structures for q. The returned
//structures and metadata rows are aligned, ready for crystal.Pair.
//Rows that fail to compile are logged and skipped.
func (C *Client) FetchStructures(ctx context.Context, q Query) ([]*crystal.Structure, []crystal.Row, error) {
	rows, err := C.FetchRows(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	structs, meta, errs := CompileAll(rows)
	for _, e := range errs {
		C.logf("%v", e)
	}
	return structs, meta, nil
}

//page requests one page of hits for q. With no fields, the full
//entries are returned.
func (C *Client) page(ctx context.Context, q Query, page int, fields []string) (*facetResponse, error) {
	qj, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("mpds: encoding query: %w", err)
	}
	pagesize := C.PageSize
	if pagesize <= 0 {
		pagesize = defaultPageSize
	}
	params := url.Values{
		"q":        {string(qj)},
		"fmt":      {"json"},
		"page":     {strconv.Itoa(page)},
		"pagesize": {strconv.Itoa(pagesize)},
		"dtype":    {strconv.Itoa(int(C.DType))},
	}
	if len(fields) > 0 {
		fj, err := json.Marshal(map[string][]string{"S": fields})
		if err != nil {
			return nil, fmt.Errorf("mpds: encoding fields: %w", err)
		}
		params.Set("fields", string(fj))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("mpds: creating request: %w", err)
	}
	req.Header.Set("Key", C.Key)
	client := C.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := DoWithRetry(ctx, client, req, C.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("mpds: request: %w", err)
	}
	defer resp.Body.Close()
	var fr facetResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("mpds: parsing response: %w", err)
	}
	if fr.Error != "" || resp.StatusCode != http.StatusOK {
		msg := fr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return &fr, nil
}

//hitRow extracts the Fields of a structure hit into a Row.
//Missing fields are left empty.
func hitRow(hit map[string]json.RawMessage) (Row, error) {
	tuple := make([]json.RawMessage, len(Fields))
	for i, f := range Fields {
		v, ok := hit[f]
		if !ok {
			v = json.RawMessage("null")
		}
		tuple[i] = v
	}
	if string(tuple[0]) == "null" {
		tuple[0] = json.RawMessage(`""`)
	}
	data, err := json.Marshal(tuple)
	if err != nil {
		return Row{}, err
	}
	var r Row
	if err := json.Unmarshal(data, &r); err != nil {
		return Row{}, err
	}
	return r, nil
}

//DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
//Requests) with exponential backoff starting at RetryBaseDelay.
//When maxRetries is 0 the default (5) is used. If the context is cancelled
//during a backoff wait the function returns ctx.Err(). After exhausting
//retries the last 429 response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
