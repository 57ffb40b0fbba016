// Package mmstest provides archive fixtures for tests: raw extract and zip
// builders, an HTTP server laid out like the MMSDM archive and an
// in-memory Source.
package mmstest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/leapstack-labs/nemcon/internal/mms"
)

// Extract renders a raw archive extract with preamble, header, data rows
// and trailer, as published.
func Extract(table string, columns []string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"C", "NEMP.WORLD", "DVD_" + table, "AEMO", "PUBLIC", "2022/07/01", "00:00:00"})
	_ = w.Write(append([]string{"I", table, "NULL", "1"}, columns...))
	for _, r := range rows {
		_ = w.Write(append([]string{"D", table, "NULL", "1"}, r...))
	}
	_ = w.Write([]string{"C", "END OF REPORT", fmt.Sprint(len(rows) + 3)})
	w.Flush()

	return buf.Bytes()
}

// Zip wraps data in a zip archive holding a single CSV member.
func Zip(t testing.TB, name string, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(name)
	if err != nil {
		t.Fatalf("failed to create zip member: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("failed to write zip member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// Server serves zipped extracts at their archive paths. Unknown paths
// return 404.
type Server struct {
	*httptest.Server

	t        testing.TB
	mu       sync.Mutex
	files    map[string][]byte
	statuses map[string]int
	requests []string
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		t:        t,
		files:    make(map[string][]byte),
		statuses: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	body, ok := s.files[r.URL.Path]
	status, forced := s.statuses[r.URL.Path]
	s.mu.Unlock()

	if forced {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	_, _ = w.Write(body)
}

// Add publishes a table for a period.
func (s *Server) Add(p mms.Period, table string, columns []string, rows [][]string) {
	s.AddRaw(p, table, Zip(s.t, "PUBLIC_DVD_"+table+".CSV", Extract(table, columns, rows)))
}

// AddRaw publishes arbitrary bytes at a table's archive path.
func (s *Server) AddRaw(p mms.Period, table string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[mms.ArchivePath(p, table)] = body
}

// SetStatus forces a response status for a table's archive path.
func (s *Server) SetStatus(p mms.Period, table string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[mms.ArchivePath(p, table)] = status
}

// Requests returns the request paths seen so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Call records one FetchTable invocation.
type Call struct {
	Period mms.Period
	Table  string
}

type key struct {
	period mms.Period
	table  string
}

// Source is an in-memory mms.Source. Tables that were never added report
// mms.ErrArchiveNotFound.
type Source struct {
	mu     sync.Mutex
	tables map[key]*mms.Table
	errs   map[key]error
	calls  []Call
}

// NewSource creates an empty Source.
func NewSource() *Source {
	return &Source{
		tables: make(map[key]*mms.Table),
		errs:   make(map[key]error),
	}
}

// Add registers a normalised table.
func (s *Source) Add(p mms.Period, table string, columns []string, rows ...[]string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[key{p, table}] = mms.NewTable(table, columns, rows)
	return s
}

// Fail makes FetchTable return err for a table and period.
func (s *Source) Fail(p mms.Period, table string, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[key{p, table}] = err
	return s
}

// Calls returns the fetches performed so far, in order.
func (s *Source) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// FetchTable implements mms.Source.
func (s *Source) FetchTable(ctx context.Context, p mms.Period, table string) (*mms.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Period: p, Table: table})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := key{p, table}
	if err, ok := s.errs[k]; ok {
		return nil, &mms.ArchiveError{Period: p, Table: table, Err: err}
	}
	t, ok := s.tables[k]
	if !ok {
		return nil, &mms.ArchiveError{Period: p, Table: table, Err: mms.ErrArchiveNotFound}
	}
	return t, nil
}
