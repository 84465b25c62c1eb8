// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull_test

import (
	"archive/zip"
	"errors"
	"flag"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/creachadair/jpull"
)

var (
	doCompliance = flag.Bool("compliance-test", false,
		"Run the JSONTestSuite compliance test")
	complianceURL = flag.String("compliance-test-repo", "https://github.com/nst/JSONTestSuite",
		"Compliance test repository URL")

	// The cases exercised here are those described by "Parsing JSON is a
	// Minefield", https://seriot.ch/projects/parsing_json.html.
	//
	// Accepted (y_*) and rejected (n_*) cases must agree exactly; the
	// implementation-defined (i_*) cases are only logged.
)

// openSuite returns a reader for the suite archive, fetching and caching it
// in zipFile if it is not already present.
func openSuite(t *testing.T, zipFile string) *zip.Reader {
	t.Helper()

	f, err := os.Open(zipFile)
	if errors.Is(err, fs.ErrNotExist) {
		f = fetchSuite(t, zipFile)
	} else if err != nil {
		t.Fatalf("Open archive: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	fi, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat archive: %v", err)
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		t.Fatalf("Open reader: %v", err)
	}
	return zr
}

func fetchSuite(t *testing.T, zipFile string) *os.File {
	t.Helper()

	fullURL := *complianceURL + "/archive/refs/heads/master.zip"
	t.Logf("Fetching %q ...", fullURL)
	rsp, err := http.Get(fullURL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer rsp.Body.Close()
	if ctype := rsp.Header.Get("content-type"); ctype != "application/zip" {
		t.Fatalf("Unexpected content-type: %q", ctype)
	}

	f, err := os.Create(zipFile)
	if err != nil {
		t.Fatalf("Create output: %v", err)
	}
	if _, err := io.Copy(f, rsp.Body); err != nil {
		f.Close()
		t.Fatalf("Write output: %v", err)
	}
	return f
}

// parseEntry parses the contents of zf. Errors reading the archive fail the
// test; the parse error is returned.
func parseEntry(t *testing.T, zf *zip.File) (any, error) {
	t.Helper()
	rc, err := zf.Open()
	if err != nil {
		t.Fatalf("Open %q: %v", zf.Name, err)
	}
	defer rc.Close()
	return jpull.ParseReader(rc, &jpull.Options{Name: path.Base(zf.Name)})
}

func TestCompliance(t *testing.T) {
	if !*doCompliance {
		t.Skip("Skipping compliance test because --compliance-test is false")
	}
	zr := openSuite(t, "json-test-suite.zip")

	var numYes, numYesErrs, numNo, numNoErrs int
	for _, f := range zr.File {
		_, tail, ok := strings.Cut(f.Name, "/test_parsing/")
		if !ok || path.Ext(tail) != ".json" {
			continue
		}
		tail = strings.TrimSuffix(tail, ".json")
		tag, _, _ := strings.Cut(tail, "_")
		switch tag {
		case "y":
			numYes++
			t.Run(tail, func(t *testing.T) {
				if _, err := parseEntry(t, f); err != nil {
					numYesErrs++
					t.Errorf("Unexpected error: %v", err)
				}
			})
		case "n":
			numNo++
			t.Run(tail, func(t *testing.T) {
				if v, err := parseEntry(t, f); err == nil {
					numNoErrs++
					t.Errorf("Got %v, wanted error", v)
				} else {
					t.Logf("- [expected]: %v", err)
				}
			})
		case "i":
			_, err := parseEntry(t, f)
			t.Logf("%s: accepted=%v", tail, err == nil)
		default:
			t.Logf("WARNING: Skipped non-matching filename %q", tail)
		}
	}
	t.Logf("Ran %d positive tests, %d errors", numYes, numYesErrs)
	t.Logf("Ran %d negative tests, %d errors", numNo, numNoErrs)
}
