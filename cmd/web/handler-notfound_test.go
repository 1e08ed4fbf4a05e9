package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jkarhu/packtrack/internal/e2etest"
	"github.com/jkarhu/packtrack/internal/testhelpers"
)

func Test_application_notFound(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()

	for _, urlPath := range []string{"/nonexistent", "/img/missing.png"} {
		t.Run(urlPath, func(t *testing.T) {
			var resp *http.Response
			if resp, err = client.Get(ctx, urlPath); err != nil {
				t.Fatalf("Failed to get %s: %v", urlPath, err)
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("Expected status code %d, got %d", http.StatusNotFound, resp.StatusCode)
			}

			var doc *goquery.Document
			if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
				t.Fatalf("Failed to parse 404 document: %v", err)
			}

			if got := doc.Find("h1").Text(); !strings.Contains(got, "Page not found") {
				t.Errorf("Expected custom 404 heading, got %q", got)
			}
			if doc.Find("a[href='/']").Length() == 0 {
				t.Error("Expected the 404 page to link back to the dashboard")
			}
		})
	}
}
