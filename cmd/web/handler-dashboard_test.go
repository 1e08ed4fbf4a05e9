package main

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jkarhu/packtrack/internal/e2etest"
	"github.com/jkarhu/packtrack/internal/testhelpers"
)

func Test_application_dashboard(t *testing.T) {
	var (
		ctx = t.Context()
		doc *goquery.Document
	)
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()

	t.Run("Empty database", func(t *testing.T) {
		doc, err = client.GetDoc(ctx, "/")
		if err != nil {
			t.Fatalf("Failed to get dashboard: %v", err)
		}

		if got := doc.Find("h1").First().Text(); got != "Dashboard" {
			t.Errorf("Expected Dashboard heading, got %q", got)
		}
		if got := doc.Find(".readiness").Text(); !strings.Contains(got, "0/100") {
			t.Errorf("Expected readiness 0/100 on an empty database, got %q", got)
		}
		if got := doc.Find(".coach").Text(); !strings.Contains(got, "No sessions logged") {
			t.Errorf("Expected coach to note the empty week, got %q", got)
		}
		// Two weeks of zero vertical trip the undertraining rule, nothing else.
		flags := doc.Find(".flags li")
		if flags.Length() != 1 {
			t.Fatalf("Expected exactly the undertraining flag, found %d flags", flags.Length())
		}
		if !flags.First().HasClass("flag-undertraining") {
			t.Errorf("Expected the undertraining flag, got class %q", flags.First().AttrOr("class", ""))
		}
	})

	t.Run("After logging a session", func(t *testing.T) {
		doc, err = client.GetDoc(ctx, "/log")
		if err != nil {
			t.Fatalf("Failed to get log page: %v", err)
		}

		// 2 mi at 10% incline is 1056 ft of vertical.
		doc, err = client.SubmitForm(ctx, doc, "/log", map[string]string{
			"Date":     time.Now().UTC().Format(time.DateOnly),
			"Type":     "incline",
			"Duration": "60",
			"Distance": "2",
			"Incline":  "10",
			"Pack":     "20",
			"RPE":      "6",
		})
		if err != nil {
			t.Fatalf("Failed to submit workout: %v", err)
		}

		doc, err = client.GetDoc(ctx, "/")
		if err != nil {
			t.Fatalf("Failed to get dashboard: %v", err)
		}

		weekSection := doc.Find("section.week").Text()
		if !strings.Contains(weekSection, "1056") {
			t.Errorf("Expected this week's vertical 1056 ft, got %q", weekSection)
		}
		if !strings.Contains(weekSection, "Sessions") {
			t.Errorf("Expected a session count in the week section, got %q", weekSection)
		}

		seriesSection := doc.Find("section.series").Text()
		if !strings.Contains(seriesSection, "1056") {
			t.Errorf("Expected the series to include this week's vertical, got %q", seriesSection)
		}
	})
}
