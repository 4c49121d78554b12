package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/Wossito/gym-ai/internal/e2etest"
	"github.com/Wossito/gym-ai/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "GYMAI_SQLITE_URL":
		return ":memory:", true
	case "GYMAI_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

// submitTestProfile fills in and submits the profile form with valid values.
func submitTestProfile(ctx context.Context, client *e2etest.Client, name string) (*goquery.Document, error) {
	doc, err := client.GetDoc(ctx, "/profile")
	if err != nil {
		return nil, fmt.Errorf("get profile page: %w", err)
	}
	return client.SubmitForm(ctx, doc, "/profile", map[string]string{
		"Name":                    name,
		"Age":                     "30",
		"Weight (kg)":             "75",
		"Height (m)":              "1.8",
		"Experience level":        "intermediate",
		"Training goal":           "gain_mass",
		"Training days per week":  "4",
		"Limitations or injuries": "",
	})
}

func Test_application_home(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()

	t.Run("without a profile", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/")
		if err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}

		if got := doc.Find("a[href='/profile']").Length(); got == 0 {
			t.Error("expected a link to the profile form")
		}
		if got := doc.Find("form[action='/routines']").Length(); got != 0 {
			t.Error("generate form must not be shown without a profile")
		}
	})

	t.Run("with a profile", func(t *testing.T) {
		doc, err := submitTestProfile(ctx, client, "Alice")
		if err != nil {
			t.Fatalf("Failed to submit profile: %v", err)
		}

		if !strings.Contains(doc.Find("h1").Text(), "Alice") {
			t.Errorf("expected the welcome heading to greet Alice, got %q", doc.Find("h1").Text())
		}
		if got := doc.Find("form[action='/routines']").Length(); got != 1 {
			t.Errorf("expected 1 generate form, found %d", got)
		}
	})
}

func Test_crossOriginProtection(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	// Create a malicious client that simulates cross-origin requests
	maliciousClient, err := e2etest.NewClientWithSecFetchSite(server.URL(), "cross-site")
	if err != nil {
		t.Fatalf("Failed to create malicious client: %v", err)
	}

	doc, err := maliciousClient.GetDoc(ctx, "/profile")
	if err != nil {
		t.Fatalf("Failed to get profile page: %v", err)
	}

	// Submitting the profile form with cross-origin headers must be blocked.
	_, err = maliciousClient.SubmitForm(ctx, doc, "/profile", map[string]string{"Name": "Mallory"})
	if err == nil {
		t.Fatal("Expected cross-origin form submission to be blocked, but it succeeded")
	}
	if !strings.Contains(err.Error(), "status code: 403") {
		t.Errorf("Expected status error 403 for blocked request, got: %v", err)
	}
}

func Test_application_notFound(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	resp, err := server.Client().Get(ctx, "/no-such-page")
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
