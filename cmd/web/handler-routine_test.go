package main

import (
	"net/http"
	neturl "net/url"
	"strings"
	"testing"

	"github.com/Wossito/gym-ai/internal/e2etest"
	"github.com/Wossito/gym-ai/internal/testhelpers"
)

func Test_application_routineCycle(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()
	homeDoc, err := submitTestProfile(ctx, client, "Alice")
	if err != nil {
		t.Fatalf("Failed to submit profile: %v", err)
	}

	routineDoc, err := client.SubmitForm(ctx, homeDoc, "/routines", map[string]string{})
	if err != nil {
		t.Fatalf("Failed to generate routine: %v", err)
	}
	routinePath := routineDoc.Url.Path
	if !strings.HasPrefix(routinePath, "/routines/") {
		t.Fatalf("expected to land on a routine page, got %q", routinePath)
	}

	if !strings.Contains(routineDoc.Find("h1").Text(), "Your routine") {
		t.Errorf("unexpected heading %q", routineDoc.Find("h1").Text())
	}
	// The profile asks for 4 training days, so the routine renders 4 day tables.
	if got := routineDoc.Find("table").Length(); got != 4 {
		t.Errorf("day tables = %d, want 4", got)
	}

	feedbackAction, exists := routineDoc.Find("form[action$='/feedback']").Attr("action")
	if !exists {
		t.Fatal("expected a feedback form on a freshly generated routine")
	}
	feedbackDoc, err := client.SubmitForm(ctx, routineDoc, feedbackAction, map[string]string{
		"Satisfaction": "5",
		"Comments":     "Felt strong all week",
	})
	if err != nil {
		t.Fatalf("Failed to submit feedback: %v", err)
	}
	if !strings.Contains(feedbackDoc.Find("h1").Text(), "Thanks for the feedback") {
		t.Errorf("unexpected heading %q", feedbackDoc.Find("h1").Text())
	}

	// The routine page now shows the rating instead of the form.
	ratedDoc, err := client.GetDoc(ctx, routinePath)
	if err != nil {
		t.Fatalf("Failed to reload routine page: %v", err)
	}
	if got := ratedDoc.Find("form[action$='/feedback']").Length(); got != 0 {
		t.Error("feedback form must not be shown after the routine is rated")
	}
	if !strings.Contains(ratedDoc.Text(), "You rated this routine 5/5") {
		t.Error("expected the routine page to show the submitted rating")
	}
}

func Test_application_routineOwnership(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	alice := server.Client()
	homeDoc, err := submitTestProfile(ctx, alice, "Alice")
	if err != nil {
		t.Fatalf("Failed to submit profile: %v", err)
	}
	routineDoc, err := alice.SubmitForm(ctx, homeDoc, "/routines", map[string]string{})
	if err != nil {
		t.Fatalf("Failed to generate routine: %v", err)
	}
	routinePath := routineDoc.Url.Path

	// A different session must not see Alice's routine.
	bob, err := e2etest.NewClient(server.URL())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if _, err = submitTestProfile(ctx, bob, "Bob"); err != nil {
		t.Fatalf("Failed to submit profile: %v", err)
	}

	resp, err := bob.Get(ctx, routinePath)
	if err != nil {
		t.Fatalf("Failed to get routine page: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func Test_application_feedbackValidation(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()
	homeDoc, err := submitTestProfile(ctx, client, "Alice")
	if err != nil {
		t.Fatalf("Failed to submit profile: %v", err)
	}
	routineDoc, err := client.SubmitForm(ctx, homeDoc, "/routines", map[string]string{})
	if err != nil {
		t.Fatalf("Failed to generate routine: %v", err)
	}
	feedbackAction, exists := routineDoc.Find("form[action$='/feedback']").Attr("action")
	if !exists {
		t.Fatal("expected a feedback form")
	}

	// A rating outside the 1-5 scale is rejected.
	resp, err := client.Post(ctx, feedbackAction, neturl.Values{"satisfaction": {"9"}})
	if err != nil {
		t.Fatalf("Failed to post feedback: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}
