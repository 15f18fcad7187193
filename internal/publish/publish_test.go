package publish_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/musegen/muse/internal/publish"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// graphStub simulates the three-step container protocol for both hosts.
type graphStub struct {
	statusResponses []string
	statusCalls     int
	createCalls     int
	publishCalls    int
	sawToken        bool
}

func (g *graphStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/media"), strings.HasSuffix(r.URL.Path, "/threads"):
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if r.PostFormValue("access_token") != "" {
				g.sawToken = true
			}
			g.createCalls++
			w.Write([]byte(`{"id": "container-1"}`))
		case strings.HasSuffix(r.URL.Path, "/media_publish"), strings.HasSuffix(r.URL.Path, "/threads_publish"):
			g.publishCalls++
			w.Write([]byte(`{"id": "media-9"}`))
		default:
			status := "FINISHED"
			if g.statusCalls < len(g.statusResponses) {
				status = g.statusResponses[g.statusCalls]
			}
			g.statusCalls++
			if r.URL.Query().Get("access_token") != "" {
				g.sawToken = true
			}
			w.Write([]byte(`{"id": "container-1", "status_code": "` + status + `", "status": "` + status + `"}`))
		}
	}
}

func newTestPublisher(t *testing.T, stub *graphStub, maxPolls int) (*publish.Publisher, *httptest.Server) {
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)

	client := publish.NewClient(publish.Config{
		GraphVersion: "v23.0",
		AccessToken:  "token-abc",
		GraphHost:    srv.URL,
		ThreadsHost:  srv.URL,
		Timeout:      5 * time.Second,
	})
	return publish.NewPublisher(client, discardLogger(), time.Millisecond, maxPolls), srv
}

func TestInstagramImageThreeStep(t *testing.T) {
	stub := &graphStub{statusResponses: []string{"IN_PROGRESS", "FINISHED"}}
	p, _ := newTestPublisher(t, stub, 5)

	mediaID, err := p.InstagramImage(context.Background(), "ig-user", "https://cdn.example/i.png", "caption")
	if err != nil {
		t.Fatalf("InstagramImage() error = %v", err)
	}

	if mediaID != "media-9" {
		t.Errorf("mediaID = %q, want media-9", mediaID)
	}
	if stub.createCalls != 1 || stub.publishCalls != 1 {
		t.Errorf("create/publish calls = %d/%d, want 1/1", stub.createCalls, stub.publishCalls)
	}
	if stub.statusCalls != 2 {
		t.Errorf("status calls = %d, want 2", stub.statusCalls)
	}
	if !stub.sawToken {
		t.Error("access token never sent")
	}
}

func TestThreadTextPost(t *testing.T) {
	stub := &graphStub{statusResponses: []string{"FINISHED"}}
	p, _ := newTestPublisher(t, stub, 5)

	mediaID, err := p.Thread(context.Background(), "th-user", "hello threads", "")
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if mediaID != "media-9" {
		t.Errorf("mediaID = %q, want media-9", mediaID)
	}
}

func TestPublisherContainerError(t *testing.T) {
	stub := &graphStub{statusResponses: []string{"ERROR"}}
	p, _ := newTestPublisher(t, stub, 5)

	_, err := p.InstagramImage(context.Background(), "ig-user", "https://cdn.example/i.png", "")
	if err == nil {
		t.Fatal("InstagramImage() succeeded, want error")
	}
	if stub.publishCalls != 0 {
		t.Errorf("publish calls = %d, want 0", stub.publishCalls)
	}
}

func TestPublisherPollBudgetExhausted(t *testing.T) {
	stub := &graphStub{statusResponses: []string{"IN_PROGRESS", "IN_PROGRESS", "IN_PROGRESS"}}
	p, _ := newTestPublisher(t, stub, 2)

	_, err := p.InstagramImage(context.Background(), "ig-user", "https://cdn.example/i.png", "")
	if err == nil {
		t.Fatal("InstagramImage() succeeded, want error")
	}
	if stub.statusCalls != 2 {
		t.Errorf("status calls = %d, want 2", stub.statusCalls)
	}
}

func TestClientPublishContainer(t *testing.T) {
	var gotCreationID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotCreationID = r.PostFormValue("creation_id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "media-7"}`))
	}))
	defer srv.Close()

	client := publish.NewClient(publish.Config{
		GraphVersion: "v23.0",
		AccessToken:  "token-abc",
		GraphHost:    srv.URL,
		ThreadsHost:  srv.URL,
	})

	mediaID, err := client.PublishContainer(context.Background(), "ig-user", "container-42")
	if err != nil {
		t.Fatalf("PublishContainer() error = %v", err)
	}
	if mediaID != "media-7" {
		t.Errorf("mediaID = %q, want media-7", mediaID)
	}
	if gotCreationID != "container-42" {
		t.Errorf("creation_id = %q, want container-42", gotCreationID)
	}

	mediaID, err = client.PublishThreadsContainer(context.Background(), "th-user", "container-43")
	if err != nil {
		t.Fatalf("PublishThreadsContainer() error = %v", err)
	}
	if mediaID != "media-7" {
		t.Errorf("mediaID = %q, want media-7", mediaID)
	}
	if gotCreationID != "container-43" {
		t.Errorf("creation_id = %q, want container-43", gotCreationID)
	}
}

func TestClientGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Invalid parameter", "code": 100}}`))
	}))
	defer srv.Close()

	client := publish.NewClient(publish.Config{
		GraphVersion: "v23.0",
		AccessToken:  "token-abc",
		GraphHost:    srv.URL,
		ThreadsHost:  srv.URL,
	})

	_, err := client.CreateImageContainer(context.Background(), "ig-user", "https://cdn.example/i.png", "")
	if err == nil {
		t.Fatal("CreateImageContainer() succeeded, want error")
	}

	var graphErr *publish.GraphError
	if !errors.As(err, &graphErr) {
		t.Fatalf("error type = %T, want *GraphError", err)
	}
	if graphErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", graphErr.StatusCode)
	}
	if graphErr.Payload["message"] != "Invalid parameter" {
		t.Errorf("Payload = %v", graphErr.Payload)
	}
}
