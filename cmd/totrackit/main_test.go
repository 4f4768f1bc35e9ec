package main

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/totrackit/totrackit/internal/server"
	"github.com/totrackit/totrackit/internal/service"
	"github.com/totrackit/totrackit/internal/store/memory"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := memory.New()
	srv := httptest.NewServer(server.NewRouter(service.New(st), st, "").Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := buildRoot()
	root.SetArgs(args)
	return root.Execute()
}

func TestRootHasSubcommands(t *testing.T) {
	root := buildRoot()
	want := map[string]bool{"serve": false, "create": false, "get": false, "complete": false, "list": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestCreateGetCompleteListViaCLI(t *testing.T) {
	url := startTestServer(t)

	if err := execute(t, "create", "batch-job", "--id=run-1", "--deadline-in=1h",
		"--tag=env:test", "--context={\"trigger\":\"manual\"}", "--api-url="+url); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := execute(t, "get", "batch-job", "--id=run-1", "--api-url="+url); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := execute(t, "complete", "batch-job", "--id=run-1", "--api-url="+url); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := execute(t, "list", "--name=batch-job", "--status=COMPLETED", "--api-url="+url); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestCreateRejectsBadFlags(t *testing.T) {
	url := startTestServer(t)

	if err := execute(t, "create", "job", "--id=x", "--deadline=100", "--deadline-in=1h", "--api-url="+url); err == nil {
		t.Fatalf("expected error for conflicting deadline flags")
	}
	if err := execute(t, "create", "job", "--id=x", "--tag=nosep", "--api-url="+url); err == nil {
		t.Fatalf("expected error for malformed tag")
	}
	if err := execute(t, "create", "job", "--id=x", "--context=notjson", "--api-url="+url); err == nil {
		t.Fatalf("expected error for malformed context")
	}
	if err := execute(t, "create", "job", "--api-url="+url); err == nil {
		t.Fatalf("expected error for missing --id")
	}
}

func TestCompletePropagatesAPIErrors(t *testing.T) {
	url := startTestServer(t)
	if err := execute(t, "complete", "ghost", "--id=nope", "--api-url="+url); err == nil {
		t.Fatalf("expected not-found error")
	}
}
