package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/totrackit/totrackit/pkg/client"
)

const defaultAPIURL = "http://127.0.0.1:8080"

func newAPIClient(f APIFlags) *client.Client {
	url := f.URL
	if url == "" {
		url = defaultAPIURL
	}
	return client.New(client.Config{BaseURL: url, Timeout: f.Timeout})
}

func requestContext(f APIFlags) (context.Context, context.CancelFunc) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func runCreate(name string, f *CreateFlags) error {
	req := client.NewProcessRequest{ID: f.ID}

	if f.Deadline != 0 && f.DeadlineIn != 0 {
		return fmt.Errorf("only one of --deadline and --deadline-in may be set")
	}
	if f.Deadline != 0 {
		req.Deadline = &f.Deadline
	}
	if f.DeadlineIn != 0 {
		d := time.Now().Add(f.DeadlineIn).Unix()
		req.Deadline = &d
	}

	for _, t := range f.Tags {
		key, value, found := strings.Cut(t, ":")
		if !found || key == "" {
			return fmt.Errorf("invalid tag %q, want key:value", t)
		}
		req.Tags = append(req.Tags, client.Tag{Key: key, Value: value})
	}

	if f.Context != "" {
		if err := json.Unmarshal([]byte(f.Context), &req.Context); err != nil {
			return fmt.Errorf("invalid context JSON: %w", err)
		}
	}

	ctx, cancel := requestContext(f.API)
	defer cancel()
	p, err := newAPIClient(f.API).CreateProcess(ctx, name, req)
	if err != nil {
		return err
	}
	printJSON(p)
	return nil
}

func runGet(name string, f *GetFlags) error {
	ctx, cancel := requestContext(f.API)
	defer cancel()
	p, err := newAPIClient(f.API).GetProcess(ctx, name, f.ID)
	if err != nil {
		return err
	}
	printJSON(p)
	return nil
}

func runComplete(name string, f *CompleteFlags) error {
	ctx, cancel := requestContext(f.API)
	defer cancel()
	p, err := newAPIClient(f.API).CompleteProcess(ctx, name, f.ID, f.Status)
	if err != nil {
		return err
	}
	printJSON(p)
	return nil
}

func runList(f *ListFlags) error {
	opts := client.ListOptions{
		Name:           f.Name,
		ID:             f.ID,
		Status:         f.Status,
		DeadlineStatus: f.DeadlineStatus,
		SortBy:         f.SortBy,
		Limit:          f.Limit,
		Offset:         f.Offset,
	}
	if f.Tags != "" {
		key, value, found := strings.Cut(f.Tags, ":")
		if !found || key == "" {
			return fmt.Errorf("invalid tags %q, want key:value", f.Tags)
		}
		opts.TagKey, opts.TagValue = key, value
	}

	ctx, cancel := requestContext(f.API)
	defer cancel()
	page, err := newAPIClient(f.API).ListProcesses(ctx, opts)
	if err != nil {
		return err
	}
	printJSON(page)
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
