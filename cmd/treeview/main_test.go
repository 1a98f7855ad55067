package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const payloadJSON = `{
  "folders": {"columns": ["id", "title", "parent_id"], "data": [[1, "Documents", null], [2, "Reports", 1], [3, "Archive", 1]]},
  "items": {"columns": ["id", "title", "folder_id"], "data": [[101, "Readme", 1], [102, "Item 10", 2], [103, "Item 2", 2], [104, "Item 1", 2], [105, "Old", 3]]}
}`

func newPayloadServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setClientEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PAYLOAD_SOURCE", "")
	t.Setenv("DATA_PATH", "")
	t.Setenv("RETRY_ATTEMPTS", "0")
	t.Setenv("REQUEST_TIMEOUT", "2s")
}

func TestRun_RendersSelection(t *testing.T) {
	setClientEnv(t)
	srv := newPayloadServer(t, http.StatusOK, payloadJSON)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-url", srv.URL, "-select", "104,item:102,103", "-collapse", "folder:3"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}

	want := strings.Join([]string{
		"- [-] Documents",
		"  + [ ] Archive",
		"  - [x] Reports",
		"      [x] Item 1",
		"      [x] Item 2",
		"      [x] Item 10",
		"    [ ] Readme",
		"",
		"Selected item IDs: 102, 103, 104",
		"",
	}, "\n")
	if stdout.String() != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", stdout.String(), want)
	}
}

func TestRun_ToggleFolder(t *testing.T) {
	setClientEnv(t)
	srv := newPayloadServer(t, http.StatusOK, payloadJSON)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-url", srv.URL, "-toggle-folder", "folder:1"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Selected item IDs: 101, 102, 103, 104, 105") {
		t.Errorf("output = %s", stdout.String())
	}
}

func TestRun_Failures(t *testing.T) {
	setClientEnv(t)

	t.Run("server error", func(t *testing.T) {
		srv := newPayloadServer(t, http.StatusInternalServerError, "down")
		var stdout, stderr bytes.Buffer
		if code := run([]string{"-url", srv.URL}, &stdout, &stderr); code != 1 {
			t.Fatalf("run() = %d, want 1", code)
		}
		if !strings.Contains(stderr.String(), "no data available:") || !strings.Contains(stderr.String(), "Internal server error") {
			t.Errorf("stderr = %s", stderr.String())
		}
		if stdout.Len() != 0 {
			t.Errorf("nothing should be rendered, got %s", stdout.String())
		}
	})

	t.Run("bad item id", func(t *testing.T) {
		srv := newPayloadServer(t, http.StatusOK, payloadJSON)
		var stdout, stderr bytes.Buffer
		if code := run([]string{"-url", srv.URL, "-select", "abc"}, &stdout, &stderr); code != 2 {
			t.Fatalf("run() = %d, want 2", code)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if code := run([]string{"-nope"}, &stdout, &stderr); code != 2 {
			t.Fatalf("run() = %d, want 2", code)
		}
	})
}

func TestRun_InvalidConfiguration(t *testing.T) {
	srv := newPayloadServer(t, http.StatusOK, payloadJSON)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "retries over the cap", key: "RETRY_ATTEMPTS", value: "99"},
		{name: "relative data path", key: "DATA_PATH", value: "api/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setClientEnv(t)
			t.Setenv(tt.key, tt.value)

			var stdout, stderr bytes.Buffer
			if code := run([]string{"-url", srv.URL}, &stdout, &stderr); code != 2 {
				t.Fatalf("run() = %d, want 2", code)
			}
			if !strings.Contains(stderr.String(), "invalid configuration") {
				t.Errorf("stderr = %s", stderr.String())
			}
			if stdout.Len() != 0 {
				t.Errorf("nothing should be rendered, got %s", stdout.String())
			}
		})
	}
}

func TestParseItemIDs(t *testing.T) {
	ids, err := parseItemIDs(" 1, item:22 ,,3")
	if err != nil {
		t.Fatalf("parseItemIDs() error = %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 22 || ids[2] != 3 {
		t.Errorf("ids = %v", ids)
	}
}
