package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/appcore-go/internal/prefs"
	"github.com/yndnr/appcore-go/internal/storage"
)

// cliRunner runs the app against one data directory, like repeated process
// invocations on the same device.
type cliRunner struct {
	t       *testing.T
	dataDir string
}

func newRunner(t *testing.T) *cliRunner {
	return &cliRunner{t: t, dataDir: t.TempDir()}
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runContext(context.Background(), args...)
}

func (r *cliRunner) runContext(ctx context.Context, args ...string) (string, error) {
	r.t.Helper()

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard

	full := append([]string{"appcore", "--data-dir", r.dataDir}, args...)
	err := app.RunContext(ctx, full)
	return out.String(), err
}

func (r *cliRunner) mustRun(args ...string) string {
	r.t.Helper()
	out, err := r.run(args...)
	if err != nil {
		r.t.Fatalf("appcore %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestKV_TypedRoundTrip(t *testing.T) {
	r := newRunner(t)

	tests := []struct {
		key, typ, value string
		want            string
	}{
		{"greeting", "string", "olá", "olá"},
		{"count", "number", "42.5", "42.5"},
		{"enabled", "bool", "true", "true"},
	}

	for _, tt := range tests {
		r.mustRun("kv", "set", "--type", tt.typ, tt.key, tt.value)
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := strings.TrimSpace(r.mustRun("kv", "get", tt.key))
			if got != tt.want {
				t.Errorf("kv get %s = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestKV_JSON(t *testing.T) {
	r := newRunner(t)
	r.mustRun("kv", "set", "--type", "json", "user", `{"name":"ana","age":30}`)

	out := r.mustRun("-o", "json", "kv", "get", "--type", "json", "user")
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["name"] != "ana" || got["age"] != 30.0 {
		t.Errorf("kv get user = %v", got)
	}
}

func TestKV_MissingKey(t *testing.T) {
	r := newRunner(t)
	_, err := r.run("kv", "get", "nope")
	if !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("kv get missing error = %v, want ErrKeyNotFound", err)
	}
}

func TestKV_KeysHasDelClear(t *testing.T) {
	r := newRunner(t)
	r.mustRun("kv", "set", "user.name", "ana")
	r.mustRun("kv", "set", "user.city", "recife")
	r.mustRun("kv", "set", "session", "x")

	out := r.mustRun("-o", "json", "kv", "keys", "--prefix", "user.")
	var keys []string
	if err := json.Unmarshal([]byte(out), &keys); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "user.city" || keys[1] != "user.name" {
		t.Errorf("kv keys --prefix user. = %v", keys)
	}

	if got := strings.TrimSpace(r.mustRun("kv", "has", "session")); got != "true" {
		t.Errorf("kv has session = %q", got)
	}
	r.mustRun("kv", "del", "session")
	r.mustRun("kv", "del", "session")
	if got := strings.TrimSpace(r.mustRun("kv", "has", "session")); got != "false" {
		t.Errorf("kv has after del = %q", got)
	}

	if _, err := r.run("kv", "clear"); err == nil {
		t.Error("kv clear without --yes should fail")
	}
	r.mustRun("kv", "clear", "--yes")

	out = r.mustRun("-o", "json", "kv", "keys")
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("kv keys after clear = %s", out)
	}
}

func TestKV_BadInput(t *testing.T) {
	r := newRunner(t)
	tests := [][]string{
		{"kv", "set", "--type", "number", "n", "abc"},
		{"kv", "set", "--type", "bool", "b", "maybe"},
		{"kv", "set", "--type", "json", "j", "{"},
		{"kv", "set", "--type", "blob", "k", "v"},
		{"kv", "set", "only-key"},
		{"kv", "get"},
	}
	for _, args := range tests {
		if _, err := r.run(args...); err == nil {
			t.Errorf("appcore %s: expected error", strings.Join(args, " "))
		}
	}
}

func TestKV_BackupRestore(t *testing.T) {
	r := newRunner(t)
	backup := filepath.Join(t.TempDir(), "appcore.bak")

	r.mustRun("kv", "set", "keep", "me")
	r.mustRun("kv", "backup", backup)
	r.mustRun("kv", "clear", "--yes")
	r.mustRun("kv", "set", "transient", "x")
	r.mustRun("kv", "restore", backup)

	if got := strings.TrimSpace(r.mustRun("kv", "get", "keep")); got != "me" {
		t.Errorf("kv get keep after restore = %q", got)
	}
	if _, err := r.run("kv", "get", "transient"); err == nil {
		t.Error("restore should replace keys written after the backup")
	}
}

func TestKV_Stats(t *testing.T) {
	r := newRunner(t)
	r.mustRun("kv", "set", "a", "1")

	out := r.mustRun("-o", "json", "kv", "stats")
	var st statsView
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatal(err)
	}
	if st.Namespace != storage.DefaultNamespace {
		t.Errorf("namespace = %q", st.Namespace)
	}
	if st.TotalKeys != 1 {
		t.Errorf("total_keys = %d, want 1", st.TotalKeys)
	}

	r.mustRun("kv", "gc")
}

func TestKV_Encrypted(t *testing.T) {
	r := newRunner(t)

	t.Setenv("APPCORE_STORAGE_ENCRYPTION_KEY", strings.Repeat("0f", 32))
	r.mustRun("kv", "set", "secret", "value")
	if got := strings.TrimSpace(r.mustRun("kv", "get", "secret")); got != "value" {
		t.Errorf("kv get with key = %q", got)
	}

	t.Setenv("APPCORE_STORAGE_ENCRYPTION_KEY", "")
	if out, err := r.run("kv", "get", "secret"); err == nil && strings.Contains(out, "value") {
		t.Error("sealed value readable without the key")
	}
}

func TestPrefs_PersistAcrossRuns(t *testing.T) {
	r := newRunner(t)

	var st prefs.State
	if err := json.Unmarshal([]byte(r.mustRun("-o", "json", "prefs", "show")), &st); err != nil {
		t.Fatal(err)
	}
	if st != prefs.DefaultState() {
		t.Errorf("fresh prefs = %+v", st)
	}

	r.mustRun("prefs", "theme", "dark")
	r.mustRun("prefs", "onboarding", "true")

	if err := json.Unmarshal([]byte(r.mustRun("-o", "json", "prefs", "show")), &st); err != nil {
		t.Fatal(err)
	}
	want := prefs.State{Theme: prefs.ThemeDark, Language: prefs.LanguagePtBR, OnboardingCompleted: true}
	if st != want {
		t.Errorf("prefs after restart = %+v, want %+v", st, want)
	}

	out := r.mustRun("prefs", "show")
	if !strings.Contains(out, "dark") || !strings.Contains(out, "THEME") {
		t.Errorf("table output = %q", out)
	}

	r.mustRun("prefs", "reset")
	if err := json.Unmarshal([]byte(r.mustRun("-o", "json", "prefs", "show")), &st); err != nil {
		t.Fatal(err)
	}
	if st != prefs.DefaultState() {
		t.Errorf("prefs after reset = %+v", st)
	}

	r.mustRun("prefs", "language", "en-US")
	r.mustRun("prefs", "clear")
	if _, err := r.run("kv", "get", prefs.StorageKey); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("prefs clear left the record behind: %v", err)
	}
}

func TestPrefs_InvalidValues(t *testing.T) {
	r := newRunner(t)
	if _, err := r.run("prefs", "theme", "sepia"); !errors.Is(err, prefs.ErrInvalidTheme) {
		t.Errorf("prefs theme sepia error = %v", err)
	}
	if _, err := r.run("prefs", "language", "de-DE"); !errors.Is(err, prefs.ErrInvalidLanguage) {
		t.Errorf("prefs language de-DE error = %v", err)
	}
	if _, err := r.run("prefs", "onboarding", "perhaps"); err == nil {
		t.Error("prefs onboarding perhaps should fail")
	}
}

func TestBootstrap(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	r := newRunner(t)
	out := r.mustRun("-o", "json", "--base-url", srv.URL, "bootstrap", "--token", "abc", "--ping", "/health")

	var view bootstrapView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if view.BaseURL != srv.URL {
		t.Errorf("base_url = %q, want %q", view.BaseURL, srv.URL)
	}
	if view.PingStatus != http.StatusOK {
		t.Errorf("ping_status = %d", view.PingStatus)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q, want Bearer abc", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}

	// The token persists in storage for later runs.
	if got := strings.TrimSpace(r.mustRun("kv", "get", "auth.token")); got != "abc" {
		t.Errorf("stored token = %q", got)
	}
}

func TestBootstrap_PingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"code":"unavailable","message":"down"}`))
	}))
	defer srv.Close()

	r := newRunner(t)
	if _, err := r.run("--base-url", srv.URL, "bootstrap", "--ping", "/health"); err == nil {
		t.Error("bootstrap --ping against a failing server should fail")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "appcore.yaml")
	content := "log:\n  level: warn\nmetrics:\n  addr: 127.0.0.1:0\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newRunner(t)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := r.runContext(ctx, "--config", cfgPath, "run")
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("run error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after context cancel")
	}

	// Storage is released: a later invocation can open the same directory.
	r.mustRun("kv", "set", "after", "run")
}

func TestInvalidConfig(t *testing.T) {
	r := newRunner(t)
	if _, err := r.run("--log-level", "loud", "kv", "keys"); err == nil {
		t.Error("invalid log level should fail before any command runs")
	}
	if _, err := r.run("-o", "xml", "kv", "keys"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestVersion(t *testing.T) {
	r := newRunner(t)
	out := r.mustRun("-o", "json", "version")

	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatal(err)
	}
	if v["version"] == "" || v["go_version"] == "" {
		t.Errorf("version output = %v", v)
	}
}

func TestShell_SharesOneStore(t *testing.T) {
	r := newRunner(t)

	script := strings.Join([]string{
		"kv set greeting hello",
		`kv set --type json user '{"name": "ana"}'`,
		"kv get greeting",
		"prefs theme dark",
		"kv get missing",
		"shell",
		"exit",
	}, "\n") + "\n"

	var out bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(script)
	app.Writer = &out
	app.ErrWriter = io.Discard

	err := app.RunContext(context.Background(), []string{"appcore", "--data-dir", r.dataDir, "--in-memory", "shell"})
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}

	s := out.String()
	for _, want := range []string{"appcore> ", "hello", "dark", "error: key not found", "error: already in a shell"} {
		if !strings.Contains(s, want) {
			t.Errorf("shell output missing %q:\n%s", want, s)
		}
	}
}

func TestShell_History(t *testing.T) {
	r := newRunner(t)

	var out bytes.Buffer
	app := App()
	app.Reader = strings.NewReader("kv keys\nexit\n")
	app.Writer = &out
	app.ErrWriter = io.Discard
	if err := app.RunContext(context.Background(), []string{"appcore", "--data-dir", r.dataDir, "shell"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(r.dataDir, "shell_history"))
	if err != nil {
		t.Fatalf("history not saved: %v", err)
	}
	if !strings.Contains(string(data), "kv keys") {
		t.Errorf("history = %q", data)
	}
}
