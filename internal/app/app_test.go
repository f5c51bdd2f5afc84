package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/wordcount/internal/config"
	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/source"
)

// The tests in this file are not parallel: Run initializes the global UI theme.

// newTestApp builds an Application with a temp calibration profile path so
// the user's real profile is never read.
func newTestApp(t *testing.T, src source.Source, args ...string) *Application {
	t.Helper()
	full := append([]string{"wordcount", "--no-color", "--calibration-profile", filepath.Join(t.TempDir(), "profile.json")}, args...)
	var opts []AppOption
	if src != nil {
		opts = append(opts, WithSource(src))
	}
	var errBuf bytes.Buffer
	application, err := New(full, &errBuf, opts...)
	if err != nil {
		t.Fatalf("New failed: %v (%s)", err, errBuf.String())
	}
	application.ErrWriter = &errBuf
	return application
}

func TestNew(t *testing.T) {
	application := newTestApp(t, nil, "-n", "3", "--timeout", "2s")
	if application.Config.MaxDocuments != 3 || application.Config.Timeout != 2*time.Second {
		t.Errorf("unexpected config %+v", application.Config)
	}
	if application.Config.ChunkThreshold <= 0 {
		t.Errorf("adaptive chunk threshold not applied: %d", application.Config.ChunkThreshold)
	}
}

func TestNew_HelpAndErrors(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"wordcount", "--help"}, &errBuf)
	if !IsHelpError(err) {
		t.Errorf("expected help error, got %v", err)
	}

	_, err = New([]string{"wordcount", "-n", "-4"}, &errBuf)
	var configErr apperrors.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
	if IsHelpError(err) {
		t.Error("a config error is not a help error")
	}
}

func TestRun_TableOutput(t *testing.T) {
	src := source.NewMemory(
		source.Document{Ref: "https://a.example", Content: "the quick brown fox"},
		source.Document{Ref: "https://b.example", Content: "jumps over"},
	)
	application := newTestApp(t, src, "-n", "5")

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	for _, want := range []string{"Execution Configuration", "Results", "https://a.example", "https://b.example", "2 documents: 2 succeeded", "6 words"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Quiet(t *testing.T) {
	src := source.NewMemory(
		source.Document{Ref: "https://a.example", Content: "one two three"},
		source.Document{Ref: "https://down.example", Err: errors.New("refused")},
		source.Document{Ref: "https://never.example", Content: "not listed"},
	)
	application := newTestApp(t, src, "-q", "-n", "2")

	var out bytes.Buffer
	code := application.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Errorf("one success should exit 0, got %d", code)
	}
	want := "3\tsuccess\thttps://a.example\n-\tfetch_error\thttps://down.example\n"
	if out.String() != want {
		t.Errorf("quiet output = %q, want %q", out.String(), want)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		docs []source.Document
		args []string
		want int
	}{
		{
			name: "every document timed out",
			docs: []source.Document{
				{Ref: "https://slow-1.example", Content: "x", Delay: time.Second},
				{Ref: "https://slow-2.example", Content: "y", Delay: time.Second},
			},
			args: []string{"-q", "--timeout", "20ms"},
			want: apperrors.ExitErrorTimeout,
		},
		{
			name: "every document failed",
			docs: []source.Document{
				{Ref: "https://down.example", Err: errors.New("refused")},
				{Ref: "https://slow.example", Content: "y", Delay: time.Second},
			},
			args: []string{"-q", "--timeout", "20ms"},
			want: apperrors.ExitErrorGeneric,
		},
		{
			name: "empty run",
			docs: nil,
			args: []string{"-q"},
			want: apperrors.ExitSuccess,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			application := newTestApp(t, source.NewMemory(tt.docs...), tt.args...)
			if code := application.Run(context.Background(), &bytes.Buffer{}); code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	src := source.NewMemory(source.Document{Ref: "https://a.example", Content: "a", Delay: time.Second})
	application := newTestApp(t, src, "-q")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if code := application.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	// Partial results are still reported.
	if !strings.Contains(out.String(), "timeout\thttps://a.example") {
		t.Errorf("interrupted document missing from output %q", out.String())
	}
}

func TestRun_WritesReport(t *testing.T) {
	src := source.NewMemory(source.Document{Ref: "https://a.example", Content: "a b c d"})
	path := filepath.Join(t.TempDir(), "report.json")
	application := newTestApp(t, src, "-o", path, "-v")

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	for _, want := range []string{"Report saved to", "Memory Stats", "System Usage"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var report struct {
		Documents []struct {
			Ref   string `json:"ref"`
			Words int    `json:"words"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Documents) != 1 || report.Documents[0].Words != 4 {
		t.Errorf("unexpected report %s", data)
	}
}

func TestRun_Completion(t *testing.T) {
	application := newTestApp(t, nil, "--completion", "bash")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out.String(), "complete -F _wordcount_completions wordcount") {
		t.Errorf("unexpected completion script:\n%s", out.String())
	}
}

func TestRun_MetricsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	application := newTestApp(t, source.NewMemory(), "-q", "--metrics-addr", ln.Addr().String())
	if code := application.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRun_HTTPURLs(t *testing.T) {
	userAgents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			select {
			case userAgents <- r.Header.Get("User-Agent"):
			default:
			}
			fmt.Fprint(w, "<html><head><title>ignored</title></head><body><p>hello wide</p><script>var x</script><p>world</p></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	application := newTestApp(t, nil, "-q", "--text-only", "--url", srv.URL+"/page", "--url", srv.URL+"/missing")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d, output %q", code, out.String())
	}
	want := fmt.Sprintf("3\tsuccess\t%s/page\n-\tfetch_error\t%s/missing\n", srv.URL, srv.URL)
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if ua := <-userAgents; !strings.HasPrefix(ua, "wordcount/") {
		t.Errorf("default User-Agent = %q", ua)
	}
}

func TestBuildSource(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "urls.txt")
	if err := os.WriteFile(listPath, []byte("# comment\nhttps://c.example\n\nhttps://d.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	hn, err := (&Application{Config: config.AppConfig{APIBase: "https://hn.example/v0"}}).buildSource()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := hn.(*source.HackerNews); !ok {
		t.Errorf("expected *source.HackerNews, got %T", hn)
	}

	list, err := (&Application{Config: config.AppConfig{URLs: []string{"https://a.example"}, URLsFile: listPath}}).buildSource()
	if err != nil {
		t.Fatal(err)
	}
	refs, err := list.ListTopDocuments(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(refs); got != "[https://a.example https://c.example https://d.example]" {
		t.Errorf("refs = %s", got)
	}

	_, err = (&Application{Config: config.AppConfig{URLsFile: filepath.Join(dir, "missing.txt")}}).buildSource()
	var configErr apperrors.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("missing urls file should be a ConfigError, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-n", "3", "-V"}, true},
		{[]string{"-version"}, true},
		{[]string{"-v"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}

	var out bytes.Buffer
	PrintVersion(&out)
	if !strings.HasPrefix(out.String(), "wordcount "+Version) {
		t.Errorf("PrintVersion = %q", out.String())
	}
	if !strings.HasPrefix(userAgent(), "wordcount/"+Version) {
		t.Errorf("userAgent = %q", userAgent())
	}
}
