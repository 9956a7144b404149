package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lakeshed/lakeshed/pkg/version"
)

// executeCommand runs the root command with the given arguments and
// captures its combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "lakeshed") {
		t.Errorf("Expected binary name in output, got %q", out)
	}
	if !strings.Contains(out, version.Version) {
		t.Errorf("Expected version %q in output, got %q", version.Version, out)
	}
}

func TestHelpListsCommands(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, name := range []string{"health-check", "demo", "analyze", "ingest", "info", "runs", "version"} {
		if !strings.Contains(out, name) {
			t.Errorf("Help output missing command %q", name)
		}
	}
}

func TestIngestRequiresFlags(t *testing.T) {
	ingestSource, ingestTarget = "", ""

	_, err := executeCommand("ingest")
	if err == nil {
		t.Fatal("Expected error without flags, got nil")
	}
	if !strings.Contains(err.Error(), "--source and --target") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestIngestRejectsUnknownFormat(t *testing.T) {
	ingestSource, ingestTarget = "", ""

	_, err := executeCommand("ingest", "--source", "xml", "--target", "orders_raw")
	if err == nil {
		t.Fatal("Expected error for unknown format, got nil")
	}
	if !strings.Contains(err.Error(), "unknown source format") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestIngestPlaceholder(t *testing.T) {
	ingestSource, ingestTarget = "", ""

	out, err := executeCommand("ingest", "--source", "csv", "--target", "orders_raw")
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if !strings.Contains(out, "csv") || !strings.Contains(out, "orders_raw") {
		t.Errorf("Expected source and target echoed, got %q", out)
	}
	if !strings.Contains(out, "not implemented") {
		t.Errorf("Expected placeholder notice, got %q", out)
	}
}

func TestInfoText(t *testing.T) {
	infoJSON = false

	out, err := executeCommand("info")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}

	for _, want := range []string{"Application:", "Endpoints:", "Feature flags:", "Trino:", "MinIO:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Info output missing %q", want)
		}
	}
}

func TestInfoJSON(t *testing.T) {
	out, err := executeCommand("info", "--json")
	if err != nil {
		t.Fatalf("info --json failed: %v", err)
	}
	infoJSON = false

	var parsed struct {
		Version string         `json:"version"`
		Config  map[string]any `json:"config"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, out)
	}

	if parsed.Version != version.Short() {
		t.Errorf("Expected version %q, got %q", version.Short(), parsed.Version)
	}
	if parsed.Config["app_name"] != "lakeshed" {
		t.Errorf("Expected app_name 'lakeshed', got %v", parsed.Config["app_name"])
	}
	if parsed.Config["postgres_password"] != "********" {
		t.Errorf("Expected masked password, got %v", parsed.Config["postgres_password"])
	}
}

func TestDemoRejectsNegativeRecords(t *testing.T) {
	_, err := executeCommand("demo", "--records", "-1")
	demoRecords = 2000

	if err == nil {
		t.Fatal("Expected error for negative records, got nil")
	}
	if !strings.Contains(err.Error(), "negative") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestDemoDryRun(t *testing.T) {
	out, err := executeCommand("demo", "--dry-run", "--records", "10", "--batch-size", "4", "--seed", "42")
	demoRecords, demoBatchSize, demoSeed, demoDryRun = 2000, 200, 0, false

	if err != nil {
		t.Fatalf("dry run demo failed: %v", err)
	}
	if !strings.Contains(out, "Loaded 10 rows") {
		t.Errorf("Expected row summary, got %q", out)
	}
	if !strings.Contains(out, "3 batches") {
		t.Errorf("Expected 3 batches for 10 records at batch size 4, got %q", out)
	}
	if !strings.Contains(out, "no data was written") {
		t.Errorf("Expected dry run notice, got %q", out)
	}
}

func TestHealthCheckAllDown(t *testing.T) {
	t.Setenv("TRINO_HOST", "bad host")
	t.Setenv("POSTGRES_HOST", "bad host")
	t.Setenv("REDIS_HOST", "bad host")
	t.Setenv("MINIO_ENDPOINT", "http://localhost:9000")

	out, err := executeCommand("health-check")
	if err == nil {
		t.Fatal("Expected an error when no service is reachable")
	}
	if !strings.Contains(err.Error(), "0/4 services are healthy") {
		t.Errorf("Unexpected error: %v", err)
	}
	for _, name := range []string{"trino", "postgres", "redis", "minio"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected output to list service '%s', got:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "unhealthy") {
		t.Errorf("Expected unhealthy statuses, got:\n%s", out)
	}
}

func TestAnalyzeUnreachableTrino(t *testing.T) {
	t.Setenv("TRINO_HOST", "bad host")

	if _, err := executeCommand("analyze"); err == nil {
		t.Fatal("Expected an error when the coordinator is unreachable")
	}
}

func TestRunsUnreachablePostgres(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "bad host")

	if _, err := executeCommand("runs"); err == nil {
		t.Fatal("Expected an error when the metastore is unreachable")
	}
}
