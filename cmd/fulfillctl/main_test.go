package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func expectedSignature(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestSignTimestampModeFromFile(t *testing.T) {
	body := `{"data":{"order":{"order_id":"1042_1"}}}`
	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}

	out, _, err := execute(t, "", "sign", "--secret", "s3cr3t", "--timestamp", "1700000000", path)
	if err != nil {
		t.Fatalf("sign returned error: %v", err)
	}
	if got, want := strings.TrimSpace(out), expectedSignature("s3cr3t", "1700000000"+body); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSignRawModeFromStdinWithHeaders(t *testing.T) {
	body := `{"event":"x"}`
	out, _, err := execute(t, body, "sign", "-m", "raw", "-s", "k", "--headers", "-")
	if err != nil {
		t.Fatalf("sign returned error: %v", err)
	}
	want := "x-webhook-signature: " + expectedSignature("k", body) + "\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestSignFailures(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "")
	cases := [][]string{
		{"sign", "-m", "raw", "-"},
		{"sign", "-m", "bogus", "-s", "k", "-"},
		{"sign", "-s", "k", "-"},
		{"sign", "-m", "raw", "-s", "k", filepath.Join(t.TempDir(), "missing.json")},
		{"sign", "-m", "flattened", "-s", "k", "-"},
	}
	for _, args := range cases {
		if _, _, err := execute(t, "not json", args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestSignUsesEnvironmentSecret(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "from-env")
	out, _, err := execute(t, "abc", "sign", "-m", "raw", "-")
	if err != nil {
		t.Fatalf("sign returned error: %v", err)
	}
	if strings.TrimSpace(out) != expectedSignature("from-env", "abc") {
		t.Fatalf("unexpected signature %q", out)
	}
}

func TestResolve(t *testing.T) {
	out, _, err := execute(t, "", "resolve", "1042_1700000000", "1043")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if out != "1042_1700000000\t1042\n1043\t1043\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, errOut, err := execute(t, "", "resolve", "1042_1", "_x")
	if err == nil {
		t.Fatal("expected error for unresolvable id")
	}
	if out != "1042_1\t1042\n" || !strings.Contains(errOut, "_x") {
		t.Fatalf("unexpected output %q / %q", out, errOut)
	}
}

func TestCompose(t *testing.T) {
	out, _, err := execute(t, "", "compose", "1042", "1700000000")
	if err != nil {
		t.Fatalf("compose returned error: %v", err)
	}
	if out != "1042_1700000000\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, _, err := execute(t, "", "compose", " ", "1"); err == nil {
		t.Fatal("expected error for blank order id")
	}
	if _, _, err := execute(t, "", "compose", "10_42", "1"); err == nil {
		t.Fatal("expected error for order id containing the separator")
	}
}
