package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestListKeys(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ADMIN_API_KEY", "admin-secret-0123456789")

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	keysFlags.output = "json"
	defer func() { keysFlags.output = "text" }()

	if err := listKeys(cmd, nil); err != nil {
		t.Fatalf("listKeys() error = %v", err)
	}

	if strings.Contains(buf.String(), "admin-secret-0123456789") {
		t.Fatal("key value printed unmasked")
	}

	var records []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}

	want := []map[string]string{
		{"name": "admin", "key": "admi***", "placeholder": "false"},
		{"name": "monitoring", "key": "dev-***", "placeholder": "true"},
	}
	if len(records) != len(want) {
		t.Fatalf("records = %v, want %v", records, want)
	}
	for i := range want {
		for field, value := range want[i] {
			if records[i][field] != value {
				t.Errorf("records[%d][%s] = %q, want %q", i, field, records[i][field], value)
			}
		}
	}
}

func TestListKeys_Text(t *testing.T) {
	clearConfigEnv(t)

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	keysFlags.output = "text"

	if err := listKeys(cmd, nil); err != nil {
		t.Fatalf("listKeys() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("output has %d lines, want header and 2 keys:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "name") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestListKeys_BadFormat(t *testing.T) {
	clearConfigEnv(t)
	keysFlags.output = "yaml"
	defer func() { keysFlags.output = "text" }()

	if err := listKeys(&cobra.Command{}, nil); err == nil {
		t.Error("listKeys() error = nil, want unsupported format")
	}
}

func TestGenerateKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		buf := &bytes.Buffer{}
		cmd := &cobra.Command{}
		cmd.SetOut(buf)

		if err := generateKey(cmd, nil); err != nil {
			t.Fatalf("generateKey() error = %v", err)
		}

		key := strings.TrimSpace(buf.String())
		if len(key) != 2*generatedKeyBytes {
			t.Errorf("key length = %d, want %d", len(key), 2*generatedKeyBytes)
		}
		if seen[key] {
			t.Errorf("generated key %q twice", key)
		}
		seen[key] = true
	}
}
