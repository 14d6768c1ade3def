package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderCmdFlags(t *testing.T) {
	cmd := newRenderCmd()
	f := cmd.Flags()

	for _, flag := range []string{"defaults", "override"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestApplyCmdFlags(t *testing.T) {
	cmd := newApplyCmd()
	f := cmd.Flags()

	server, _ := f.GetString("server")
	if server != "http://localhost:8080" {
		t.Errorf("default server = %q, want http://localhost:8080", server)
	}

	for _, flag := range []string{"server", "api-key", "timeout"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestRenderCmdCompiledInDefaults(t *testing.T) {
	cmd := newRenderCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--override", "horizon=20"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "horizon=20") {
		t.Errorf("render output = %q, want horizon=20 applied", out.String())
	}
	if !strings.Contains(out.String(), "rssi2=-83:-80:-73:-60") {
		t.Errorf("render output = %q, want compiled-in rssi2 defaults", out.String())
	}
}

func TestCheckCmdRejectsBadOverride(t *testing.T) {
	cmd := newCheckCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"horizon=61"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected check to fail for horizon=61")
	}
}

func TestSanitizeCmd(t *testing.T) {
	cmd := newSanitizeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"horizon=20;rm -rf"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "horizon=20?rm?-rf" {
		t.Errorf("sanitize output = %q, want %q", got, "horizon=20?rm?-rf")
	}
}
