package log

import (
	"bytes"
	"strings"
	"testing"
)

// capture redirects the shared sink into a fresh buffer.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	return buf
}

func TestInfoCarriesComponentPrefix(t *testing.T) {
	SetGlobalDebug(false)
	buf := capture(t)

	ForComponent("prefix_component").Infof("searching %d sources", 3)
	out := buf.String()

	if !strings.Contains(out, "[prefix_component]") {
		t.Fatalf("expected [prefix_component] in output, got: %q", out)
	}
	if !strings.Contains(out, "searching 3 sources") {
		t.Fatalf("expected formatted message in output, got: %q", out)
	}
	if !strings.Contains(out, LevelInfo) {
		t.Fatalf("expected %s tag in output, got: %q", LevelInfo, out)
	}
}

func TestWarnIncludesPrefix(t *testing.T) {
	SetGlobalDebug(false)
	buf := capture(t)

	ForComponent("warn_component").Warnf("attention needed")
	out := buf.String()

	if !strings.Contains(out, "[warn_component]") {
		t.Fatalf("expected prefix in warn output, got: %q", out)
	}
	if !strings.Contains(out, "attention needed") {
		t.Fatalf("expected warn message in output, got: %q", out)
	}
}

func TestDebugPerComponent(t *testing.T) {
	SetGlobalDebug(false)

	const name = "debug_component_specific"
	DisableDebugFor(name) // ensure clean state
	buf := capture(t)
	l := ForComponent(name)

	l.Debugf("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Fatalf("debug message appeared while debug disabled (per component & global)")
	}

	EnableDebugFor(name)
	defer DisableDebugFor(name)

	l.Debugf("visible now")
	if !strings.Contains(buf.String(), "visible now") {
		t.Fatalf("expected debug message after enabling per-component debug; got: %q", buf.String())
	}
}

func TestDebugGlobal(t *testing.T) {
	SetGlobalDebug(false)

	const name = "debug_component_global"
	DisableDebugFor(name)
	buf := capture(t)
	l := ForComponent(name)

	l.Debugf("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug message appeared while global debug disabled")
	}

	SetGlobalDebug(true)
	defer SetGlobalDebug(false) // cleanup for other tests

	l.Debugf("global visible")
	if !strings.Contains(buf.String(), "global visible") {
		t.Fatalf("expected debug message after enabling global debug; got: %q", buf.String())
	}
}

func TestSetOutputReachesExistingHandles(t *testing.T) {
	l := ForComponent("output_swap")
	capture(t)

	second := &bytes.Buffer{}
	SetOutput(second)

	l.Infof("after swap")
	if !strings.Contains(second.String(), "after swap") {
		t.Fatalf("expected existing handle to write to new output; got: %q", second.String())
	}
}

func TestDebugEnvListEnablesComponents(t *testing.T) {
	SetGlobalDebug(false)
	DisableDebugFor("env_cache")
	DisableDebugFor("env_peertube")

	applyDebugEnv("env_cache, env_peertube")
	defer DisableDebugFor("env_cache")
	defer DisableDebugFor("env_peertube")

	if !DebugEnabledFor("env_cache") || !DebugEnabledFor("env_peertube") {
		t.Fatal("expected listed components to have debug enabled")
	}
	if DebugEnabledFor("env_other") {
		t.Fatal("expected unlisted component to stay quiet")
	}
}

func TestDebugEnvAllEnablesGlobally(t *testing.T) {
	applyDebugEnv("all")
	defer SetGlobalDebug(false)

	if !GlobalDebug() {
		t.Fatal("expected global debug after VIDMUX_DEBUG=all")
	}
	if !DebugEnabledFor("any_component") {
		t.Fatal("expected every component to report debug enabled")
	}
}
