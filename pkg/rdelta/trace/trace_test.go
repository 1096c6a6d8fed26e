package trace

import "testing"

func TestNameToLevelRoundTrip(t *testing.T) {
	for _, name := range []string{"disabled", "error", "warn", "info", "debug"} {
		level, ok := NameToLevel(name)
		if !ok {
			t.Fatalf("NameToLevel(%q) reported unrecognized", name)
		}
		if level.String() != name {
			t.Fatalf("level.String() = %q, want %q", level.String(), name)
		}
	}
}

func TestNameToLevelRejectsUnknown(t *testing.T) {
	if _, ok := NameToLevel("verbose"); ok {
		t.Fatal("expected unrecognized level name to report false")
	}
}

func TestNilTracerIsSilent(t *testing.T) {
	var tr *Tracer
	tr.Debugf("should not panic")
	tr.Infof("should not panic")
	tr.Warnf("should not panic")
	tr.Errorf("should not panic")
}

func TestWithLevelPreservesPrefix(t *testing.T) {
	tr := New(LevelDisabled).Sublogger("job")
	active := tr.WithLevel(LevelDebug)
	if active.prefix != "job" {
		t.Fatalf("prefix = %q, want %q", active.prefix, "job")
	}
	if !active.enabled(LevelDebug) {
		t.Fatal("expected active tracer to be enabled at LevelDebug")
	}
}

func TestSubloggerNesting(t *testing.T) {
	tr := New(LevelDebug).Sublogger("job").Sublogger("scanner")
	if tr.prefix != "job.scanner" {
		t.Fatalf("prefix = %q, want %q", tr.prefix, "job.scanner")
	}
}

func TestSetSinkReceivesFormattedLines(t *testing.T) {
	var got []string
	SetSink(func(level Level, line string) {
		got = append(got, line)
	})
	defer SetSink(nil)

	tr := New(LevelInfo).Sublogger("test")
	tr.Infof("hello %d", 42)
	tr.Debugf("should not reach the sink")

	if len(got) != 1 || got[0] != "[test] hello 42" {
		t.Fatalf("got %v, want one line %q", got, "[test] hello 42")
	}
}

func TestSetLevelActivatesRoot(t *testing.T) {
	defer SetLevel(LevelDisabled)

	var got []string
	SetSink(func(_ Level, line string) { got = append(got, line) })
	defer SetSink(nil)

	SetLevel(LevelWarn)
	Root.Warnf("disk is getting full")
	if len(got) != 1 {
		t.Fatalf("expected Root to trace once SetLevel activated it, got %v", got)
	}
}
