package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(2, "Checking locations")
	r.Update(1, "Library")
	r.Update(2, "Food Court")
	r.Finish()

	want := "Checking locations: 2 record(s)\n[1/2] Library\n[2/2] Food Court\nChecking locations: done\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTerminalReporterWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}
	r.Update(1, "before start") // no bar yet
	r.Start(3, "Checking")
	r.Update(3, "last")
	r.Finish()
	if !strings.Contains(buf.String(), "Checking") && !strings.Contains(buf.String(), "last") {
		t.Errorf("nothing rendered: %q", buf.String())
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter under CI")
	}
}
