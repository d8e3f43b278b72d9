// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bindlebinaries/securecoreutils/internal/config"
	"github.com/bindlebinaries/securecoreutils/internal/issue"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
)

func TestReportError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reportError(&buf, errors.New("rm: /srv/x: not a regular file"), 0)
	if got := buf.String(); got != "securecoreutils: rm: /srv/x: not a regular file\n" {
		t.Errorf("reportError() wrote %q", got)
	}

	buf.Reset()
	reportError(&buf, &widget.UsageError{Program: programName, Widget: "touch", Msg: "bad"}, 0)
	want := "securecoreutils: touch: bad\nTry `securecoreutils touch --help' for more information.\n"
	if got := buf.String(); got != want {
		t.Errorf("reportError() wrote %q, want %q", got, want)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("/etc/x.cue").
		WithSuggestion("fix it").
		Wrap(errors.New("syntax error")).
		Build()

	plain := formatErrorForDisplay(ae, false)
	if !strings.Contains(plain, "load configuration") || !strings.Contains(plain, "fix it") {
		t.Errorf("formatErrorForDisplay() = %q", plain)
	}
	if got := formatErrorForDisplay(errors.New("plain"), true); got != "plain" {
		t.Errorf("formatErrorForDisplay() = %q", got)
	}
}

func TestPrintUsageHint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsageHint(&buf, errors.New("plain"))
	if buf.Len() != 0 {
		t.Errorf("printUsageHint() wrote %q for a non-usage error", buf.String())
	}

	err := &ExitError{Code: 1, Err: &widget.UsageError{Program: programName, Msg: "missing required argument"}}
	printUsageHint(&buf, err)
	if got, want := buf.String(), "Try `securecoreutils --help' for more information.\n"; got != want {
		t.Errorf("printUsageHint() wrote %q, want %q", got, want)
	}
}

func TestIssueFor(t *testing.T) {
	t.Parallel()

	uwe := &unknownWidgetError{&widget.UsageError{Program: programName, Msg: "x"}}
	if id, ok := issueFor(uwe); !ok || id != issue.UnknownWidgetId {
		t.Errorf("issueFor(unknown widget) = %v, %v", id, ok)
	}
	if !errors.Is(uwe, widget.ErrUsage) {
		t.Error("unknownWidgetError does not unwrap to ErrUsage")
	}

	ae := issue.NewErrorContext().WithOperation("load configuration").Wrap(errors.New("x")).Build()
	if id, ok := issueFor(ae); !ok || id != issue.ConfigLoadFailedId {
		t.Errorf("issueFor(config) = %v, %v", id, ok)
	}

	if _, ok := issueFor(errors.New("other")); ok {
		t.Error("issueFor matched an unrelated error")
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogFormatJSON)
	logger.Info("hidden at the default level")
	logger.Warn("shown", "path", "/srv/x")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("logged %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["path"] != "/srv/x" || entry["prefix"] != programName {
		t.Errorf("log entry = %v", entry)
	}
}
