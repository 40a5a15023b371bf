package main

import (
	"strings"
	"testing"
)

func TestPanicReport(t *testing.T) {
	report := panicReport("boom", []byte("goroutine 1 [running]:\nmain.initCLI()"))

	if !strings.Contains(report, "boom") {
		t.Errorf("expecting panic value in report, actual %q", report)
	}
	if !strings.Contains(report, "goroutine 1 [running]") {
		t.Errorf("expecting stack trace in report, actual %q", report)
	}
}
