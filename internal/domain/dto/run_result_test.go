package dto

import "testing"

func TestRunResult_OK(t *testing.T) {
	if !(RunResult{StatusCode: 200, Body: "Success"}).OK() {
		t.Fatalf("200 should be OK")
	}
	if (RunResult{StatusCode: 500, Body: "boom"}).OK() {
		t.Fatalf("500 should not be OK")
	}
}
