package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	if err := printRoutes(&buf); err != nil {
		t.Fatalf("print routes: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"GET     /login",
		"POST    /login",
		"GET     /patient",
		"POST    /patient/booking/:step/:action",
		"POST    /pharmacist/prescriptions/:id/fulfill",
		"POST    /labtech/results",
		"PATCH   /admin/users/:id",
		"POST    /chat/message",
		"GET     /health/ready",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing route %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "echo_route_not_found") {
		t.Fatalf("catch-all routes should be hidden")
	}
}
