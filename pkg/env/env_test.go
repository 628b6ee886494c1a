package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("MERCADITO_ENV_TEST", "   ")
	if got := Get("MERCADITO_ENV_TEST", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}

	t.Setenv("MERCADITO_ENV_TEST", " console ")
	if got := Get("MERCADITO_ENV_TEST", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}
