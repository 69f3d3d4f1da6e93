package main

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("STARWARS_TEST_KEY", "value")

	if got := getEnv("STARWARS_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("getEnv() = %q, want %q", got, "value")
	}
	if got := getEnv("STARWARS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %q, want %q", got, "fallback")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid integer", "42", 42},
		{"empty", "", 7},
		{"not an integer", "ten", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("STARWARS_TEST_INT", tt.value)
			}
			if got := getEnvInt("STARWARS_TEST_INT", 7); got != tt.want {
				t.Errorf("getEnvInt(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"true", "true", true},
		{"mixed case", "True", true},
		{"false", "false", false},
		{"anything else", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STARWARS_TEST_BOOL", tt.value)
			if got := getEnvBool("STARWARS_TEST_BOOL", false); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
