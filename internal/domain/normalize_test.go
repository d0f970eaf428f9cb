package domain

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Gestão", "gestao"},
		{"AÇÃO", "acao"},
		{"  Introdução à Programação ", "introducao a programacao"},
		{"Crème Brûlée", "creme brulee"},
		{"plain ascii", "plain ascii"},
		{"ñandú", "nandu"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, s := range []string{"Gestão", "ÁÉÍÓÚ", "already normal"} {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             bool
	}{
		{"Gestão de Projetos", "gestao", true},
		{"Gestao de Projetos", "GESTÃO", true},
		{"Gestão de Projetos", "", true},
		{"Finanças", "financas", true},
		{"Finanças", "marketing", false},
		{"", "x", false},
	}

	for _, tt := range tests {
		if got := ContainsFold(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold("Português", "portugues") {
		t.Error("expected accent-insensitive equality")
	}
	if EqualFold("Português", "English") {
		t.Error("expected different values to differ")
	}
}
