package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"url untouched", "postgres://u:p@localhost:5432/clinic?sslmode=disable", "postgres://u:p@localhost:5432/clinic?sslmode=disable"},
		{"postgresql scheme untouched", "postgresql://u:p@db/clinic", "postgresql://u:p@db/clinic"},
		{"quoted url", `"postgres://u:p@db/clinic"`, "postgres://u:p@db/clinic"},
		{"kv gets sslmode", "host=localhost user=clinic dbname=clinic", "host=localhost user=clinic dbname=clinic sslmode=disable"},
		{"kv keeps sslmode", "host=localhost sslmode=require", "host=localhost sslmode=require"},
		{"kv collapses whitespace", "host=localhost   user=clinic\tdbname=clinic", "host=localhost user=clinic dbname=clinic sslmode=disable"},
		{"non dsn passthrough", "file:clinic.db", "file:clinic.db"},
	}
	for _, tc := range cases {
		if got := NormalizeDSN(tc.in); got != tc.want {
			t.Errorf("%s: NormalizeDSN(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}
