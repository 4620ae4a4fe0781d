package app

import "testing"

func TestListenAddr(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "8080", want: ":8080"},
		{in: " :9090 ", want: ":9090"},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ListenAddr(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ListenAddr(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ListenAddr(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestMigrationSource(t *testing.T) {
	if migrationSource("") == nil {
		t.Fatalf("expected embedded migrations by default")
	}
	if migrationSource(t.TempDir()) == nil {
		t.Fatalf("expected a directory source")
	}
}
