package sql

import "testing"

func TestTagsOverlap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a    []string
		b    []string
		want bool
	}{
		{"both empty", nil, nil, true},
		{"a empty targets everyone", nil, []string{"canary"}, true},
		{"b empty targets everyone", []string{"prod"}, nil, true},
		{"shared tag overlaps", []string{"prod", "us-east"}, []string{"canary", "prod"}, true},
		{"disjoint tags do not overlap", []string{"prod"}, []string{"staging"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tagsOverlap(tc.a, tc.b); got != tc.want {
				t.Fatalf("tagsOverlap(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
