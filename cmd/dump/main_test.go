package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectEntryArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"dump"},
			want: []string{"dump"},
		},
		{
			name: "entry id first token",
			in:   []string{"dump", "2026012201"},
			want: []string{"dump", "show", "2026012201"},
		},
		{
			name: "entry id after value flag",
			in:   []string{"dump", "--dir", "./journal", "2026012201"},
			want: []string{"dump", "--dir", "./journal", "show", "2026012201"},
		},
		{
			name: "entry id after equals flag",
			in:   []string{"dump", "--dir=./journal", "2026012201"},
			want: []string{"dump", "--dir=./journal", "show", "2026012201"},
		},
		{
			name: "entry id after bool flag",
			in:   []string{"dump", "--no-color", "2026012201"},
			want: []string{"dump", "--no-color", "show", "2026012201"},
		},
		{
			name: "entry id after double dash",
			in:   []string{"dump", "--", "2026012201"},
			want: []string{"dump", "--", "show", "2026012201"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"dump", "open", "2026012201"},
			want: []string{"dump", "open", "2026012201"},
		},
		{
			name: "display index not rewritten",
			in:   []string{"dump", "3"},
			want: []string{"dump", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectEntryArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectEntryArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
