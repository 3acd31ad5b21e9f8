package pagination

import (
	"reflect"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := Window(items, Params{Limit: 2, Offset: 1}); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("unexpected window %v", got)
	}
	if got := Window(items, Params{Limit: 10, Offset: 3}); !reflect.DeepEqual(got, []int{4, 5}) {
		t.Fatalf("unexpected tail window %v", got)
	}
	if got := Window(items, Params{Limit: 2, Offset: 50}); len(got) != 0 {
		t.Fatalf("expected empty window past the end, got %v", got)
	}
	if got := Window(items, Params{Limit: -1, Offset: -1}); !reflect.DeepEqual(got, items) {
		t.Fatalf("expected normalized defaults to return all five items, got %v", got)
	}
}
