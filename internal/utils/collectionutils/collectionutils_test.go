package collectionutils

import (
	"reflect"
	"testing"
)

func TestAssociate(t *testing.T) {
	type user struct {
		id   int64
		name string
	}

	users := []user{{1, "ava"}, {2, "ben"}}
	byID := Associate(users, func(u user) (int64, string) { return u.id, u.name })

	want := map[int64]string{1: "ava", 2: "ben"}
	if !reflect.DeepEqual(byID, want) {
		t.Fatalf("got %v, want %v", byID, want)
	}
}

func TestGroupBy(t *testing.T) {
	words := []string{"tech", "travel", "science"}
	byFirstLetter := GroupBy(words, func(w string) byte { return w[0] })

	if !reflect.DeepEqual(byFirstLetter['t'], []string{"tech", "travel"}) {
		t.Fatalf("got %v", byFirstLetter['t'])
	}
	if !reflect.DeepEqual(byFirstLetter['s'], []string{"science"}) {
		t.Fatalf("got %v", byFirstLetter['s'])
	}
}

func TestGetOrDefault(t *testing.T) {
	m := map[int64][]string{7: {"go"}}

	if got := GetOrDefault(m, 7, nil); !reflect.DeepEqual(got, []string{"go"}) {
		t.Fatalf("got %v", got)
	}
	if got := GetOrDefault(m, 8, []string{}); len(got) != 0 {
		t.Fatalf("got %v, want empty default", got)
	}
}
