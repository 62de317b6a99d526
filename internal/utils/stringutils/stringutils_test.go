package stringutils

import (
	"reflect"
	"testing"
)

func TestINClause(t *testing.T) {
	placeholders, args := INClause([]int64{10, 20, 30})

	if !reflect.DeepEqual(placeholders, []string{"$1", "$2", "$3"}) {
		t.Fatalf("got placeholders %v", placeholders)
	}
	if !reflect.DeepEqual(args, []any{int64(10), int64(20), int64(30)}) {
		t.Fatalf("got args %v", args)
	}
}

func TestINClauseEmpty(t *testing.T) {
	placeholders, args := INClause([]int64{})

	if len(placeholders) != 0 || len(args) != 0 {
		t.Fatalf("got %v / %v, want empty", placeholders, args)
	}
}
