package log

import (
	"errors"
	"testing"
)

func TestLogFieldsBuilders(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentExpense).
		WithOperation(OpCreate).
		WithExpense("lunch", 1250, "food").
		WithError(errors.New("boom"))

	want := map[string]any{
		FieldComponent:   ComponentExpense,
		FieldOperation:   OpCreate,
		FieldExpenseDesc: "lunch",
		FieldAmountCents: int64(1250),
		FieldCategory:    "food",
		FieldError:       "boom",
	}
	if len(f) != len(want) {
		t.Fatalf("got %d fields, want %d: %+v", len(f), len(want), f)
	}
	for k, v := range want {
		if f[k] != v {
			t.Fatalf("field %s = %v, want %v", k, f[k], v)
		}
	}

	slice := f.ToSlice()
	if len(slice) != len(f)*2 {
		t.Fatalf("ToSlice length = %d, want %d", len(slice), len(f)*2)
	}
}

func TestLogFieldsGoalAndAward(t *testing.T) {
	f := NewFields().WithGoal("vacation", 100000)
	if f[FieldGoalName] != "vacation" || f[FieldAmountCents] != int64(100000) {
		t.Fatalf("goal fields = %+v", f)
	}

	f = NewFields().WithAward("first_expense", 25)
	if f[FieldAwardID] != "first_expense" || f[FieldReward] != int64(25) {
		t.Fatalf("award fields = %+v", f)
	}
}

func TestLogFieldsWithErrorNil(t *testing.T) {
	f := NewFields().WithError(nil)
	if _, ok := f[FieldError]; ok {
		t.Fatal("nil error must not add a field")
	}
}
