package scenario

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/AshkanYarmoradi/rehearse"
)

// AssertFailure compares an expected failure against a caught one.
//
// Both absent passes. An expected failure that was never raised reports a
// test error naming it. A caught failure of a different kind than expected
// (or caught when none was expected) is surfaced verbatim and fatally, so
// unexpected failures fail the test as themselves instead of being
// swallowed. When kinds match, message and code are compared field by
// field. Kind comparison is exact dynamic type; wrapped errors are not
// unwrapped.
func AssertFailure(t TB, expected rehearse.Failure, caught error) {
	t.Helper()

	switch {
	case expected == nil && caught == nil:
		return

	case expected != nil && caught == nil:
		t.Errorf("expected failure %s was not raised", describeFailure(expected))

	case expected == nil || reflect.TypeOf(expected) != reflect.TypeOf(caught):
		t.Fatalf("unexpected failure: %+v", caught)

	default:
		// Same dynamic type as expected, so caught implements Failure.
		actual := caught.(rehearse.Failure)
		if expected.Error() != actual.Error() {
			t.Errorf("failure message mismatch: expected %q, got %q", expected.Error(), actual.Error())
		}
		if expected.FailureCode() != actual.FailureCode() {
			t.Errorf("failure code mismatch: expected %d, got %d", expected.FailureCode(), actual.FailureCode())
		}
	}
}

// AssertEventsEqual compares two event sequences structurally, order- and
// length-sensitive, and reports a diff of both sequences on mismatch. Nil
// and empty sequences are considered equal.
func AssertEventsEqual(t TB, expected, actual []interface{}) {
	t.Helper()

	if diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected events in last commit (-expected +recorded):\n%s", diff)
	}
}

func describeFailure(f rehearse.Failure) string {
	return fmt.Sprintf("%T(%q, code %d)", f, f.Error(), f.FailureCode())
}
