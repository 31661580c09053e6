package faults_test

import (
	"errors"
	"testing"

	"github.com/flowcompose/dataflow/faults"
)

func TestIsPropagated(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sibling failed", &faults.SiblingUnitFailedError{Container: "c", Unit: "u"}, true},
		{"sibling canceled", &faults.SiblingUnitCanceledError{Container: "c", Unit: "u"}, true},
		{"other container failed", &faults.OtherContainerFailedError{From: "a", To: "b"}, true},
		{"other container canceled", &faults.OtherContainerCanceledError{From: "a", To: "b"}, true},
		{"no child registered", &faults.NoChildRegisteredError{Container: "c"}, false},
		{"illegal argument", &faults.IllegalArgumentError{Container: "c", Reason: "nil"}, false},
		{"canceled", &faults.CanceledError{Container: "c"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := faults.IsPropagated(tt.err); got != tt.want {
				t.Errorf("IsPropagated(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if (&faults.IllegalArgumentError{Container: "c", Reason: "duplicate"}).Error() == "" {
		t.Fatal("expected non-empty error message")
	}
	if (&faults.SiblingUnitFailedError{Container: "c", Unit: "u"}).Error() == "" {
		t.Fatal("expected non-empty error message")
	}
}
