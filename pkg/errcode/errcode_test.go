package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := NotFoundf("contact %d not found", 42)
	assert.Equal(t, "contact 42 not found", err.Error())
	assert.Equal(t, KindNotFound, KindOf(err))

	assert.Equal(t, KindConflict, KindOf(Conflictf("duplicate")))
	assert.Equal(t, KindFailedPrecondition, KindOf(FailedPreconditionf("blocked")))
	assert.Equal(t, KindInvalidArgument, KindOf(InvalidArgumentf("bad")))

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("update contact: %w", NotFoundf("contact 42 not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
}
