package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := Error(EMISSING, "image %s not found", "a.png")
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, "image a.png not found", UserMessage(err))
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	base := errors.New("connection refused")
	err := WrapError(base, ECONNECTION, "cannot fetch %s", "http://x/")
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, ECONNECTION, Code(err))
	assert.Equal(t, "cannot fetch http://x/", UserMessage(err))
}

func TestErrorWithCode(t *testing.T) {
	err := ErrorWithCode(context.Canceled, ECONNECTION)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, ECONNECTION, Code(err))
	assert.Equal(t, ECONNECTION, Code(ErrorWithCode(nil, ECONNECTION)))
	assert.Equal(t, errorText(ECONNECTION), UserMessage(err))
	assert.Equal(t, errorText(EINTERNAL), UserMessage(errors.New("plain")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestUserError(t *testing.T) {
	err := fmt.Errorf("loading: %w", Error(EMISSING, "image %s not found", "a.png"))
	assert.Equal(t, fmt.Sprintf("[%d] image a.png not found", EMISSING), UserError(err))
	assert.Equal(t, "plain", UserError(errors.New("plain")))
	assert.Equal(t, "", UserError(nil))
}

func TestInvariantPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected invariant violation to panic")
		}
		assert.True(t, IsInvariantViolation(r))
	}()
	Invariant("field %s read while dirty", "height")
}

func TestIsInvariantViolationRejectsOthers(t *testing.T) {
	assert.False(t, IsInvariantViolation("some string"))
	assert.False(t, IsInvariantViolation(Error(EINVALID, "x")))
	assert.False(t, IsInvariantViolation(nil))
}
