package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	context_ "github.com/mkrupp/homecase-login/internal/infra/context"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	_, ok := context_.TraceIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := context_.WithTraceID(context.Background(), "0abc")
	traceID, ok := context_.TraceIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "0abc", traceID)
}

func TestSubject(t *testing.T) {
	t.Parallel()

	_, ok := context_.SubjectFromContext(context_.WithSubject(context.Background(), ""))
	assert.False(t, ok, "empty subject is not authenticated")

	subject, ok := context_.SubjectFromContext(context_.WithSubject(context.Background(), "admin"))
	assert.True(t, ok)
	assert.Equal(t, "admin", subject)
}
