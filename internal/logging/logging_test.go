package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("carried through context")

	if !strings.Contains(buf.String(), "carried through context") {
		t.Errorf("logger not recovered from context, output: %q", buf.String())
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	if lvl := logger.GetLevel(); lvl != zerolog.Disabled {
		t.Errorf("bare context logger level = %s, want disabled no-op", lvl)
	}
}
