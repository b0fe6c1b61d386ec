/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/log"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	require.Empty(t, GetRequestIDFromContext(ctx))
	require.Empty(t, GetClientIDFromContext(ctx))
	require.Nil(t, GetLoggerFromContext(ctx))
	require.True(t, GetRequestStartTimeFromContext(ctx).IsZero())

	ctx = NewContextWithRequestID(ctx, "req-1")
	ctx = NewContextWithInternalRequestID(ctx, "int-req-1")
	ctx = NewContextWithClientID(ctx, "192.0.2.10")
	logger := log.NewDisabledLogger()
	ctx = NewContextWithLogger(ctx, logger)
	startTime := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	ctx = NewContextWithRequestStartTime(ctx, startTime)

	require.Equal(t, "req-1", GetRequestIDFromContext(ctx))
	require.Equal(t, "int-req-1", GetInternalRequestIDFromContext(ctx))
	require.Equal(t, "192.0.2.10", GetClientIDFromContext(ctx))
	require.Equal(t, logger, GetLoggerFromContext(ctx))
	require.Equal(t, startTime, GetRequestStartTimeFromContext(ctx))
}
