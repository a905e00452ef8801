package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amartinez/cuentasclaritas/internal/auth"
	"github.com/amartinez/cuentasclaritas/pkg/api"
	"github.com/amartinez/cuentasclaritas/pkg/logging"
)

// echoSubject is a handler that answers with the subject found in the context.
func echoSubject(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
	return connect.NewResponse(&api.Participant{Name: GetSubject(ctx)}), nil
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)
	token, err := m.Generate("operator")
	require.NoError(t, err)

	handler := RequireAuth(m)(echoSubject)

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{name: "missing header", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "empty bearer", header: "Bearer ", wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.ListTicketsRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := handler(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, connect.CodeOf(err))
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := connect.NewRequest(&api.ListTicketsRequest{})
		req.Header().Set("Authorization", "Bearer "+token)

		resp, err := handler(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "operator", resp.Any().(*api.Participant).Name)
	})
}

func TestValidationInterceptor(t *testing.T) {
	called := false
	handler := ValidationInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		called = true
		return connect.NewResponse(&api.ListTicketsResponse{}), nil
	})

	tests := []struct {
		name    string
		msg     any
		wantErr bool
	}{
		{name: "valid", msg: &api.GetTicketRequest{TicketID: "t1"}},
		{name: "missing id", msg: &api.GetTicketRequest{}, wantErr: true},
		{name: "negative quantity", msg: &api.UpdateDraftItemRequest{DraftID: "d", Item: api.LineItem{Quantity: -2}}, wantErr: true},
		{name: "negative index", msg: &api.UpdateDraftItemRequest{DraftID: "d", Index: -1}, wantErr: true},
		{name: "empty message", msg: &api.ListTicketsRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			var req connect.AnyRequest
			switch msg := tt.msg.(type) {
			case *api.GetTicketRequest:
				req = connect.NewRequest(msg)
			case *api.UpdateDraftItemRequest:
				req = connect.NewRequest(msg)
			case *api.ListTicketsRequest:
				req = connect.NewRequest(msg)
			}

			_, err := handler(context.Background(), req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
				assert.False(t, called)
				return
			}
			require.NoError(t, err)
			assert.True(t, called)
		})
	}
}

func TestLoggingAndMetricsPassThrough(t *testing.T) {
	wantErr := connect.NewError(connect.CodeNotFound, assert.AnError)
	failing := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, wantErr
	}

	handler := LoggingInterceptor()(MetricsInterceptor()(failing))
	_, err := handler(context.Background(), connect.NewRequest(&api.ListTicketsRequest{}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	handler = LoggingInterceptor()(MetricsInterceptor()(echoSubject))
	resp, err := handler(context.Background(), connect.NewRequest(&api.ListTicketsRequest{}))
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestLoggingRecordsSubjectSetByInnerAuth(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(logging.New(&logs, slog.LevelDebug))
	t.Cleanup(func() { slog.SetDefault(previous) })

	m := auth.NewJWTManager("test-secret", time.Hour)
	token, err := m.Generate("cashier-7")
	require.NoError(t, err)
	handler := LoggingInterceptor()(RequireAuth(m)(echoSubject))

	_, err = handler(context.Background(), connect.NewRequest(&api.ListTicketsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	assert.Contains(t, logs.String(), "RPC error")
	assert.NotContains(t, logs.String(), "cashier-7")

	req := connect.NewRequest(&api.ListTicketsRequest{})
	req.Header().Set("Authorization", "Bearer "+token)
	_, err = handler(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "cashier-7")
}
