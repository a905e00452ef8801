package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AssignmentServiceName is the fully-qualified name of the AssignmentService.
const AssignmentServiceName = "cuentas.v1.AssignmentService"

// Procedure paths of the AssignmentService.
const (
	AssignmentServiceRegisterParticipantsProcedure = "/cuentas.v1.AssignmentService/RegisterParticipants"
	AssignmentServiceListParticipantsProcedure     = "/cuentas.v1.AssignmentService/ListParticipants"
	AssignmentServiceToggleAssignmentProcedure     = "/cuentas.v1.AssignmentService/ToggleAssignment"
	AssignmentServiceGetAssignmentStateProcedure   = "/cuentas.v1.AssignmentService/GetAssignmentState"
	AssignmentServiceSaveAssignmentsProcedure      = "/cuentas.v1.AssignmentService/SaveAssignments"
	AssignmentServiceGetSplitProcedure             = "/cuentas.v1.AssignmentService/GetSplit"
)

// AssignmentServiceHandler is implemented by the server side of AssignmentService.
type AssignmentServiceHandler interface {
	RegisterParticipants(context.Context, *connect.Request[RegisterParticipantsRequest]) (*connect.Response[RegisterParticipantsResponse], error)
	ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error)
	ToggleAssignment(context.Context, *connect.Request[ToggleAssignmentRequest]) (*connect.Response[AssignmentStateResponse], error)
	GetAssignmentState(context.Context, *connect.Request[GetAssignmentStateRequest]) (*connect.Response[AssignmentStateResponse], error)
	SaveAssignments(context.Context, *connect.Request[SaveAssignmentsRequest]) (*connect.Response[SaveAssignmentsResponse], error)
	GetSplit(context.Context, *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error)
}

// NewAssignmentServiceHandler builds an HTTP handler for the service,
// returning the path prefix to mount it on.
func NewAssignmentServiceHandler(svc AssignmentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AssignmentServiceRegisterParticipantsProcedure, connect.NewUnaryHandler(AssignmentServiceRegisterParticipantsProcedure, svc.RegisterParticipants, opts...))
	mux.Handle(AssignmentServiceListParticipantsProcedure, connect.NewUnaryHandler(AssignmentServiceListParticipantsProcedure, svc.ListParticipants, opts...))
	mux.Handle(AssignmentServiceToggleAssignmentProcedure, connect.NewUnaryHandler(AssignmentServiceToggleAssignmentProcedure, svc.ToggleAssignment, opts...))
	mux.Handle(AssignmentServiceGetAssignmentStateProcedure, connect.NewUnaryHandler(AssignmentServiceGetAssignmentStateProcedure, svc.GetAssignmentState, opts...))
	mux.Handle(AssignmentServiceSaveAssignmentsProcedure, connect.NewUnaryHandler(AssignmentServiceSaveAssignmentsProcedure, svc.SaveAssignments, opts...))
	mux.Handle(AssignmentServiceGetSplitProcedure, connect.NewUnaryHandler(AssignmentServiceGetSplitProcedure, svc.GetSplit, opts...))
	return "/" + AssignmentServiceName + "/", mux
}

// AssignmentServiceClient calls a remote AssignmentService.
type AssignmentServiceClient struct {
	registerParticipants *connect.Client[RegisterParticipantsRequest, RegisterParticipantsResponse]
	listParticipants     *connect.Client[ListParticipantsRequest, ListParticipantsResponse]
	toggleAssignment     *connect.Client[ToggleAssignmentRequest, AssignmentStateResponse]
	getAssignmentState   *connect.Client[GetAssignmentStateRequest, AssignmentStateResponse]
	saveAssignments      *connect.Client[SaveAssignmentsRequest, SaveAssignmentsResponse]
	getSplit             *connect.Client[GetSplitRequest, GetSplitResponse]
}

// NewAssignmentServiceClient returns a client for the service at baseURL.
func NewAssignmentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AssignmentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &AssignmentServiceClient{
		registerParticipants: connect.NewClient[RegisterParticipantsRequest, RegisterParticipantsResponse](httpClient, baseURL+AssignmentServiceRegisterParticipantsProcedure, opts...),
		listParticipants:     connect.NewClient[ListParticipantsRequest, ListParticipantsResponse](httpClient, baseURL+AssignmentServiceListParticipantsProcedure, opts...),
		toggleAssignment:     connect.NewClient[ToggleAssignmentRequest, AssignmentStateResponse](httpClient, baseURL+AssignmentServiceToggleAssignmentProcedure, opts...),
		getAssignmentState:   connect.NewClient[GetAssignmentStateRequest, AssignmentStateResponse](httpClient, baseURL+AssignmentServiceGetAssignmentStateProcedure, opts...),
		saveAssignments:      connect.NewClient[SaveAssignmentsRequest, SaveAssignmentsResponse](httpClient, baseURL+AssignmentServiceSaveAssignmentsProcedure, opts...),
		getSplit:             connect.NewClient[GetSplitRequest, GetSplitResponse](httpClient, baseURL+AssignmentServiceGetSplitProcedure, opts...),
	}
}

func (c *AssignmentServiceClient) RegisterParticipants(ctx context.Context, req *connect.Request[RegisterParticipantsRequest]) (*connect.Response[RegisterParticipantsResponse], error) {
	return c.registerParticipants.CallUnary(ctx, req)
}

func (c *AssignmentServiceClient) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *AssignmentServiceClient) ToggleAssignment(ctx context.Context, req *connect.Request[ToggleAssignmentRequest]) (*connect.Response[AssignmentStateResponse], error) {
	return c.toggleAssignment.CallUnary(ctx, req)
}

func (c *AssignmentServiceClient) GetAssignmentState(ctx context.Context, req *connect.Request[GetAssignmentStateRequest]) (*connect.Response[AssignmentStateResponse], error) {
	return c.getAssignmentState.CallUnary(ctx, req)
}

func (c *AssignmentServiceClient) SaveAssignments(ctx context.Context, req *connect.Request[SaveAssignmentsRequest]) (*connect.Response[SaveAssignmentsResponse], error) {
	return c.saveAssignments.CallUnary(ctx, req)
}

func (c *AssignmentServiceClient) GetSplit(ctx context.Context, req *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error) {
	return c.getSplit.CallUnary(ctx, req)
}
