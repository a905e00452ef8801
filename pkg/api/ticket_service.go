package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// TicketServiceName is the fully-qualified name of the TicketService.
const TicketServiceName = "cuentas.v1.TicketService"

// Procedure paths of the TicketService.
const (
	TicketServiceScanTicketProcedure      = "/cuentas.v1.TicketService/ScanTicket"
	TicketServiceGetDraftProcedure        = "/cuentas.v1.TicketService/GetDraft"
	TicketServiceUpdateDraftItemProcedure = "/cuentas.v1.TicketService/UpdateDraftItem"
	TicketServiceAddDraftItemProcedure    = "/cuentas.v1.TicketService/AddDraftItem"
	TicketServiceRemoveDraftItemProcedure = "/cuentas.v1.TicketService/RemoveDraftItem"
	TicketServiceSaveTicketProcedure      = "/cuentas.v1.TicketService/SaveTicket"
	TicketServiceGetTicketProcedure       = "/cuentas.v1.TicketService/GetTicket"
	TicketServiceListTicketsProcedure     = "/cuentas.v1.TicketService/ListTickets"
)

// TicketServiceHandler is implemented by the server side of TicketService.
type TicketServiceHandler interface {
	ScanTicket(context.Context, *connect.Request[ScanTicketRequest]) (*connect.Response[DraftResponse], error)
	GetDraft(context.Context, *connect.Request[GetDraftRequest]) (*connect.Response[DraftResponse], error)
	UpdateDraftItem(context.Context, *connect.Request[UpdateDraftItemRequest]) (*connect.Response[DraftResponse], error)
	AddDraftItem(context.Context, *connect.Request[AddDraftItemRequest]) (*connect.Response[DraftResponse], error)
	RemoveDraftItem(context.Context, *connect.Request[RemoveDraftItemRequest]) (*connect.Response[DraftResponse], error)
	SaveTicket(context.Context, *connect.Request[SaveTicketRequest]) (*connect.Response[SaveTicketResponse], error)
	GetTicket(context.Context, *connect.Request[GetTicketRequest]) (*connect.Response[GetTicketResponse], error)
	ListTickets(context.Context, *connect.Request[ListTicketsRequest]) (*connect.Response[ListTicketsResponse], error)
}

// NewTicketServiceHandler builds an HTTP handler for the service, returning
// the path prefix to mount it on.
func NewTicketServiceHandler(svc TicketServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(TicketServiceScanTicketProcedure, connect.NewUnaryHandler(TicketServiceScanTicketProcedure, svc.ScanTicket, opts...))
	mux.Handle(TicketServiceGetDraftProcedure, connect.NewUnaryHandler(TicketServiceGetDraftProcedure, svc.GetDraft, opts...))
	mux.Handle(TicketServiceUpdateDraftItemProcedure, connect.NewUnaryHandler(TicketServiceUpdateDraftItemProcedure, svc.UpdateDraftItem, opts...))
	mux.Handle(TicketServiceAddDraftItemProcedure, connect.NewUnaryHandler(TicketServiceAddDraftItemProcedure, svc.AddDraftItem, opts...))
	mux.Handle(TicketServiceRemoveDraftItemProcedure, connect.NewUnaryHandler(TicketServiceRemoveDraftItemProcedure, svc.RemoveDraftItem, opts...))
	mux.Handle(TicketServiceSaveTicketProcedure, connect.NewUnaryHandler(TicketServiceSaveTicketProcedure, svc.SaveTicket, opts...))
	mux.Handle(TicketServiceGetTicketProcedure, connect.NewUnaryHandler(TicketServiceGetTicketProcedure, svc.GetTicket, opts...))
	mux.Handle(TicketServiceListTicketsProcedure, connect.NewUnaryHandler(TicketServiceListTicketsProcedure, svc.ListTickets, opts...))
	return "/" + TicketServiceName + "/", mux
}

// TicketServiceClient calls a remote TicketService.
type TicketServiceClient struct {
	scanTicket      *connect.Client[ScanTicketRequest, DraftResponse]
	getDraft        *connect.Client[GetDraftRequest, DraftResponse]
	updateDraftItem *connect.Client[UpdateDraftItemRequest, DraftResponse]
	addDraftItem    *connect.Client[AddDraftItemRequest, DraftResponse]
	removeDraftItem *connect.Client[RemoveDraftItemRequest, DraftResponse]
	saveTicket      *connect.Client[SaveTicketRequest, SaveTicketResponse]
	getTicket       *connect.Client[GetTicketRequest, GetTicketResponse]
	listTickets     *connect.Client[ListTicketsRequest, ListTicketsResponse]
}

// NewTicketServiceClient returns a client for the service at baseURL.
func NewTicketServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TicketServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &TicketServiceClient{
		scanTicket:      connect.NewClient[ScanTicketRequest, DraftResponse](httpClient, baseURL+TicketServiceScanTicketProcedure, opts...),
		getDraft:        connect.NewClient[GetDraftRequest, DraftResponse](httpClient, baseURL+TicketServiceGetDraftProcedure, opts...),
		updateDraftItem: connect.NewClient[UpdateDraftItemRequest, DraftResponse](httpClient, baseURL+TicketServiceUpdateDraftItemProcedure, opts...),
		addDraftItem:    connect.NewClient[AddDraftItemRequest, DraftResponse](httpClient, baseURL+TicketServiceAddDraftItemProcedure, opts...),
		removeDraftItem: connect.NewClient[RemoveDraftItemRequest, DraftResponse](httpClient, baseURL+TicketServiceRemoveDraftItemProcedure, opts...),
		saveTicket:      connect.NewClient[SaveTicketRequest, SaveTicketResponse](httpClient, baseURL+TicketServiceSaveTicketProcedure, opts...),
		getTicket:       connect.NewClient[GetTicketRequest, GetTicketResponse](httpClient, baseURL+TicketServiceGetTicketProcedure, opts...),
		listTickets:     connect.NewClient[ListTicketsRequest, ListTicketsResponse](httpClient, baseURL+TicketServiceListTicketsProcedure, opts...),
	}
}

func (c *TicketServiceClient) ScanTicket(ctx context.Context, req *connect.Request[ScanTicketRequest]) (*connect.Response[DraftResponse], error) {
	return c.scanTicket.CallUnary(ctx, req)
}

func (c *TicketServiceClient) GetDraft(ctx context.Context, req *connect.Request[GetDraftRequest]) (*connect.Response[DraftResponse], error) {
	return c.getDraft.CallUnary(ctx, req)
}

func (c *TicketServiceClient) UpdateDraftItem(ctx context.Context, req *connect.Request[UpdateDraftItemRequest]) (*connect.Response[DraftResponse], error) {
	return c.updateDraftItem.CallUnary(ctx, req)
}

func (c *TicketServiceClient) AddDraftItem(ctx context.Context, req *connect.Request[AddDraftItemRequest]) (*connect.Response[DraftResponse], error) {
	return c.addDraftItem.CallUnary(ctx, req)
}

func (c *TicketServiceClient) RemoveDraftItem(ctx context.Context, req *connect.Request[RemoveDraftItemRequest]) (*connect.Response[DraftResponse], error) {
	return c.removeDraftItem.CallUnary(ctx, req)
}

func (c *TicketServiceClient) SaveTicket(ctx context.Context, req *connect.Request[SaveTicketRequest]) (*connect.Response[SaveTicketResponse], error) {
	return c.saveTicket.CallUnary(ctx, req)
}

func (c *TicketServiceClient) GetTicket(ctx context.Context, req *connect.Request[GetTicketRequest]) (*connect.Response[GetTicketResponse], error) {
	return c.getTicket.CallUnary(ctx, req)
}

func (c *TicketServiceClient) ListTickets(ctx context.Context, req *connect.Request[ListTicketsRequest]) (*connect.Response[ListTicketsResponse], error) {
	return c.listTickets.CallUnary(ctx, req)
}
