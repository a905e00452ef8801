// Package service implements the Connect handlers of the ticket and
// assignment services.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/amartinez/cuentasclaritas/internal/metrics"
	"github.com/amartinez/cuentasclaritas/internal/models"
	"github.com/amartinez/cuentasclaritas/internal/receipt"
	"github.com/amartinez/cuentasclaritas/internal/storage"
	"github.com/amartinez/cuentasclaritas/pkg/api"
)

var _ api.TicketServiceHandler = (*TicketService)(nil)

// TicketService turns OCR text into editable drafts and saves them as
// tickets.
type TicketService struct {
	store  storage.Store
	drafts storage.DraftStore
	now    func() time.Time
}

// NewTicketService creates a new TicketService.
func NewTicketService(store storage.Store, drafts storage.DraftStore) *TicketService {
	return &TicketService{store: store, drafts: drafts, now: time.Now}
}

func (s *TicketService) ScanTicket(ctx context.Context, req *connect.Request[api.ScanTicketRequest]) (*connect.Response[api.DraftResponse], error) {
	result := receipt.Parse(req.Msg.Text)

	metrics.ReceiptsParsed.Inc()
	metrics.ItemsExtracted.Observe(float64(countRecognised(result.Items)))
	if result.Total.Valid {
		metrics.TotalsDetected.Inc()
	}
	slog.Debug("Parsed receipt",
		"items", len(result.Items),
		"total_detected", result.Total.Valid,
		"total", result.TicketTotal().StringFixed(2),
	)

	draft := receipt.NewDraft("", req.Msg.StoreName, result)
	if err := s.drafts.SaveDraft(ctx, draft.Draft); err != nil {
		return nil, storeError("ScanTicket", err)
	}

	return connect.NewResponse(&api.DraftResponse{Draft: draftToProto(draft)}), nil
}

func (s *TicketService) GetDraft(ctx context.Context, req *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	draft, err := s.loadDraft(ctx, "GetDraft", req.Msg.DraftID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.DraftResponse{Draft: draftToProto(draft)}), nil
}

func (s *TicketService) UpdateDraftItem(ctx context.Context, req *connect.Request[api.UpdateDraftItemRequest]) (*connect.Response[api.DraftResponse], error) {
	return s.editDraft(ctx, "UpdateDraftItem", req.Msg.DraftID, func(d *receipt.Draft) error {
		return d.UpdateItem(req.Msg.Index, lineItemFromProto(req.Msg.Item))
	})
}

func (s *TicketService) AddDraftItem(ctx context.Context, req *connect.Request[api.AddDraftItemRequest]) (*connect.Response[api.DraftResponse], error) {
	return s.editDraft(ctx, "AddDraftItem", req.Msg.DraftID, func(d *receipt.Draft) error {
		d.AddItem()
		return nil
	})
}

func (s *TicketService) RemoveDraftItem(ctx context.Context, req *connect.Request[api.RemoveDraftItemRequest]) (*connect.Response[api.DraftResponse], error) {
	return s.editDraft(ctx, "RemoveDraftItem", req.Msg.DraftID, func(d *receipt.Draft) error {
		d.RemoveItem(req.Msg.Index)
		return nil
	})
}

// SaveTicket persists a draft as a ticket with its products and discards the
// draft.
func (s *TicketService) SaveTicket(ctx context.Context, req *connect.Request[api.SaveTicketRequest]) (*connect.Response[api.SaveTicketResponse], error) {
	draft, err := s.loadDraft(ctx, "SaveTicket", req.Msg.DraftID)
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		Date:        s.now(),
		TotalAmount: draft.Total(),
	}
	if draft.StoreName != "" {
		name := draft.StoreName
		ticket.StoreName = &name
	}

	if err := s.store.InsertTicket(ctx, ticket); err != nil {
		return nil, storeError("SaveTicket", err, "draft_id", draft.ID)
	}

	items, err := s.store.SaveProducts(ctx, ticket.ID, draft.Items)
	if err != nil {
		return nil, storeError("SaveTicket", err, "ticket_id", ticket.ID)
	}

	// The ticket is already saved.
	if err := s.drafts.DeleteDraft(ctx, draft.ID); err != nil {
		slog.Warn("SaveTicket: failed to delete draft", "draft_id", draft.ID, "error", err)
	}

	slog.Info("Ticket saved",
		"ticket_id", ticket.ID,
		"items", len(items),
		"total", ticket.TotalAmount.StringFixed(2),
	)

	return connect.NewResponse(&api.SaveTicketResponse{Ticket: ticketToProto(ticket, items)}), nil
}

func (s *TicketService) GetTicket(ctx context.Context, req *connect.Request[api.GetTicketRequest]) (*connect.Response[api.GetTicketResponse], error) {
	ticket, err := s.store.GetTicket(ctx, req.Msg.TicketID)
	if err != nil {
		return nil, storeError("GetTicket", err, "ticket_id", req.Msg.TicketID)
	}

	items, err := s.store.GetProductsByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, storeError("GetTicket", err, "ticket_id", ticket.ID)
	}

	return connect.NewResponse(&api.GetTicketResponse{Ticket: ticketToProto(ticket, items)}), nil
}

func (s *TicketService) ListTickets(ctx context.Context, req *connect.Request[api.ListTicketsRequest]) (*connect.Response[api.ListTicketsResponse], error) {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, storeError("ListTickets", err)
	}

	out := make([]api.Ticket, len(tickets))
	for i, ticket := range tickets {
		out[i] = ticketToProto(ticket, nil)
	}
	return connect.NewResponse(&api.ListTicketsResponse{Tickets: out}), nil
}

func (s *TicketService) loadDraft(ctx context.Context, op, draftID string) (*receipt.Draft, error) {
	stored, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, storeError(op, err, "draft_id", draftID)
	}
	return receipt.Edit(stored), nil
}

func (s *TicketService) editDraft(ctx context.Context, op, draftID string, edit func(*receipt.Draft) error) (*connect.Response[api.DraftResponse], error) {
	draft, err := s.loadDraft(ctx, op, draftID)
	if err != nil {
		return nil, err
	}

	if err := edit(draft); err != nil {
		slog.Warn(op+" rejected", "draft_id", draftID, "error", err)
		if errors.Is(err, receipt.ErrItemIndex) || errors.Is(err, receipt.ErrInvalidItem) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if err := s.drafts.SaveDraft(ctx, draft.Draft); err != nil {
		return nil, storeError(op, err, "draft_id", draftID)
	}
	return connect.NewResponse(&api.DraftResponse{Draft: draftToProto(draft)}), nil
}

// countRecognised counts items that came from product lines, ignoring the
// blank placeholder.
func countRecognised(items []models.LineItem) int {
	n := 0
	for _, item := range items {
		if strings.TrimSpace(item.Name) != "" {
			n++
		}
	}
	return n
}
