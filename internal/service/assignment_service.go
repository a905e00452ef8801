package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"connectrpc.com/connect"

	"github.com/amartinez/cuentasclaritas/internal/assign"
	"github.com/amartinez/cuentasclaritas/internal/calculator"
	"github.com/amartinez/cuentasclaritas/internal/metrics"
	"github.com/amartinez/cuentasclaritas/internal/models"
	"github.com/amartinez/cuentasclaritas/internal/storage"
	"github.com/amartinez/cuentasclaritas/pkg/api"
)

var _ api.AssignmentServiceHandler = (*AssignmentService)(nil)

// AssignmentService registers participants, tracks who took which item of a
// ticket and persists the result once every item has an owner.
type AssignmentService struct {
	store storage.Store

	mu       sync.Mutex
	trackers map[string]*assign.Tracker // by ticket ID
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(store storage.Store) *AssignmentService {
	return &AssignmentService{
		store:    store,
		trackers: make(map[string]*assign.Tracker),
	}
}

func (s *AssignmentService) RegisterParticipants(ctx context.Context, req *connect.Request[api.RegisterParticipantsRequest]) (*connect.Response[api.RegisterParticipantsResponse], error) {
	var names []string
	for _, name := range req.Msg.Names {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("at least one non-blank name is required"))
	}

	out := make([]api.Participant, 0, len(names))
	for _, name := range names {
		p, err := s.store.InsertUser(ctx, name)
		if err != nil {
			return nil, storeError("RegisterParticipants", err, "name", name)
		}
		out = append(out, participantToProto(p))
	}

	slog.Info("Participants registered", "count", len(out))
	return connect.NewResponse(&api.RegisterParticipantsResponse{Participants: out}), nil
}

func (s *AssignmentService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return nil, storeError("ListParticipants", err)
	}

	out := make([]api.Participant, len(users))
	for i, u := range users {
		out[i] = participantToProto(u)
	}
	return connect.NewResponse(&api.ListParticipantsResponse{Participants: out}), nil
}

func (s *AssignmentService) ToggleAssignment(ctx context.Context, req *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.AssignmentStateResponse], error) {
	tracker, err := s.tracker(ctx, "ToggleAssignment", req.Msg.TicketID)
	if err != nil {
		return nil, err
	}

	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return nil, storeError("ToggleAssignment", err)
	}
	if !slices.ContainsFunc(users, func(u *models.Participant) bool { return u.ID == req.Msg.ParticipantID }) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("participant %s is not registered", req.Msg.ParticipantID))
	}

	tracker.Toggle(req.Msg.ParticipantID, req.Msg.ItemName)
	slog.Debug("Assignment toggled",
		"ticket_id", req.Msg.TicketID,
		"participant_id", req.Msg.ParticipantID,
		"item", req.Msg.ItemName,
		"assigned", tracker.IsAssigned(req.Msg.ParticipantID, req.Msg.ItemName),
	)

	return connect.NewResponse(&api.AssignmentStateResponse{State: stateToProto(req.Msg.TicketID, tracker)}), nil
}

func (s *AssignmentService) GetAssignmentState(ctx context.Context, req *connect.Request[api.GetAssignmentStateRequest]) (*connect.Response[api.AssignmentStateResponse], error) {
	tracker, err := s.tracker(ctx, "GetAssignmentState", req.Msg.TicketID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.AssignmentStateResponse{State: stateToProto(req.Msg.TicketID, tracker)}), nil
}

// SaveAssignments persists the tracked assignment of a ticket, replacing any
// earlier save. Item names are resolved against a fresh read of the ticket's
// products.
func (s *AssignmentService) SaveAssignments(ctx context.Context, req *connect.Request[api.SaveAssignmentsRequest]) (*connect.Response[api.SaveAssignmentsResponse], error) {
	ticketID := req.Msg.TicketID
	tracker, err := s.tracker(ctx, "SaveAssignments", ticketID)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.GetProductsByTicketID(ctx, ticketID)
	if err != nil {
		return nil, storeError("SaveAssignments", err, "ticket_id", ticketID)
	}

	records, err := tracker.Persistable(ticketID, stored)
	if errors.Is(err, assign.ErrIncomplete) {
		slog.Warn("SaveAssignments rejected", "ticket_id", ticketID, "unassigned", tracker.Unassigned())
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if err := s.store.ReplaceAssignments(ctx, ticketID, records); err != nil {
		return nil, storeError("SaveAssignments", err, "ticket_id", ticketID)
	}
	metrics.AssignmentsSaved.Add(float64(len(records)))

	s.mu.Lock()
	delete(s.trackers, ticketID)
	s.mu.Unlock()

	slog.Info("Assignments saved", "ticket_id", ticketID, "count", len(records))
	return connect.NewResponse(&api.SaveAssignmentsResponse{Saved: len(records)}), nil
}

// GetSplit computes what each participant owes from the persisted
// assignments of a ticket.
func (s *AssignmentService) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	ticketID := req.Msg.TicketID
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, storeError("GetSplit", err, "ticket_id", ticketID)
	}

	products, err := s.store.GetProductsByTicketID(ctx, ticketID)
	if err != nil {
		return nil, storeError("GetSplit", err, "ticket_id", ticketID)
	}
	assignments, err := s.store.GetAssignmentsForTicket(ctx, ticketID)
	if err != nil {
		return nil, storeError("GetSplit", err, "ticket_id", ticketID)
	}
	if len(assignments) == 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("ticket %s has no saved assignments", ticketID))
	}
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return nil, storeError("GetSplit", err)
	}

	owners := make(map[string][]string, len(products))
	involved := make(map[string]bool)
	for _, a := range assignments {
		owners[a.ItemID] = append(owners[a.ItemID], a.ParticipantID)
		involved[a.ParticipantID] = true
	}

	items := make([]calculator.Item, len(products))
	for i, p := range products {
		if len(owners[p.ID]) == 0 {
			return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("item %q of ticket %s has no owner", p.Name, ticketID))
		}
		items[i] = calculator.Item{
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			AssignedTo: owners[p.ID],
		}
	}

	// Registered participants first, in registration order.
	names := make(map[string]string, len(users))
	var participants []string
	for _, u := range users {
		names[u.ID] = u.Name
		if involved[u.ID] {
			participants = append(participants, u.ID)
			delete(involved, u.ID)
		}
	}
	participants = append(participants, sortedKeys(involved)...)

	splits, err := calculator.CalculateSplit(items, ticket.TotalAmount, participants)
	if err != nil {
		slog.Error("CalculateSplit failed during GetSplit", "ticket_id", ticketID, "error", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}

	resp := &api.GetSplitResponse{TicketID: ticketID, Total: ticket.TotalAmount}
	for _, id := range participants {
		split := splits[id]
		out := api.PersonSplit{
			ParticipantID: id,
			Name:          names[id],
			Subtotal:      split.Subtotal,
			Adjustment:    split.Adjustment,
			Total:         split.Total,
		}
		for _, item := range split.Items {
			out.Items = append(out.Items, api.PersonItem{Name: item.Name, Amount: item.Amount})
		}
		resp.Splits = append(resp.Splits, out)
	}

	return connect.NewResponse(resp), nil
}

// tracker returns the working assignment of a ticket. On first use it starts
// one from the stored item names and every registered participant, with the
// last saved assignment already toggled in.
func (s *AssignmentService) tracker(ctx context.Context, op, ticketID string) (*assign.Tracker, error) {
	s.mu.Lock()
	tracker, ok := s.trackers[ticketID]
	s.mu.Unlock()
	if ok {
		return tracker, nil
	}

	if _, err := s.store.GetTicket(ctx, ticketID); err != nil {
		return nil, storeError(op, err, "ticket_id", ticketID)
	}
	products, err := s.store.GetProductsByTicketID(ctx, ticketID)
	if err != nil {
		return nil, storeError(op, err, "ticket_id", ticketID)
	}
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return nil, storeError(op, err)
	}
	saved, err := s.store.GetAssignmentsForTicket(ctx, ticketID)
	if err != nil {
		return nil, storeError(op, err, "ticket_id", ticketID)
	}

	itemNames := make([]string, len(products))
	names := make(map[string]string, len(products))
	for i, p := range products {
		itemNames[i] = p.Name
		names[p.ID] = p.Name
	}
	participantIDs := make([]string, len(users))
	for i, u := range users {
		participantIDs[i] = u.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have started one meanwhile.
	if existing, ok := s.trackers[ticketID]; ok {
		return existing, nil
	}
	tracker = assign.NewTracker(itemNames, participantIDs)
	for _, a := range saved {
		// Repeated names share one toggle.
		if name := names[a.ItemID]; !tracker.IsAssigned(a.ParticipantID, name) {
			tracker.Toggle(a.ParticipantID, name)
		}
	}
	s.trackers[ticketID] = tracker
	return tracker, nil
}

func stateToProto(ticketID string, t *assign.Tracker) api.AssignmentState {
	return api.AssignmentState{
		TicketID:    ticketID,
		Items:       t.Items(),
		Assignments: t.Assignments(),
		Unassigned:  t.Unassigned(),
		Complete:    t.IsComplete(),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
