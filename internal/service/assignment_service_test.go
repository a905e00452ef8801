package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amartinez/cuentasclaritas/internal/models"
	"github.com/amartinez/cuentasclaritas/internal/storage/sqlite"
	"github.com/amartinez/cuentasclaritas/pkg/api"
)

// saveTicket scans and saves text, returning the ticket.
func saveTicket(t *testing.T, c testClients, text string) api.Ticket {
	t.Helper()
	draft := scan(t, c, text, "")
	resp, err := c.tickets.SaveTicket(context.Background(), connect.NewRequest(&api.SaveTicketRequest{DraftID: draft.DraftID}))
	require.NoError(t, err, "SaveTicket failed")
	return resp.Msg.Ticket
}

func register(t *testing.T, c testClients, names ...string) []api.Participant {
	t.Helper()
	resp, err := c.assignments.RegisterParticipants(context.Background(), connect.NewRequest(&api.RegisterParticipantsRequest{Names: names}))
	require.NoError(t, err, "RegisterParticipants failed")
	return resp.Msg.Participants
}

func toggle(t *testing.T, c testClients, ticketID, participantID, item string) api.AssignmentState {
	t.Helper()
	resp, err := c.assignments.ToggleAssignment(context.Background(), connect.NewRequest(&api.ToggleAssignmentRequest{
		TicketID:      ticketID,
		ParticipantID: participantID,
		ItemName:      item,
	}))
	require.NoError(t, err, "ToggleAssignment failed")
	return resp.Msg.State
}

func TestAssignmentService_RegisterParticipants(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	t.Run("blank names are dropped", func(t *testing.T) {
		got := register(t, c, "  ", "Ana", " Luis ", "")
		require.Len(t, got, 2)
		assert.Equal(t, "Ana", got[0].Name)
		assert.Equal(t, "Luis", got[1].Name)
		assert.NotEqual(t, got[0].ParticipantID, got[1].ParticipantID)
	})

	t.Run("only blank names", func(t *testing.T) {
		_, err := c.assignments.RegisterParticipants(ctx, connect.NewRequest(&api.RegisterParticipantsRequest{Names: []string{" ", ""}}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("no names", func(t *testing.T) {
		_, err := c.assignments.RegisterParticipants(ctx, connect.NewRequest(&api.RegisterParticipantsRequest{}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("ListParticipants in registration order", func(t *testing.T) {
		resp, err := c.assignments.ListParticipants(ctx, connect.NewRequest(&api.ListParticipantsRequest{}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Participants, 2)
		assert.Equal(t, "Ana", resp.Msg.Participants[0].Name)
	})
}

func TestAssignmentService_Flow(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	ticket := saveTicket(t, c, receiptText)
	people := register(t, c, "Ana", "Luis")
	ana, luis := people[0].ParticipantID, people[1].ParticipantID

	t.Run("fresh state has nothing assigned", func(t *testing.T) {
		resp, err := c.assignments.GetAssignmentState(ctx, connect.NewRequest(&api.GetAssignmentStateRequest{TicketID: ticket.TicketID}))
		require.NoError(t, err)

		state := resp.Msg.State
		assert.Equal(t, []string{"LECHE ENTERA", "PAN", "VINO TINTO"}, state.Items)
		assert.Equal(t, state.Items, state.Unassigned)
		assert.False(t, state.Complete)
		assert.Empty(t, state.Assignments[ana])
		assert.Empty(t, state.Assignments[luis])
	})

	t.Run("saving an incomplete assignment fails", func(t *testing.T) {
		state := toggle(t, c, ticket.TicketID, ana, "LECHE ENTERA")
		assert.Equal(t, []string{"LECHE ENTERA"}, state.Assignments[ana])
		assert.False(t, state.Complete)

		_, err := c.assignments.SaveAssignments(ctx, connect.NewRequest(&api.SaveAssignmentsRequest{TicketID: ticket.TicketID}))
		requireCode(t, connect.CodeFailedPrecondition, err)
	})

	t.Run("toggle twice unassigns", func(t *testing.T) {
		toggle(t, c, ticket.TicketID, luis, "VINO TINTO")
		state := toggle(t, c, ticket.TicketID, luis, "VINO TINTO")
		assert.Contains(t, state.Unassigned, "VINO TINTO")
	})

	t.Run("complete assignment saves and splits", func(t *testing.T) {
		toggle(t, c, ticket.TicketID, ana, "PAN")
		toggle(t, c, ticket.TicketID, luis, "PAN")
		state := toggle(t, c, ticket.TicketID, luis, "VINO TINTO")
		require.True(t, state.Complete)
		assert.Empty(t, state.Unassigned)

		saved, err := c.assignments.SaveAssignments(ctx, connect.NewRequest(&api.SaveAssignmentsRequest{TicketID: ticket.TicketID}))
		require.NoError(t, err)
		assert.Equal(t, 4, saved.Msg.Saved)

		split, err := c.assignments.GetSplit(ctx, connect.NewRequest(&api.GetSplitRequest{TicketID: ticket.TicketID}))
		require.NoError(t, err)
		require.Len(t, split.Msg.Splits, 2)

		assert.Equal(t, "Ana", split.Msg.Splits[0].Name)
		assert.True(t, split.Msg.Splits[0].Total.Equal(decimal.RequireFromString("1.90")), "ana = %s", split.Msg.Splits[0].Total)
		assert.Equal(t, "Luis", split.Msg.Splits[1].Name)
		assert.True(t, split.Msg.Splits[1].Total.Equal(decimal.RequireFromString("5.10")), "luis = %s", split.Msg.Splits[1].Total)
	})

	t.Run("saved assignment is restored", func(t *testing.T) {
		resp, err := c.assignments.GetAssignmentState(ctx, connect.NewRequest(&api.GetAssignmentStateRequest{TicketID: ticket.TicketID}))
		require.NoError(t, err)

		state := resp.Msg.State
		assert.True(t, state.Complete)
		assert.Empty(t, state.Unassigned)
		assert.ElementsMatch(t, []string{"LECHE ENTERA", "PAN"}, state.Assignments[ana])
		assert.ElementsMatch(t, []string{"PAN", "VINO TINTO"}, state.Assignments[luis])
	})

	t.Run("saving again replaces the earlier owners", func(t *testing.T) {
		state := toggle(t, c, ticket.TicketID, ana, "PAN")
		require.True(t, state.Complete)

		saved, err := c.assignments.SaveAssignments(ctx, connect.NewRequest(&api.SaveAssignmentsRequest{TicketID: ticket.TicketID}))
		require.NoError(t, err)
		assert.Equal(t, 3, saved.Msg.Saved)

		split, err := c.assignments.GetSplit(ctx, connect.NewRequest(&api.GetSplitRequest{TicketID: ticket.TicketID}))
		require.NoError(t, err)
		require.Len(t, split.Msg.Splits, 2)
		assert.True(t, split.Msg.Splits[0].Total.Equal(decimal.RequireFromString("1.50")), "ana = %s", split.Msg.Splits[0].Total)
		assert.True(t, split.Msg.Splits[1].Total.Equal(decimal.RequireFromString("5.50")), "luis = %s", split.Msg.Splits[1].Total)
		require.Len(t, split.Msg.Splits[0].Items, 1)
		assert.Equal(t, "LECHE ENTERA", split.Msg.Splits[0].Items[0].Name)
	})
}

func TestAssignmentService_RepeatedLines(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	ticket := saveTicket(t, c, "PAN 0,80\nLECHE 1,50\nPAN 0,80\nA PAGAR 3,10")
	people := register(t, c, "Ana", "Luis")
	ana, luis := people[0].ParticipantID, people[1].ParticipantID

	toggle(t, c, ticket.TicketID, ana, "PAN")
	state := toggle(t, c, ticket.TicketID, luis, "LECHE")
	assert.Equal(t, []string{"PAN", "LECHE"}, state.Items)
	require.True(t, state.Complete)

	saved, err := c.assignments.SaveAssignments(ctx, connect.NewRequest(&api.SaveAssignmentsRequest{TicketID: ticket.TicketID}))
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Msg.Saved)

	split, err := c.assignments.GetSplit(ctx, connect.NewRequest(&api.GetSplitRequest{TicketID: ticket.TicketID}))
	require.NoError(t, err)
	require.Len(t, split.Msg.Splits, 2)
	assert.True(t, split.Msg.Splits[0].Total.Equal(decimal.RequireFromString("1.60")), "ana = %s", split.Msg.Splits[0].Total)
	assert.Len(t, split.Msg.Splits[0].Items, 2)
	assert.True(t, split.Msg.Splits[1].Total.Equal(decimal.RequireFromString("1.50")), "luis = %s", split.Msg.Splits[1].Total)

	sum := split.Msg.Splits[0].Total.Add(split.Msg.Splits[1].Total)
	assert.True(t, sum.Equal(split.Msg.Total), "shares %s, ticket %s", sum, split.Msg.Total)
}

func TestAssignmentService_Errors(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := c.assignments.ToggleAssignment(ctx, connect.NewRequest(&api.ToggleAssignmentRequest{
			TicketID:      "missing",
			ParticipantID: "p1",
			ItemName:      "PAN",
		}))
		requireCode(t, connect.CodeNotFound, err)

		_, err = c.assignments.GetSplit(ctx, connect.NewRequest(&api.GetSplitRequest{TicketID: "missing"}))
		requireCode(t, connect.CodeNotFound, err)
	})

	t.Run("unregistered participant", func(t *testing.T) {
		ticket := saveTicket(t, c, "PAN 0,80")
		_, err := c.assignments.ToggleAssignment(ctx, connect.NewRequest(&api.ToggleAssignmentRequest{
			TicketID:      ticket.TicketID,
			ParticipantID: "no-such-person",
			ItemName:      "PAN",
		}))
		requireCode(t, connect.CodeNotFound, err)

		resp, err := c.assignments.GetAssignmentState(ctx, connect.NewRequest(&api.GetAssignmentStateRequest{TicketID: ticket.TicketID}))
		require.NoError(t, err)
		assert.Equal(t, []string{"PAN"}, resp.Msg.State.Unassigned)
		assert.NotContains(t, resp.Msg.State.Assignments, "no-such-person")
	})

	t.Run("participant is required", func(t *testing.T) {
		_, err := c.assignments.ToggleAssignment(ctx, connect.NewRequest(&api.ToggleAssignmentRequest{TicketID: "t1"}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("split before saving", func(t *testing.T) {
		ticket := saveTicket(t, c, "PAN 0,80")
		_, err := c.assignments.GetSplit(ctx, connect.NewRequest(&api.GetSplitRequest{TicketID: ticket.TicketID}))
		requireCode(t, connect.CodeFailedPrecondition, err)
	})
}

func TestAssignmentService_SplitNeedsEveryItemOwned(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "tickets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	ticket := &models.Ticket{TotalAmount: decimal.RequireFromString("2.30")}
	require.NoError(t, store.InsertTicket(ctx, ticket))
	items, err := store.SaveProducts(ctx, ticket.ID, []models.LineItem{
		{Quantity: 1, Name: "LECHE", UnitPrice: decimal.RequireFromString("1.50")},
		{Quantity: 1, Name: "PAN", UnitPrice: decimal.RequireFromString("0.80")},
	})
	require.NoError(t, err)
	ana, err := store.InsertUser(ctx, "Ana")
	require.NoError(t, err)
	require.NoError(t, store.InsertAssignments(ctx, []models.Assignment{
		{TicketID: ticket.ID, ItemID: items[0].ID, ParticipantID: ana.ID},
	}))

	svc := NewAssignmentService(store)
	_, err = svc.GetSplit(ctx, connect.NewRequest(&api.GetSplitRequest{TicketID: ticket.ID}))
	requireCode(t, connect.CodeFailedPrecondition, err)
}

func TestAssignmentService_StoreFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	store := sqlite.NewWithDB(db)
	defer store.Close()

	svc := NewAssignmentService(store)
	ctx := context.Background()
	boom := errors.New("database is locked")

	t.Run("ListParticipants", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name FROM users").WillReturnError(boom)
		_, err := svc.ListParticipants(ctx, connect.NewRequest(&api.ListParticipantsRequest{}))
		requireCode(t, connect.CodeInternal, err)
	})

	t.Run("RegisterParticipants", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").WillReturnError(boom)
		_, err := svc.RegisterParticipants(ctx, connect.NewRequest(&api.RegisterParticipantsRequest{Names: []string{"Ana"}}))
		requireCode(t, connect.CodeInternal, err)
	})

	t.Run("GetAssignmentState", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, store_name, date, total_amount FROM tickets").WillReturnError(boom)
		_, err := svc.GetAssignmentState(ctx, connect.NewRequest(&api.GetAssignmentStateRequest{TicketID: "t1"}))
		requireCode(t, connect.CodeInternal, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
